package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"shareit/internal/database"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Default export window around now when the caller supplies no range.
const (
	DefaultRangeMonthsBack    = 1
	DefaultRangeMonthsForward = 2
)

const sheetName = "Bookings"

// Service renders the booking calendar into an .xlsx file: one row per
// item, one column per day of the requested range.
type Service struct {
	db     *database.DB
	dir    string
	logger zerolog.Logger
}

func NewService(db *database.DB, dir string, logger *zerolog.Logger) *Service {
	return &Service{
		db:     db,
		dir:    dir,
		logger: logger.With().Str("component", "export").Logger(),
	}
}

// DefaultRange returns the export window used when no explicit bounds
// are given.
func DefaultRange(now time.Time) (time.Time, time.Time) {
	return now.AddDate(0, -DefaultRangeMonthsBack, 0), now.AddDate(0, DefaultRangeMonthsForward, 0)
}

// ExportBookings writes the calendar for [start, end] and returns the
// file path.
func (s *Service) ExportBookings(ctx context.Context, start, end time.Time) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	items, err := s.db.GetAllItems(ctx)
	if err != nil {
		return "", fmt.Errorf("error getting items: %w", err)
	}
	bookings, err := s.db.GetBookingsInRange(ctx, start, end)
	if err != nil {
		return "", fmt.Errorf("error getting bookings: %w", err)
	}
	bookerNames, err := s.bookerNames(ctx, bookings)
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Period: %s - %s",
		start.Format("02.01.2006"), end.Format("02.01.2006")))

	dateColumns := s.writeDateHeaders(f, start, end)
	s.writeItemHeaders(f, items)
	s.writeBookingCells(f, items, bookings, bookerNames, dateColumns)

	_ = f.SetColWidth(sheetName, "A", "A", 25)

	lastCol, _ := excelize.ColumnNumberToName(len(dateColumns) + 1)
	_ = f.MergeCell(sheetName, "A1", lastCol+"1")
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_%s_to_%s.xlsx",
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	filePath := filepath.Join(s.dir, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	s.logger.Info().Str("file_path", filePath).Msg("bookings export created")
	return filePath, nil
}

func (s *Service) bookerNames(ctx context.Context, bookings []models.Booking) (map[int64]string, error) {
	ids := make([]int64, 0, len(bookings))
	seen := make(map[int64]bool)
	for i := range bookings {
		if !seen[bookings[i].BookerID] {
			seen[bookings[i].BookerID] = true
			ids = append(ids, bookings[i].BookerID)
		}
	}
	users, err := s.db.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("error getting bookers: %w", err)
	}
	names := make(map[int64]string, len(users))
	for i := range users {
		names[users[i].ID] = users[i].Name
	}
	return names, nil
}

// writeDateHeaders fills row 2 with one column per day and returns the
// date -> column mapping.
func (s *Service) writeDateHeaders(f *excelize.File, start, end time.Time) map[string]int {
	col := 2
	day := start
	columns := make(map[string]int)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for !day.After(end) {
		cell, _ := excelize.CoordinatesToCellName(col, 2)
		_ = f.SetCellValue(sheetName, cell, day.Format("02.01"))
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
		columns[day.Format("2006-01-02")] = col

		name, _ := excelize.ColumnNumberToName(col)
		_ = f.SetColWidth(sheetName, name, name, 20)

		col++
		day = day.AddDate(0, 0, 1)
	}
	return columns
}

func (s *Service) writeItemHeaders(f *excelize.File, items []models.Item) {
	style, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2EFDA"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i := range items {
		cell, _ := excelize.CoordinatesToCellName(1, i+3)
		_ = f.SetCellValue(sheetName, cell, fmt.Sprintf("%s (#%d)", items[i].Name, items[i].ID))
		_ = f.SetCellStyle(sheetName, cell, cell, style)
	}
}

func (s *Service) writeBookingCells(
	f *excelize.File,
	items []models.Item,
	bookings []models.Booking,
	bookerNames map[int64]string,
	dateColumns map[string]int,
) {
	byItem := make(map[int64][]models.Booking)
	for i := range bookings {
		byItem[bookings[i].ItemID] = append(byItem[bookings[i].ItemID], bookings[i])
	}

	for i := range items {
		row := i + 3
		itemBookings := byItem[items[i].ID]
		for dateKey, col := range dateColumns {
			day, err := time.Parse("2006-01-02", dateKey)
			if err != nil {
				continue
			}
			covering := bookingsOnDay(itemBookings, day)

			cell, _ := excelize.CoordinatesToCellName(col, row)
			if len(covering) == 0 {
				_ = f.SetCellValue(sheetName, cell, "free")
				continue
			}

			var text string
			for _, b := range covering {
				text += fmt.Sprintf("%s %s\n", statusMark(b.Status), bookerNames[b.BookerID])
			}
			_ = f.SetCellValue(sheetName, cell, text)
			if styleID, err := s.cellStyle(f, covering); err == nil {
				_ = f.SetCellStyle(sheetName, cell, cell, styleID)
			}
		}
	}
}

// bookingsOnDay keeps bookings whose period covers any part of the day,
// skipping rejected and canceled ones.
func bookingsOnDay(bookings []models.Booking, day time.Time) []models.Booking {
	dayEnd := day.AddDate(0, 0, 1)
	var out []models.Booking
	for _, b := range bookings {
		if b.Status == models.StatusRejected || b.Status == models.StatusCanceled {
			continue
		}
		if b.Start.Before(dayEnd) && !b.End.Before(day) {
			out = append(out, b)
		}
	}
	return out
}

func statusMark(status models.BookingStatus) string {
	switch status {
	case models.StatusApproved:
		return "✅"
	case models.StatusWaiting:
		return "⏳"
	default:
		return "✖"
	}
}

// cellStyle colors the cell red when an approved booking occupies the
// day and yellow when only waiting ones do.
func (s *Service) cellStyle(f *excelize.File, covering []models.Booking) (int, error) {
	hasApproved := false
	for _, b := range covering {
		if b.Status == models.StatusApproved {
			hasApproved = true
			break
		}
	}

	color := "#FFEB9C"
	if hasApproved {
		color = "#FFC7CE"
	}
	return f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "left",
			Vertical:   "top",
			WrapText:   true,
		},
	})
}
