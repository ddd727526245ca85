package service

import (
	"context"
	"errors"
	"strings"

	"shareit/internal/database"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type UserService struct {
	db     *database.DB
	logger *zerolog.Logger
}

func NewUserService(db *database.DB, logger *zerolog.Logger) *UserService {
	return &UserService{db: db, logger: logger}
}

// UserInput carries the create/update payload. Nil fields on update
// keep the stored value.
type UserInput struct {
	Email *string `json:"email"`
	Name  *string `json:"name"`
}

func (s *UserService) GetAll(ctx context.Context) ([]UserResponse, error) {
	users, err := s.db.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, *newUserResponse(&users[i]))
	}
	return out, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*UserResponse, error) {
	user, err := s.user(ctx, id)
	if err != nil {
		return nil, err
	}
	return newUserResponse(user), nil
}

func (s *UserService) Create(ctx context.Context, in *UserInput) (*UserResponse, error) {
	if in == nil {
		return nil, BadRequestf("request body is empty")
	}
	if fields := validateUserInput(in, true); len(fields) > 0 {
		return nil, ValidationError(fields)
	}

	email := strings.TrimSpace(*in.Email)
	if _, err := s.db.GetUserByEmail(ctx, email); err == nil {
		return nil, Conflictf("user with email %s already exists", email)
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	user := &models.User{Email: email}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if err := s.db.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, Conflictf("user with email %s already exists", email)
		}
		return nil, err
	}
	s.logger.Info().Int64("user_id", user.ID).Msg("user created")
	return newUserResponse(user), nil
}

func (s *UserService) Update(ctx context.Context, id int64, in *UserInput) (*UserResponse, error) {
	if in == nil {
		return nil, BadRequestf("request body is empty")
	}
	if fields := validateUserInput(in, false); len(fields) > 0 {
		return nil, ValidationError(fields)
	}

	if in.Email != nil {
		existing, err := s.db.GetUserByEmail(ctx, *in.Email)
		if err == nil && existing.ID != id {
			return nil, Conflictf("user with email %s already exists", *in.Email)
		}
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
	}

	if err := s.db.UpdateUser(ctx, id, in.Email, in.Name); err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			return nil, NotFoundf("no user with id %d", id)
		case errors.Is(err, database.ErrDuplicate):
			return nil, Conflictf("user with email %s already exists", *in.Email)
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete removes the user together with owned items and their
// bookings and comments. Unknown ids are a no-op.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.db.DeleteUser(ctx, id)
}

// user loads the entity or reports NotFound; other services use it to
// validate identity references.
func (s *UserService) user(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.db.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, NotFoundf("no user with id %d", id)
		}
		return nil, err
	}
	return user, nil
}

func validateUserInput(in *UserInput, require bool) map[string]string {
	fields := make(map[string]string)
	if in.Email == nil {
		if require {
			fields["email"] = "email is required"
		}
	} else {
		email := strings.TrimSpace(*in.Email)
		if email == "" {
			fields["email"] = "email must not be blank"
		} else if !strings.Contains(email, "@") {
			fields["email"] = "email must be a valid address"
		}
	}
	return fields
}
