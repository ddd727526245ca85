package api

import (
	"net/http"

	"shareit/internal/service"

	"github.com/go-chi/chi/v5"
)

func (s *HTTPServer) handleGetUserItems(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	from, ok := queryInt(w, r, "from")
	if !ok {
		return
	}
	size, ok := queryInt(w, r, "size")
	if !ok {
		return
	}
	items, err := s.items.GetUserItems(r.Context(), uid, from, size)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *HTTPServer) handleGetItem(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	itemID, ok := pathID(w, chi.URLParam(r, "itemId"))
	if !ok {
		return
	}
	item, err := s.items.GetByID(r.Context(), itemID, uid)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *HTTPServer) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var in service.ItemInput
	if !decodeBody(w, r, &in) {
		return
	}
	item, err := s.items.Create(r.Context(), uid, &in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *HTTPServer) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	itemID, ok := pathID(w, chi.URLParam(r, "itemId"))
	if !ok {
		return
	}
	var in service.ItemInput
	if !decodeBody(w, r, &in) {
		return
	}
	item, err := s.items.Update(r.Context(), uid, itemID, &in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *HTTPServer) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	itemID, ok := pathID(w, chi.URLParam(r, "itemId"))
	if !ok {
		return
	}
	if err := s.items.Delete(r.Context(), uid, itemID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *HTTPServer) handleSearchItems(w http.ResponseWriter, r *http.Request) {
	if _, ok := userID(w, r); !ok {
		return
	}
	from, ok := queryInt(w, r, "from")
	if !ok {
		return
	}
	size, ok := queryInt(w, r, "size")
	if !ok {
		return
	}
	items, err := s.items.Search(r.Context(), r.URL.Query().Get("text"), from, size)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *HTTPServer) handleAddComment(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	itemID, ok := pathID(w, chi.URLParam(r, "itemId"))
	if !ok {
		return
	}
	var in service.CommentInput
	if !decodeBody(w, r, &in) {
		return
	}
	comment, err := s.items.AddComment(r.Context(), uid, itemID, &in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}
