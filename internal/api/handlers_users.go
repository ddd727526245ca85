package api

import (
	"net/http"

	"shareit/internal/service"

	"github.com/go-chi/chi/v5"
)

func (s *HTTPServer) handleGetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *HTTPServer) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, chi.URLParam(r, "userId"))
	if !ok {
		return
	}
	user, err := s.users.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in service.UserInput
	if !decodeBody(w, r, &in) {
		return
	}
	user, err := s.users.Create(r.Context(), &in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, chi.URLParam(r, "userId"))
	if !ok {
		return
	}
	var in service.UserInput
	if !decodeBody(w, r, &in) {
		return
	}
	user, err := s.users.Update(r.Context(), id, &in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, chi.URLParam(r, "userId"))
	if !ok {
		return
	}
	if err := s.users.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
