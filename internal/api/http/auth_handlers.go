package http

import (
	"errors"
	"net/http"

	"github.com/campuskit/surveyhub/internal/auth"
)

func RegisterHandler(users *auth.UserStore, svc *auth.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name     string `json:"name"`
			Email    string `json:"email" validate:"required,email"`
			UserID   string `json:"userID"`
			Role     string `json:"role" validate:"required,oneof=staff student mentor"`
			Password string `json:"password" validate:"required,min=6"`
		}
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		u, err := users.Register(r.Context(), req.Name, req.Email, req.UserID, req.Role, req.Password)
		if errors.Is(err, auth.ErrEmailTaken) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		tok, err := svc.IssueJWT(u.ID, u.Email, u.Role)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"token": tok, "id": u.ID, "email": u.Email, "role": u.Role,
		})
	}
}

func LoginHandler(users *auth.UserStore, svc *auth.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email" validate:"required,email"`
			Password string `json:"password" validate:"required"`
		}
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		u, err := users.Authenticate(r.Context(), req.Email, req.Password)
		if errors.Is(err, auth.ErrBadCredentials) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		tok, err := svc.IssueJWT(u.ID, u.Email, u.Role)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"token": tok, "id": u.ID, "email": u.Email, "role": u.Role,
		})
	}
}
