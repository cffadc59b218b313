package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campuskit/surveyhub/internal/audience"
	"github.com/campuskit/surveyhub/internal/auth"
	"github.com/campuskit/surveyhub/internal/response"
	"github.com/campuskit/surveyhub/internal/roster"
	"github.com/campuskit/surveyhub/internal/schedule"
)

// AssignedSurveysHandler is the student's personalized survey list. With no
// state filter every matching window is returned; ?state=live|scheduled|completed
// narrows to one time state.
func AssignedSurveysHandler(resolver *audience.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := auth.EmailFromContext(r.Context())

		var (
			out []audience.AssignedSurvey
			err error
		)
		switch state := r.URL.Query().Get("state"); state {
		case "":
			out, err = resolver.Resolve(r.Context(), email)
		case string(schedule.StateLive), string(schedule.StateScheduled), string(schedule.StateCompleted):
			out, err = resolver.ResolveState(r.Context(), email, schedule.State(state))
		default:
			http.Error(w, "unknown state: "+state, http.StatusBadRequest)
			return
		}
		if errors.Is(err, audience.ErrStudentNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// UpsertStudentDetailHandler lets staff record or refresh a student's detail
// row (the fallback source of year/department, and the mentor mapping).
func UpsertStudentDetailHandler(store *roster.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email      string            `json:"Email" validate:"required,email"`
			Rollno     string            `json:"Rollno"`
			Year       string            `json:"Year"`
			Department string            `json:"Department"`
			Mentor     string            `json:"Mentor"`
			Skills     map[string]string `json:"Skills"`
		}
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		d := roster.StudentDetail{
			Email: req.Email, Rollno: req.Rollno, Year: req.Year,
			Department: req.Department, Mentor: req.Mentor, Skills: req.Skills,
		}
		if err := store.UpsertDetail(r.Context(), d); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Student details saved"})
	}
}

func GetStudentDetailHandler(store *roster.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := store.Detail(r.Context(), chi.URLParam(r, "email"))
		if errors.Is(err, roster.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

// MyDetailHandler returns the authenticated student's own detail row.
func MyDetailHandler(store *roster.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := store.Detail(r.Context(), auth.EmailFromContext(r.Context()))
		if errors.Is(err, roster.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

// MyFeedbackHandler lists feedback addressed to the authenticated student.
func MyFeedbackHandler(store *response.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := store.FeedbackForStudent(r.Context(), auth.EmailFromContext(r.Context()))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}
