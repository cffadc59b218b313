package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campuskit/surveyhub/internal/auth"
	"github.com/campuskit/surveyhub/internal/roster"
)

type groupMember struct {
	Name       string `json:"Name"`
	Year       string `json:"Year"`
	Email      string `json:"Email" validate:"required,email"`
	Department string `json:"Department"`
}

func toGroupStudents(groupID string, ms []groupMember) []roster.GroupStudent {
	out := make([]roster.GroupStudent, 0, len(ms))
	for _, m := range ms {
		out = append(out, roster.GroupStudent{
			GroupID: groupID, Name: m.Name, Year: m.Year,
			Email: m.Email, Department: m.Department,
		})
	}
	return out
}

func CreateGroupHandler(store *roster.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			GroupName string        `json:"GroupName" validate:"required"`
			Students  []groupMember `json:"Students" validate:"dive"`
		}
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		g := roster.Group{GroupName: req.GroupName, StaffEmail: auth.EmailFromContext(r.Context())}
		g, err := store.CreateGroup(r.Context(), g, toGroupStudents("", req.Students))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, g)
	}
}

func ListGroupsHandler(store *roster.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gs, err := store.ListGroups(r.Context(), auth.EmailFromContext(r.Context()))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, gs)
	}
}

func RenameGroupHandler(store *roster.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			GroupName string `json:"GroupName" validate:"required"`
		}
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		err := store.RenameGroup(r.Context(), chi.URLParam(r, "groupID"),
			auth.EmailFromContext(r.Context()), req.GroupName)
		if errors.Is(err, roster.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Group renamed"})
	}
}

func DeleteGroupHandler(store *roster.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := store.DeleteGroup(r.Context(), chi.URLParam(r, "groupID"),
			auth.EmailFromContext(r.Context()))
		if errors.Is(err, roster.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Group deleted"})
	}
}

func AddGroupStudentsHandler(store *roster.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Students []groupMember `json:"Students" validate:"required,min=1,dive"`
		}
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		groupID := chi.URLParam(r, "groupID")
		err := store.AddStudents(r.Context(), groupID, toGroupStudents(groupID, req.Students))
		if errors.Is(err, roster.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Students added"})
	}
}

func ListGroupStudentsHandler(store *roster.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ms, err := store.ListGroupStudents(r.Context(), chi.URLParam(r, "groupID"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, ms)
	}
}

func RemoveGroupStudentHandler(store *roster.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := store.RemoveStudent(r.Context(), chi.URLParam(r, "groupID"),
			chi.URLParam(r, "email"))
		if errors.Is(err, roster.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Student removed"})
	}
}
