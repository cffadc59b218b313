package http

import (
	"net/http"

	"github.com/campuskit/surveyhub/internal/auth"
	"github.com/campuskit/surveyhub/internal/schedule"
)

type savePermissionsRequest struct {
	SurveyID            string `json:"survey_id" validate:"required"`
	SurveyTitle         string `json:"surveyTitle"`
	StartDate           string `json:"start_date" validate:"required,datetime=2006-01-02"`
	StartTime           string `json:"start_time"`
	EndDate             string `json:"end_date" validate:"required,datetime=2006-01-02"`
	EndTime             string `json:"end_time"`
	SchedulingFrequency string `json:"scheduling_frequency"`
	DaysOfWeek          string `json:"days_of_week"`
	RandomTiming        bool   `json:"random_timing"`
	TimeDifference      string `json:"time_difference"`
	SendReminders       bool   `json:"send_reminders"`
	AssignedRoles       string `json:"assigned_roles"`
	ResponseLimit       int    `json:"response_limit"`
}

// SavePermissionsHandler records one publication window. Repeated saves for
// the same survey append rows; earlier windows are kept as an audit trail.
func SavePermissionsHandler(store *schedule.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req savePermissionsRequest
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		win := schedule.Window{
			SurveyID:            req.SurveyID,
			SurveyTitle:         req.SurveyTitle,
			StaffEmail:          auth.EmailFromContext(r.Context()),
			StartDate:           req.StartDate,
			StartTime:           req.StartTime,
			EndDate:             req.EndDate,
			EndTime:             req.EndTime,
			SchedulingFrequency: req.SchedulingFrequency,
			DaysOfWeek:          req.DaysOfWeek,
			RandomTiming:        req.RandomTiming,
			TimeDifference:      req.TimeDifference,
			SendReminders:       req.SendReminders,
			AssignedRoles:       req.AssignedRoles,
			ResponseLimit:       req.ResponseLimit,
		}
		id, err := store.Save(r.Context(), win)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"id": id, "message": "Permissions saved"})
	}
}

func ListPermissionsHandler(store *schedule.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wins, err := store.ListByStaff(r.Context(), auth.EmailFromContext(r.Context()))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, wins)
	}
}
