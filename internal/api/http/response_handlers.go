package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campuskit/surveyhub/internal/auth"
	"github.com/campuskit/surveyhub/internal/response"
)

type submitRequest struct {
	Answers []struct {
		SurveyID       string `json:"survey_id" validate:"required"`
		SurveyTitle    string `json:"surveyTitle"`
		QuestionText   string `json:"question_text" validate:"required"`
		ResponseText   string `json:"response_text"`
		SelectedOption string `json:"selected_option"`
	} `json:"answers" validate:"required,min=1,dive"`
}

// SubmitResponsesHandler records a student's answers. Resubmitting replaces
// stored answers and bumps the submission counter again.
func SubmitResponsesHandler(store *response.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		answers := make([]response.Answer, 0, len(req.Answers))
		for _, a := range req.Answers {
			answers = append(answers, response.Answer{
				SurveyID:       a.SurveyID,
				SurveyTitle:    a.SurveyTitle,
				QuestionText:   a.QuestionText,
				ResponseText:   a.ResponseText,
				SelectedOption: a.SelectedOption,
			})
		}
		err := store.Submit(r.Context(), auth.EmailFromContext(r.Context()), answers)
		if errors.Is(err, response.ErrEmptySubmission) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Responses saved"})
	}
}

// SubmissionCountsHandler lists per-student submission counters for a survey
// title, for staff dashboards.
func SubmissionCountsHandler(store *response.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		title := r.URL.Query().Get("surveyTitle")
		if title == "" {
			http.Error(w, "surveyTitle required", http.StatusBadRequest)
			return
		}
		subs, err := store.Counts(r.Context(), title)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, subs)
	}
}

// StudentAnswersHandler returns one student's stored answers for a survey.
func StudentAnswersHandler(store *response.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := store.Answers(r.Context(), chi.URLParam(r, "surveyID"),
			auth.EmailFromContext(r.Context()))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// SaveFeedbackHandler stores a feedback batch. Items are attempted
// independently; the response reports the per-batch success and error counts
// with a shared batch identifier.
func SaveFeedbackHandler(store *response.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Items []response.FeedbackItem `json:"items" validate:"required,min=1"`
		}
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		res, err := store.SaveFeedback(r.Context(), auth.EmailFromContext(r.Context()), req.Items)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
