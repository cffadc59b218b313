package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/campuskit/surveyhub/internal/auth"
	"github.com/campuskit/surveyhub/internal/survey"
)

type saveQuestion struct {
	Text              string   `json:"text" validate:"required"`
	Type              string   `json:"type" validate:"required,oneof=multiple scale text"`
	ShuffleAnswers    bool     `json:"shuffle_answers"`
	ShuffleQuestions  bool     `json:"shuffle_questions"`
	SkipBasedOnAnswer bool     `json:"skip_based_on_answer"`
	ScoreQuestion     bool     `json:"score_question"`
	AddOtherOption    bool     `json:"add_other_option"`
	RequireAnswer     bool     `json:"require_answer"`
	Options           []string `json:"options"`
}

type saveSurveyRequest struct {
	SurveyID   string         `json:"survey_id"`
	SurveyName string         `json:"survey_name" validate:"required"`
	Draft      bool           `json:"draft"`
	Questions  []saveQuestion `json:"questions" validate:"required,min=1,dive"`
}

// SaveSurveyHandler persists a question set for the authenticated staff
// member. A fresh survey_id is minted when the request carries none; saving
// an existing survey updates rows in place (see survey.Store.Save).
func SaveSurveyHandler(store *survey.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saveSurveyRequest
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		staffEmail := auth.EmailFromContext(r.Context())
		if req.SurveyID == "" {
			req.SurveyID = uuid.NewString()
		}

		qs := make([]survey.Question, 0, len(req.Questions))
		for _, q := range req.Questions {
			qs = append(qs, survey.Question{
				Text:              q.Text,
				Type:              survey.QuestionType(q.Type),
				ShuffleAnswers:    q.ShuffleAnswers,
				ShuffleQuestions:  q.ShuffleQuestions,
				SkipBasedOnAnswer: q.SkipBasedOnAnswer,
				ScoreQuestion:     q.ScoreQuestion,
				AddOtherOption:    q.AddOtherOption,
				RequireAnswer:     q.RequireAnswer,
				Options:           q.Options,
			})
		}
		if err := store.Save(r.Context(), req.SurveyID, staffEmail, req.SurveyName, req.Draft, qs); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Survey saved successfully!", "survey_id": req.SurveyID,
		})
	}
}

func GetSurveyHandler(store *survey.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "surveyID")
		qs, err := store.Get(r.Context(), id, auth.EmailFromContext(r.Context()))
		if errors.Is(err, survey.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, qs)
	}
}

// GetPublishedSurveyHandler serves a survey's published questions to
// students; draft rows stay invisible.
func GetPublishedSurveyHandler(store *survey.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "surveyID")
		qs, err := store.GetPublished(r.Context(), id)
		if errors.Is(err, survey.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, qs)
	}
}

func ListSurveysHandler(store *survey.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sums, err := store.ListByStaff(r.Context(), auth.EmailFromContext(r.Context()))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, sums)
	}
}

func DeleteSurveyHandler(store *survey.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "surveyID")
		err := store.Delete(r.Context(), id, auth.EmailFromContext(r.Context()))
		if errors.Is(err, survey.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Survey deleted"})
	}
}
