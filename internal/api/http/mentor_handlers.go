package http

import (
	"net/http"

	"github.com/campuskit/surveyhub/internal/audience"
	"github.com/campuskit/surveyhub/internal/auth"
	"github.com/campuskit/surveyhub/internal/roster"
)

// MenteeSurveysHandler returns the live windows relevant to any of the
// mentor's mentees.
func MenteeSurveysHandler(agg *audience.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wins, err := agg.MenteeLiveSurveys(r.Context(), auth.EmailFromContext(r.Context()))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, wins)
	}
}

// MenteesHandler lists the mentor's mentees with their detail rows.
func MenteesHandler(store *roster.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		emails, err := store.Mentees(r.Context(), auth.EmailFromContext(r.Context()))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		out := []roster.StudentDetail{}
		for _, e := range emails {
			d, err := store.Detail(r.Context(), e)
			if err != nil {
				continue
			}
			out = append(out, d)
		}
		writeJSON(w, http.StatusOK, out)
	}
}
