package audience_test

import (
	"context"
	"testing"

	"github.com/campuskit/surveyhub/internal/audience"
	"github.com/campuskit/surveyhub/internal/roster"
)

func seedMentee(t *testing.T, f *fixture, email, mentor, year, dept string) {
	t.Helper()
	if err := f.people.UpsertDetail(context.Background(), roster.StudentDetail{
		Email: email, Mentor: mentor, Year: year, Department: dept,
	}); err != nil {
		t.Fatalf("seed mentee %s: %v", email, err)
	}
}

func TestMenteeLiveSurveys(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, noon)
	agg := audience.NewAggregator(f.resolver, f.people)

	seedMentee(t, f, "a@x.edu", "mentor@x.edu", "II", "CSE")
	seedMentee(t, f, "b@x.edu", "mentor@x.edu", "III", "ECE")
	seedMentee(t, f, "other@x.edu", "someone@x.edu", "IV", "MECH")

	f.seedWindow(t, "yearII", "Year:II", "2026-09-01", "", "2026-09-01", "")
	f.seedWindow(t, "deptECE", "Department:ECE", "2026-09-01", "", "2026-09-01", "")
	f.seedWindow(t, "yearIV", "Year:IV", "2026-09-01", "", "2026-09-01", "")
	f.seedWindow(t, "global", "", "2026-09-01", "", "2026-09-01", "")
	f.seedWindow(t, "stale", "Year:II", "2026-08-01", "", "2026-08-02", "")

	wins, err := agg.MenteeLiveSurveys(ctx, "mentor@x.edu")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	got := map[string]bool{}
	for _, w := range wins {
		got[w.SurveyID] = true
	}
	for _, want := range []string{"yearII", "deptECE", "global"} {
		if !got[want] {
			t.Fatalf("missing %s in %v", want, got)
		}
	}
	if got["yearIV"] {
		t.Fatal("window targeting another mentor's student leaked")
	}
	if got["stale"] {
		t.Fatal("completed window must not appear in live aggregation")
	}
}

func TestMenteeLiveSurveysJSONTargets(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, noon)
	agg := audience.NewAggregator(f.resolver, f.people)

	seedMentee(t, f, "a@x.edu", "mentor@x.edu", "II", "CSE")

	f.seedWindow(t, "json", `["Year:III","Department:CSE"]`, "2026-09-01", "", "2026-09-01", "")
	f.seedWindow(t, "jsonMiss", `["Year:III","Department:ECE"]`, "2026-09-01", "", "2026-09-01", "")
	f.seedWindow(t, "broken", `["Year:II"`, "2026-09-01", "", "2026-09-01", "")

	wins, err := agg.MenteeLiveSurveys(ctx, "mentor@x.edu")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	got := map[string]bool{}
	for _, w := range wins {
		got[w.SurveyID] = true
	}
	if !got["json"] {
		t.Fatal("JSON array target intersecting a mentee must match")
	}
	if got["jsonMiss"] {
		t.Fatal("JSON array target with no intersection must not match")
	}
	if got["broken"] {
		t.Fatal("unparseable target falls back to the empty set and matches nothing")
	}
}

func TestMenteeLiveSurveysNoMentees(t *testing.T) {
	f := newFixture(t, noon)
	agg := audience.NewAggregator(f.resolver, f.people)

	f.seedWindow(t, "global", "", "2026-09-01", "", "2026-09-01", "")

	wins, err := agg.MenteeLiveSurveys(context.Background(), "lonely@x.edu")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	// Untargeted windows apply to everyone, mentees or not.
	if len(wins) != 1 || wins[0].SurveyID != "global" {
		t.Fatalf("got %+v, want just the global window", wins)
	}
}
