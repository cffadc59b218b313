package response_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/campuskit/surveyhub/internal/db"
	"github.com/campuskit/surveyhub/internal/response"

	_ "modernc.org/sqlite" // driver for "sqlite"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dbh, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	dbh.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = dbh.Close() })
	if err := db.EnsureSchema(context.Background(), dbh, db.DriverSQLite); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return dbh
}

func answers(vals ...string) []response.Answer {
	out := make([]response.Answer, 0, len(vals))
	for i, v := range vals {
		out = append(out, response.Answer{
			SurveyID:     "s1",
			SurveyTitle:  "Course survey",
			QuestionText: "q" + string(rune('1'+i)),
			ResponseText: v,
		})
	}
	return out
}

func TestSubmitAndOverwrite(t *testing.T) {
	ctx := context.Background()
	store := response.NewStore(testDB(t))

	if err := store.Submit(ctx, "ravi@x.edu", answers("first", "second")); err != nil {
		t.Fatalf("submit: %v", err)
	}
	got, err := store.Answers(ctx, "s1", "ravi@x.edu")
	if err != nil {
		t.Fatalf("answers: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d answers, want 2", len(got))
	}

	// A resubmission replaces rows in place rather than appending.
	if err := store.Submit(ctx, "ravi@x.edu", answers("revised", "second")); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	got, err = store.Answers(ctx, "s1", "ravi@x.edu")
	if err != nil {
		t.Fatalf("answers: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("resubmit appended rows: %d", len(got))
	}
	if got[0].ResponseText != "revised" {
		t.Fatalf("answer not overwritten: %q", got[0].ResponseText)
	}
}

func TestSubmissionCounterIncrements(t *testing.T) {
	ctx := context.Background()
	store := response.NewStore(testDB(t))

	for i := 0; i < 3; i++ {
		if err := store.Submit(ctx, "ravi@x.edu", answers("v")); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}
	if err := store.Submit(ctx, "meena@x.edu", answers("v")); err != nil {
		t.Fatalf("submit other student: %v", err)
	}

	subs, err := store.Counts(ctx, "Course survey")
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("got %d counter rows, want 2", len(subs))
	}
	byEmail := map[string]int{}
	for _, s := range subs {
		byEmail[s.StudentEmail] = s.SubmissionCount
	}
	if byEmail["ravi@x.edu"] != 3 || byEmail["meena@x.edu"] != 1 {
		t.Fatalf("bad counters: %v", byEmail)
	}
}

func TestSubmitEmpty(t *testing.T) {
	store := response.NewStore(testDB(t))
	if err := store.Submit(context.Background(), "ravi@x.edu", nil); err != response.ErrEmptySubmission {
		t.Fatalf("got %v, want ErrEmptySubmission", err)
	}
}

func TestFeedbackBatchPartialFailure(t *testing.T) {
	ctx := context.Background()
	store := response.NewStore(testDB(t))

	items := []response.FeedbackItem{
		{StudentEmail: "a@x.edu", FeedbackText: "good progress"},
		{StudentEmail: "", FeedbackText: "missing recipient"}, // fails
		{StudentEmail: "c@x.edu", FeedbackText: "see me"},
	}
	res, err := store.SaveFeedback(ctx, "staff@x.edu", items)
	if err != nil {
		t.Fatalf("save feedback: %v", err)
	}
	if res.SuccessCount != 2 || res.ErrorCount != 1 {
		t.Fatalf("counts = %d/%d, want 2 successes and 1 error", res.SuccessCount, res.ErrorCount)
	}
	if res.BatchID == "" {
		t.Fatal("batch id missing")
	}

	got, err := store.FeedbackForStudent(ctx, "c@x.edu")
	if err != nil {
		t.Fatalf("feedback for student: %v", err)
	}
	if len(got) != 1 || got[0].FeedbackText != "see me" {
		t.Fatalf("stored feedback wrong: %+v", got)
	}
}
