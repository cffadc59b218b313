package response

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrEmptySubmission = errors.New("no answers submitted")

// Answer is one per-question response. Answers are overwritable, not
// versioned: resubmitting the same question replaces the stored row.
type Answer struct {
	SurveyID       string `json:"survey_id"`
	SurveyTitle    string `json:"surveyTitle"`
	QuestionText   string `json:"question_text"`
	ResponseText   string `json:"response_text"`
	SelectedOption string `json:"selected_option"`
}

// Submission is the stored counter row per (survey title, student).
type Submission struct {
	SurveyTitle     string `json:"surveyTitle"`
	StudentEmail    string `json:"student_email"`
	SubmissionCount int    `json:"submission_count"`
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Submit upserts every answer for the student and bumps the submission
// counter for the survey title once. Runs in one transaction; the original
// issued independent statements with no rollback.
func (s *Store) Submit(ctx context.Context, studentEmail string, answers []Answer) error {
	if len(answers) == 0 {
		return ErrEmptySubmission
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().Unix()
	for _, a := range answers {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO survey_responses
				(survey_id, question_text, response_text, selected_option, student_email, survey_title, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)
			 ON CONFLICT (survey_id, question_text, student_email, survey_title)
			 DO UPDATE SET response_text=EXCLUDED.response_text,
				selected_option=EXCLUDED.selected_option, updated_at=EXCLUDED.updated_at`,
			a.SurveyID, a.QuestionText, a.ResponseText, a.SelectedOption,
			studentEmail, a.SurveyTitle, now); err != nil {
			return err
		}
	}

	title := answers[0].SurveyTitle
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO survey_submissions (survey_title, student_email, submission_count)
		 VALUES ($1,$2,1)
		 ON CONFLICT (survey_title, student_email)
		 DO UPDATE SET submission_count = survey_submissions.submission_count + 1`,
		title, studentEmail); err != nil {
		return err
	}
	return tx.Commit()
}

// Answers returns the student's stored answers for a survey.
func (s *Store) Answers(ctx context.Context, surveyID, studentEmail string) ([]Answer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT survey_id, survey_title, question_text, response_text, selected_option
		 FROM survey_responses WHERE survey_id=$1 AND student_email=$2
		 ORDER BY question_text`,
		surveyID, studentEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Answer{}
	for rows.Next() {
		var a Answer
		if err := rows.Scan(&a.SurveyID, &a.SurveyTitle, &a.QuestionText,
			&a.ResponseText, &a.SelectedOption); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Counts lists submission counters for a survey title.
func (s *Store) Counts(ctx context.Context, surveyTitle string) ([]Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT survey_title, student_email, submission_count
		 FROM survey_submissions WHERE survey_title=$1 ORDER BY student_email`,
		surveyTitle)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Submission{}
	for rows.Next() {
		var sub Submission
		if err := rows.Scan(&sub.SurveyTitle, &sub.StudentEmail, &sub.SubmissionCount); err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

// FeedbackItem is one entry of a feedback batch.
type FeedbackItem struct {
	StudentEmail string `json:"student_email"`
	FeedbackText string `json:"feedback_text"`
}

// FeedbackResult reports a batch outcome. Every item in the batch, failed or
// not, shares one batch identifier.
type FeedbackResult struct {
	BatchID      string `json:"batchID"`
	SuccessCount int    `json:"successCount"`
	ErrorCount   int    `json:"errorCount"`
}

// SaveFeedback inserts each item independently under a shared batch id.
// Items are at-most-effort: a failed insert is counted and the rest of the
// batch still goes through.
func (s *Store) SaveFeedback(ctx context.Context, staffEmail string, items []FeedbackItem) (FeedbackResult, error) {
	res := FeedbackResult{BatchID: uuid.NewString()}
	now := time.Now().Unix()
	for _, it := range items {
		if it.StudentEmail == "" || it.FeedbackText == "" {
			res.ErrorCount++
			continue
		}
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO feedback (batch_id, staff_email, student_email, feedback_text, created_at)
			 VALUES ($1,$2,$3,$4,$5)`,
			res.BatchID, staffEmail, it.StudentEmail, it.FeedbackText, now)
		if err != nil {
			res.ErrorCount++
			continue
		}
		res.SuccessCount++
	}
	return res, nil
}

// FeedbackForStudent lists feedback addressed to one student.
func (s *Store) FeedbackForStudent(ctx context.Context, studentEmail string) ([]FeedbackItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT student_email, feedback_text FROM feedback
		 WHERE student_email=$1 ORDER BY id`,
		studentEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []FeedbackItem{}
	for rows.Next() {
		var it FeedbackItem
		if err := rows.Scan(&it.StudentEmail, &it.FeedbackText); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
