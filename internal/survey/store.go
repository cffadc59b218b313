package survey

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrNotFound = errors.New("survey not found")

// draftMarker is the sentinel stored in draft_flag while a survey is a
// draft. Publishing nulls the marker in place; there is no separate table.
const draftMarker = "draft"

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Save reconciles an incoming question set against what is already stored
// for (surveyID, staffEmail). When no rows exist every question is inserted
// fresh, with the draft marker set or cleared from the draft argument. When
// rows exist they are updated positionally, in stored insertion order: the
// i-th stored row takes the i-th incoming question's content and the draft
// marker. There is no per-question identity reconciliation; if the counts
// differ, excess stored rows keep their stale content and excess incoming
// questions are not created. Options are only written on the insert path.
// The whole reconciliation runs in one transaction (the original issued
// independent statements with no rollback; atomicity here is a deliberate
// hardening).
func (s *Store) Save(ctx context.Context, surveyID, staffEmail, surveyName string, draft bool, qs []Question) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var marker sql.NullString
	if draft {
		marker = sql.NullString{String: draftMarker, Valid: true}
	}

	existing, err := questionIDs(ctx, tx, surveyID, staffEmail)
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		now := time.Now().Unix()
		for _, q := range qs {
			multiple, scale, text := q.Type.flags()
			var qid int64
			err := tx.QueryRowContext(ctx,
				`INSERT INTO questions (survey_id, staff_email, survey_name, question_text,
					multiple_choice, scale, texts, shuffle_answers, shuffle_questions,
					skip_based_on_answer, score_question, add_other_option, require_answer,
					draft_flag, created_at)
				 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
				 RETURNING id`,
				surveyID, staffEmail, surveyName, q.Text,
				multiple, scale, text, q.ShuffleAnswers, q.ShuffleQuestions,
				q.SkipBasedOnAnswer, q.ScoreQuestion, q.AddOtherOption, q.RequireAnswer,
				marker, now).Scan(&qid)
			if err != nil {
				return err
			}
			for _, opt := range q.Options {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO options (question_id, option_text) VALUES ($1,$2)`,
					qid, opt); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}

	n := len(existing)
	if len(qs) < n {
		n = len(qs)
	}
	for i := 0; i < n; i++ {
		q := qs[i]
		multiple, scale, text := q.Type.flags()
		if _, err := tx.ExecContext(ctx,
			`UPDATE questions SET survey_name=$1, question_text=$2,
				multiple_choice=$3, scale=$4, texts=$5, shuffle_answers=$6,
				shuffle_questions=$7, skip_based_on_answer=$8, score_question=$9,
				add_other_option=$10, require_answer=$11, draft_flag=$12
			 WHERE id=$13`,
			surveyName, q.Text,
			multiple, scale, text, q.ShuffleAnswers,
			q.ShuffleQuestions, q.SkipBasedOnAnswer, q.ScoreQuestion,
			q.AddOtherOption, q.RequireAnswer, marker, existing[i]); err != nil {
			return err
		}
	}
	// Excess stored rows still flip their draft marker so the whole survey
	// publishes together, even though their content goes stale.
	for i := n; i < len(existing); i++ {
		if _, err := tx.ExecContext(ctx,
			`UPDATE questions SET draft_flag=$1 WHERE id=$2`,
			marker, existing[i]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func questionIDs(ctx context.Context, tx *sql.Tx, surveyID, staffEmail string) ([]int64, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM questions WHERE survey_id=$1 AND staff_email=$2 ORDER BY id`,
		surveyID, staffEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Get returns a staff member's survey: its questions in insertion order with
// their options.
func (s *Store) Get(ctx context.Context, surveyID, staffEmail string) ([]Question, error) {
	return s.questions(ctx,
		`SELECT id, survey_id, staff_email, survey_name, question_text,
			multiple_choice, scale, texts, shuffle_answers, shuffle_questions,
			skip_based_on_answer, score_question, add_other_option, require_answer,
			draft_flag
		 FROM questions WHERE survey_id=$1 AND staff_email=$2 ORDER BY id`,
		surveyID, staffEmail)
}

// GetPublished returns a survey's published questions for student delivery.
// Draft rows are invisible to students.
func (s *Store) GetPublished(ctx context.Context, surveyID string) ([]Question, error) {
	return s.questions(ctx,
		`SELECT id, survey_id, staff_email, survey_name, question_text,
			multiple_choice, scale, texts, shuffle_answers, shuffle_questions,
			skip_based_on_answer, score_question, add_other_option, require_answer,
			draft_flag
		 FROM questions WHERE survey_id=$1 AND draft_flag IS NULL ORDER BY id`,
		surveyID)
}

func (s *Store) questions(ctx context.Context, query string, args ...any) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var qs []Question
	for rows.Next() {
		var q Question
		var multiple, scale, text bool
		var marker sql.NullString
		if err := rows.Scan(&q.ID, &q.SurveyID, &q.StaffEmail, &q.SurveyName,
			&q.Text, &multiple, &scale, &text, &q.ShuffleAnswers,
			&q.ShuffleQuestions, &q.SkipBasedOnAnswer, &q.ScoreQuestion,
			&q.AddOtherOption, &q.RequireAnswer, &marker); err != nil {
			return nil, err
		}
		q.Type = typeFromFlags(multiple, scale, text)
		q.Draft = marker.Valid
		qs = append(qs, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, ErrNotFound
	}
	if err := s.attachOptions(ctx, qs); err != nil {
		return nil, err
	}
	return qs, nil
}

func (s *Store) attachOptions(ctx context.Context, qs []Question) error {
	byID := make(map[int64]*Question, len(qs))
	for i := range qs {
		byID[qs[i].ID] = &qs[i]
	}
	for id, q := range byID {
		rows, err := s.db.QueryContext(ctx,
			`SELECT option_text FROM options WHERE question_id=$1 ORDER BY id`, id)
		if err != nil {
			return err
		}
		for rows.Next() {
			var opt string
			if err := rows.Scan(&opt); err != nil {
				rows.Close()
				return err
			}
			q.Options = append(q.Options, opt)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()
	}
	return nil
}

// ListByStaff summarizes each survey owned by the staff member, split into
// drafts and published by the shared marker.
func (s *Store) ListByStaff(ctx context.Context, staffEmail string) ([]SurveySummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT survey_id, MAX(survey_name), MAX(CASE WHEN draft_flag IS NULL THEN 0 ELSE 1 END), COUNT(*)
		 FROM questions WHERE staff_email=$1
		 GROUP BY survey_id ORDER BY MIN(id)`,
		staffEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []SurveySummary{}
	for rows.Next() {
		var sum SurveySummary
		var draft int
		if err := rows.Scan(&sum.SurveyID, &sum.SurveyName, &draft, &sum.QuestionCount); err != nil {
			return nil, err
		}
		sum.Draft = draft != 0
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes a survey's questions and their options.
func (s *Store) Delete(ctx context.Context, surveyID, staffEmail string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	ids, err := questionIDs(ctx, tx, surveyID, staffEmail)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return ErrNotFound
	}
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, `DELETE FROM options WHERE question_id=$1`, id); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM questions WHERE survey_id=$1 AND staff_email=$2`,
		surveyID, staffEmail); err != nil {
		return err
	}
	return tx.Commit()
}
