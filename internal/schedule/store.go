package schedule

import (
	"context"
	"database/sql"
	"time"
)

// Store persists publication windows in the permissions table.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

const windowColumns = `id, survey_id, survey_title, staff_email, start_date, start_time,
	end_date, end_time, scheduling_frequency, days_of_week, random_timing,
	time_difference, send_reminders, assigned_roles, response_limit`

// Save records one publish action. Always inserts; repeated saves for the
// same survey accumulate rows.
func (s *Store) Save(ctx context.Context, w Window) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO permissions (survey_id, survey_title, staff_email, start_date, start_time,
			end_date, end_time, scheduling_frequency, days_of_week, random_timing,
			time_difference, send_reminders, assigned_roles, response_limit, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		 RETURNING id`,
		w.SurveyID, w.SurveyTitle, w.StaffEmail, w.StartDate, w.StartTime,
		w.EndDate, w.EndTime, w.SchedulingFrequency, w.DaysOfWeek, w.RandomTiming,
		w.TimeDifference, w.SendReminders, w.AssignedRoles, w.ResponseLimit,
		time.Now().Unix()).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) ListByStaff(ctx context.Context, staffEmail string) ([]Window, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+windowColumns+` FROM permissions WHERE staff_email=$1 ORDER BY id`,
		staffEmail)
	if err != nil {
		return nil, err
	}
	return scanWindows(rows)
}

// ListMatching returns every window whose audience tag applies to the given
// student attributes: the untagged (everyone) windows plus exact matches on
// the student's year, department and group.
func (s *Store) ListMatching(ctx context.Context, a Audience) ([]Window, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+windowColumns+` FROM permissions
		 WHERE assigned_roles = ''
		    OR assigned_roles = $1
		    OR assigned_roles = $2
		    OR ($3 <> 'Group:' AND assigned_roles = $3)
		 ORDER BY id`,
		Tag{Kind: TagYear, Value: a.Year}.String(),
		Tag{Kind: TagDepartment, Value: a.Department}.String(),
		Tag{Kind: TagGroup, Value: a.GroupID}.String())
	if err != nil {
		return nil, err
	}
	return scanWindows(rows)
}

func (s *Store) ListAll(ctx context.Context) ([]Window, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+windowColumns+` FROM permissions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return scanWindows(rows)
}

func scanWindows(rows *sql.Rows) ([]Window, error) {
	defer rows.Close()
	out := []Window{}
	for rows.Next() {
		var w Window
		if err := rows.Scan(&w.ID, &w.SurveyID, &w.SurveyTitle, &w.StaffEmail,
			&w.StartDate, &w.StartTime, &w.EndDate, &w.EndTime,
			&w.SchedulingFrequency, &w.DaysOfWeek, &w.RandomTiming,
			&w.TimeDifference, &w.SendReminders, &w.AssignedRoles,
			&w.ResponseLimit); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
