package roster

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// CreateGroup inserts a group, minting an id when the caller supplies none,
// and registers any initial members.
func (s *Store) CreateGroup(ctx context.Context, g Group, members []GroupStudent) (Group, error) {
	if g.GroupID == "" {
		g.GroupID = uuid.NewString()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Group{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO student_groups (group_id, group_name, staff_email) VALUES ($1,$2,$3)`,
		g.GroupID, g.GroupName, g.StaffEmail); err != nil {
		return Group{}, err
	}
	for _, m := range members {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO group_students (group_id, name, year, email, department)
			 VALUES ($1,$2,$3,$4,$5)`,
			g.GroupID, m.Name, m.Year, normEmail(m.Email), m.Department); err != nil {
			return Group{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return Group{}, err
	}
	return g, nil
}

func (s *Store) RenameGroup(ctx context.Context, groupID, staffEmail, name string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE student_groups SET group_name=$1 WHERE group_id=$2 AND staff_email=$3`,
		name, groupID, staffEmail)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *Store) DeleteGroup(ctx context.Context, groupID, staffEmail string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM group_students WHERE group_id=$1`, groupID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`DELETE FROM student_groups WHERE group_id=$1 AND staff_email=$2`,
		groupID, staffEmail)
	if err != nil {
		return err
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) ListGroups(ctx context.Context, staffEmail string) ([]Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT group_id, group_name, staff_email FROM student_groups
		 WHERE staff_email=$1 ORDER BY group_name`, staffEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Group{}
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.GroupID, &g.GroupName, &g.StaffEmail); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) AddStudents(ctx context.Context, groupID string, members []GroupStudent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx,
		`SELECT 1 FROM student_groups WHERE group_id=$1`, groupID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	for _, m := range members {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO group_students (group_id, name, year, email, department)
			 VALUES ($1,$2,$3,$4,$5)`,
			groupID, m.Name, m.Year, normEmail(m.Email), m.Department); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) RemoveStudent(ctx context.Context, groupID, email string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM group_students WHERE group_id=$1 AND email=$2`,
		groupID, normEmail(email))
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *Store) ListGroupStudents(ctx context.Context, groupID string) ([]GroupStudent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT group_id, name, year, email, department FROM group_students
		 WHERE group_id=$1 ORDER BY name`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []GroupStudent{}
	for rows.Next() {
		var m GroupStudent
		if err := rows.Scan(&m.GroupID, &m.Name, &m.Year, &m.Email, &m.Department); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Membership returns the student's group row, or ErrNotFound when the
// student belongs to no group. A student in several groups resolves
// deterministically to the smallest group id.
func (s *Store) Membership(ctx context.Context, email string) (Membership, error) {
	var m Membership
	err := s.db.QueryRowContext(ctx,
		`SELECT gs.group_id, sg.group_name, gs.year, gs.department
		 FROM group_students gs JOIN student_groups sg ON sg.group_id = gs.group_id
		 WHERE gs.email=$1
		 ORDER BY gs.group_id LIMIT 1`,
		normEmail(email)).Scan(&m.GroupID, &m.GroupName, &m.Year, &m.Department)
	if errors.Is(err, sql.ErrNoRows) {
		return Membership{}, ErrNotFound
	}
	if err != nil {
		return Membership{}, err
	}
	return m, nil
}

func (s *Store) UpsertDetail(ctx context.Context, d StudentDetail) error {
	skills := "{}"
	if d.Skills != nil {
		b, err := json.Marshal(d.Skills)
		if err != nil {
			return err
		}
		skills = string(b)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO student_details (email, rollno, year, department, mentor, skills_json)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (email) DO UPDATE SET rollno=EXCLUDED.rollno, year=EXCLUDED.year,
			department=EXCLUDED.department, mentor=EXCLUDED.mentor, skills_json=EXCLUDED.skills_json`,
		normEmail(d.Email), d.Rollno, d.Year, d.Department, normEmail(d.Mentor), skills)
	return err
}

func (s *Store) Detail(ctx context.Context, email string) (StudentDetail, error) {
	var d StudentDetail
	var skills string
	err := s.db.QueryRowContext(ctx,
		`SELECT email, rollno, year, department, mentor, skills_json
		 FROM student_details WHERE email=$1`, normEmail(email)).
		Scan(&d.Email, &d.Rollno, &d.Year, &d.Department, &d.Mentor, &skills)
	if errors.Is(err, sql.ErrNoRows) {
		return StudentDetail{}, ErrNotFound
	}
	if err != nil {
		return StudentDetail{}, err
	}
	if err := json.Unmarshal([]byte(skills), &d.Skills); err != nil {
		d.Skills = nil
	}
	return d, nil
}

// Mentees lists the emails of students whose detail row names the mentor.
func (s *Store) Mentees(ctx context.Context, mentorEmail string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT email FROM student_details WHERE mentor=$1 ORDER BY email`,
		normEmail(mentorEmail))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func normEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }
