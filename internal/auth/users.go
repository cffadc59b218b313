package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadCredentials = errors.New("invalid email or password")
)

type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	UserID string `json:"userID"`
	Role   string `json:"role"`
}

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore { return &UserStore{db: db} }

func ValidRole(role string) bool {
	switch role {
	case "staff", "student", "mentor":
		return true
	}
	return false
}

func (s *UserStore) Register(ctx context.Context, name, email, userID, role, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE email=$1`, email).Scan(&exists)
	switch {
	case err == nil:
		return User{}, ErrEmailTaken
	case !errors.Is(err, sql.ErrNoRows):
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	u := User{ID: uuid.NewString(), Name: name, Email: email, UserID: userID, Role: role}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, user_id, role, password_hash, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		u.ID, u.Name, u.Email, u.UserID, u.Role, string(hash), time.Now().Unix())
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *UserStore) Authenticate(ctx context.Context, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var u User
	var hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, user_id, role, password_hash FROM users WHERE email=$1`,
		email).Scan(&u.ID, &u.Name, &u.Email, &u.UserID, &u.Role, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrBadCredentials
	}
	if err != nil {
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return User{}, ErrBadCredentials
	}
	return u, nil
}
