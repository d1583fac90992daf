package database

import (
	"context"
	"database/sql"

	"github.com/mager/moodboard/moodboard"
)

// UserStore persists the Spotify profile captured at login.
type UserStore struct {
	db *sql.DB
}

// NewUserStore builds a UserStore.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// Upsert inserts the user or refreshes the stored profile.
func (s *UserStore) Upsert(ctx context.Context, u moodboard.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, display_name, email, country, product, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			email = EXCLUDED.email,
			country = EXCLUDED.country,
			product = EXCLUDED.product,
			updated_at = NOW()`,
		u.ID, u.DisplayName, u.Email, u.Country, u.Product)
	return err
}

// Get fetches one user's profile. Returns sql.ErrNoRows when the user has
// never logged in.
func (s *UserStore) Get(ctx context.Context, id string) (*moodboard.User, error) {
	var u moodboard.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, display_name, email, country, product
		FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.DisplayName, &u.Email, &u.Country, &u.Product)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
