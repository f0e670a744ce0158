package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, profile Profile) (Profile, error) {
	const query = `
INSERT INTO profiles (user_id, name, phone_number, city, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
ON CONFLICT (user_id) DO UPDATE SET
  name = EXCLUDED.name,
  phone_number = EXCLUDED.phone_number,
  city = EXCLUDED.city,
  updated_at = now()
RETURNING created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query,
		profile.UserID,
		profile.Name,
		profile.PhoneNumber,
		profile.City,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return Profile{}, fmt.Errorf("upsert profile: %w", err)
	}
	return profile, nil
}

func (r *PGRepo) GetByUserID(ctx context.Context, userID string) (Profile, error) {
	const query = `
SELECT user_id, name, phone_number, city, created_at, updated_at
FROM profiles
WHERE user_id = $1
LIMIT 1`
	var profile Profile
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.Name,
		&profile.PhoneNumber,
		&profile.City,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}
