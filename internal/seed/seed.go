package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/HosamGirgis55/Academix-sub001/internal/app/models"
	"github.com/HosamGirgis55/Academix-sub001/internal/pkg/auth"
)

// CreateDefaultData seeds one teacher and one student account when the users
// table is empty. Intended for development environments only; on a populated
// database it does nothing.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	var count int
	if err := dbPool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		lgr.Debug().Int("users", count).Msg("Users already present, skipping seed data")
		return nil
	}

	lgr.Info().Msg("Creating default accounts...")

	accounts := []struct {
		email     string
		password  string
		firstName string
		lastName  string
		role      models.RoleType
		balance   int64
	}{
		{"teacher@academix.app", "teacher123", "Demo", "Teacher", models.RoleTeacher, 0},
		{"student@academix.app", "student123", "Demo", "Student", models.RoleStudent, 500},
	}

	for _, a := range accounts {
		hash, err := auth.HashPassword(a.password)
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}

		_, err = dbPool.Exec(ctx,
			`INSERT INTO users (email, password, first_name, last_name, role_type, points_balance)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			a.email, hash, a.firstName, a.lastName, a.role, a.balance)
		if err != nil {
			return fmt.Errorf("failed to insert seed user %s: %w", a.email, err)
		}

		lgr.Info().Str("email", a.email).Str("role", string(a.role)).Msg("Seed account created")
	}

	return nil
}
