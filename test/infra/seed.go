package infra

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedUser inserts a user with the given role and returns its id.
func SeedUser(ctx context.Context, t testing.TB, pool *pgxpool.Pool, role, fullName string) string {
	t.Helper()
	id := uuid.NewString()
	email := fmt.Sprintf("%s@seed.example", id)
	if _, err := pool.Exec(ctx, `
		INSERT INTO users (id, email, full_name, password_hash, role)
		VALUES ($1, $2, $3, 'seed-hash', $4)
	`, id, email, fullName, role); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return id
}

// SeedVacancy inserts a vacancy owned by ownerID and returns its id.
func SeedVacancy(ctx context.Context, t testing.TB, pool *pgxpool.Pool, ownerID, title string) string {
	t.Helper()
	id := uuid.NewString()
	if _, err := pool.Exec(ctx, `
		INSERT INTO vacancies (id, owner_user_id, title, institution_name)
		VALUES ($1, $2, $3, 'Hospital Central')
	`, id, ownerID, title); err != nil {
		t.Fatalf("seed vacancy: %v", err)
	}
	return id
}
