package vacancy

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobboard/auth"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	ownerID   = "8a3c1f7e-0d1b-4b8e-9a55-1f0f3c2d4e01"
	vacancyID = "5b9e2a10-7c3d-4f61-8e22-0a1b2c3d4e5f"
)

func TestService_CreateTrimsAndStamps(t *testing.T) {
	store := newFakeStore()
	at := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	svc := NewService(&fakePool{}, store, &fakePurger{}).
		WithIDGenerator(func() string { return vacancyID }).
		WithClock(func() time.Time { return at })

	v, err := svc.Create(context.Background(), auth.Institution{UserID: ownerID}, CreateParams{
		Title:           "  Enfermera de planta ",
		InstitutionName: "Hospital Central",
		Keywords:        []string{"salud", " ", "turnos"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if v.ID != vacancyID || v.OwnerUserID != ownerID {
		t.Fatalf("unexpected identity fields: %+v", v)
	}
	if v.Title != "Enfermera de planta" {
		t.Fatalf("expected trimmed title, got %q", v.Title)
	}
	if len(v.Keywords) != 2 {
		t.Fatalf("expected blank keywords dropped, got %v", v.Keywords)
	}
	if !v.CreatedAt.Equal(at) {
		t.Fatalf("expected created_at %s, got %s", at, v.CreatedAt)
	}

	if _, err := svc.Create(context.Background(), auth.Institution{UserID: ownerID}, CreateParams{Title: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_GetByIDMalformed(t *testing.T) {
	svc := NewService(&fakePool{}, newFakeStore(), &fakePurger{})
	if _, err := svc.GetByID(context.Background(), "not-a-uuid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_DeleteCascadesApplications(t *testing.T) {
	store := newFakeStore()
	store.rows[vacancyID] = Vacancy{ID: vacancyID, OwnerUserID: ownerID, Title: "Docente"}
	purger := &fakePurger{removed: 3}
	pool := &fakePool{}
	svc := NewService(pool, store, purger)

	removed, err := svc.Delete(context.Background(), auth.Institution{UserID: ownerID}, vacancyID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 applications removed, got %d", removed)
	}
	if purger.calls != 1 || purger.lastVacancy != vacancyID {
		t.Fatalf("expected one purge for %s, got %d for %q", vacancyID, purger.calls, purger.lastVacancy)
	}
	if _, ok := store.rows[vacancyID]; ok {
		t.Fatal("expected vacancy removed")
	}
	if !pool.tx.committed {
		t.Fatal("expected transaction commit")
	}
}

func TestService_DeleteRejectsOtherOwner(t *testing.T) {
	store := newFakeStore()
	store.rows[vacancyID] = Vacancy{ID: vacancyID, OwnerUserID: ownerID}
	purger := &fakePurger{}
	pool := &fakePool{}
	svc := NewService(pool, store, purger)

	_, err := svc.Delete(context.Background(), auth.Institution{UserID: "another"}, vacancyID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if purger.calls != 0 {
		t.Fatal("purge must not run for a foreign vacancy")
	}
	if pool.tx.committed || !pool.tx.rolled {
		t.Fatalf("expected rollback only, got committed=%v rolled=%v", pool.tx.committed, pool.tx.rolled)
	}
}

func TestService_DeleteMissing(t *testing.T) {
	svc := NewService(&fakePool{}, newFakeStore(), &fakePurger{})
	if _, err := svc.Delete(context.Background(), auth.Institution{UserID: ownerID}, vacancyID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

type fakeStore struct {
	rows map[string]Vacancy
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]Vacancy)}
}

func (f *fakeStore) Create(ctx context.Context, v Vacancy) (Vacancy, error) {
	f.rows[v.ID] = v
	return v, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (Vacancy, error) {
	v, ok := f.rows[id]
	if !ok {
		return Vacancy{}, ErrNotFound
	}
	return v, nil
}

func (f *fakeStore) List(ctx context.Context, filter ListFilter) ([]Vacancy, error) {
	out := make([]Vacancy, 0, len(f.rows))
	for _, v := range f.rows {
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeStore) LockForDelete(ctx context.Context, tx pgx.Tx, id string) (Vacancy, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeStore) Delete(ctx context.Context, tx pgx.Tx, id string) error {
	if _, ok := f.rows[id]; !ok {
		return ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakePurger struct {
	removed     int64
	calls       int
	lastVacancy string
}

func (f *fakePurger) DeleteAllForVacancy(ctx context.Context, tx pgx.Tx, vacancyID string) (int64, error) {
	f.calls++
	f.lastVacancy = vacancyID
	return f.removed, nil
}

type fakePool struct {
	tx *fakeTx
}

func (f *fakePool) Begin(ctx context.Context) (pgx.Tx, error) {
	f.tx = &fakeTx{}
	return f.tx, nil
}

type fakeTx struct {
	rolled    bool
	committed bool
}

func (f *fakeTx) Begin(context.Context) (pgx.Tx, error) {
	return nil, errors.New("fakeTx does not support nested transactions")
}

func (f *fakeTx) Commit(context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(context.Context) error {
	if !f.committed {
		f.rolled = true
	}
	return nil
}

func (f *fakeTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}

func (f *fakeTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}

func (f *fakeTx) LargeObjects() pgx.LargeObjects {
	panic("not implemented")
}

func (f *fakeTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}

func (f *fakeTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}

func (f *fakeTx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("not implemented")
}

func (f *fakeTx) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("not implemented")
}

func (f *fakeTx) Conn() *pgx.Conn {
	return nil
}
