package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"color-quiz-service/internal/domain"
)

func TestQuestionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewQuestionStore(openTestDB(t))

	questions := []domain.Question{
		{QuestionNumber: 2, Text: "Second", Options: []domain.Option{{Key: "c", Text: "three"}}},
		{QuestionNumber: 1, Text: "First", Options: []domain.Option{{Key: "a", Text: "one"}, {Key: "b", Text: "two"}}},
	}
	if err := store.InsertQuestions(ctx, questions); err != nil {
		t.Fatalf("insert: %v", err)
	}

	listed, err := store.ListQuestions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 || listed[0].QuestionNumber != 1 || listed[0].Options[1].Text != "two" {
		t.Fatalf("unexpected list: %+v", listed)
	}
	if count, _ := store.CountQuestions(ctx); count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
	if _, err := store.GetQuestion(ctx, 3); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := store.InsertQuestions(ctx, questions); !errors.Is(err, domain.ErrQuestionsInitialized) {
		t.Fatalf("expected initialized conflict, got %v", err)
	}
}

func TestResultStoreOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewResultStore(openTestDB(t))
	base := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)

	older, err := store.SaveResult(ctx, domain.QuizResult{
		Answers:     []domain.Answer{{QuestionNumber: 1, SelectedOptions: []domain.SelectedOption{{Key: "a", Points: 2}}}},
		ColorTotals: domain.ColorTotals{Red: 2},
		CreatedAt:   base,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	newer, _ := store.SaveResult(ctx, domain.QuizResult{ColorTotals: domain.ColorTotals{Blue: 1}, CreatedAt: base.Add(time.Minute)})

	got, err := store.GetResult(ctx, older)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Red != 2 || !got.CreatedAt.Equal(base) || got.Answers[0].SelectedOptions[0].Key != "a" {
		t.Fatalf("unexpected result: %+v", got)
	}

	all, _ := store.ListResults(ctx)
	if len(all) != 2 || all[0].ID != newer || all[1].ID != older {
		t.Fatalf("expected newest first, got %+v", all)
	}
	if _, err := store.GetResult(ctx, "missing"); !errors.Is(err, domain.ErrResultNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAdminStoreRatchet(t *testing.T) {
	ctx := context.Background()
	store := NewAdminStore(openTestDB(t))

	if err := store.ReplaceDefaultAdmin(ctx, admin("x", "x@example.com")); !errors.Is(err, domain.ErrDefaultAdminMissing) {
		t.Fatalf("expected default missing, got %v", err)
	}

	created, err := store.CreateFirstAdmin(ctx, admin("d", domain.DefaultAdminEmail))
	if err != nil || !created {
		t.Fatalf("expected default admin created, got %v %v", created, err)
	}
	if created, _ := store.CreateFirstAdmin(ctx, admin("d2", domain.DefaultAdminEmail)); created {
		t.Fatalf("second bootstrap must be a no-op")
	}

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.ReplaceDefaultAdmin(ctx, admin(fmt.Sprintf("reg-%d", i), fmt.Sprintf("reg%d@example.com", i)))
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case !errors.Is(err, domain.ErrConflict):
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one registration to win, got %d", winners)
	}

	state, _ := store.AdminState(ctx)
	if state.DefaultExists || !state.OtherAdminExists {
		t.Fatalf("unexpected state: %+v", state)
	}
	if created, _ := store.CreateFirstAdmin(ctx, admin("d3", domain.DefaultAdminEmail)); created {
		t.Fatalf("default admin must never be recreated")
	}

	if err := store.ResetAdmins(ctx, admin("d4", domain.DefaultAdminEmail)); err != nil {
		t.Fatalf("reset: %v", err)
	}
	found, err := store.FindAdminByID(ctx, "d4")
	if err != nil || found.Email != domain.DefaultAdminEmail {
		t.Fatalf("expected reset default admin, got %+v %v", found, err)
	}
	if _, err := store.FindAdminByEmail(ctx, "reg0@example.com"); !errors.Is(err, domain.ErrAdminNotFound) {
		t.Fatalf("expected registered admins to be gone, got %v", err)
	}
}

func TestAdminStoreReplaceWithStaleDefault(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewAdminStore(db)
	if _, err := store.CreateFirstAdmin(ctx, admin("default", domain.DefaultAdminEmail)); err != nil {
		t.Fatalf("seed default: %v", err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO admins (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		"owner", "owner@example.com", "hash", formatTime(time.Now()),
	); err != nil {
		t.Fatalf("insert owner: %v", err)
	}

	err := store.ReplaceDefaultAdmin(ctx, admin("late", "late@example.com"))
	if !errors.Is(err, domain.ErrAdminAlreadyExists) || !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected admin already exists conflict, got %v", err)
	}
	if _, err := store.FindAdminByEmail(ctx, "late@example.com"); !errors.Is(err, domain.ErrAdminNotFound) {
		t.Fatalf("rejected registration must not be stored")
	}
}

func TestAdminStoreKeyCollisionIsConflict(t *testing.T) {
	ctx := context.Background()
	store := NewAdminStore(openTestDB(t))
	if _, err := store.CreateFirstAdmin(ctx, admin("same-id", domain.DefaultAdminEmail)); err != nil {
		t.Fatalf("seed default: %v", err)
	}

	err := store.ReplaceDefaultAdmin(ctx, admin("same-id", "owner@example.com"))
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected id collision to be a conflict, got %v", err)
	}
	if state, _ := store.AdminState(ctx); !state.DefaultExists || state.OtherAdminExists {
		t.Fatalf("failed registration must roll back, got %+v", state)
	}
}

func TestTruncate(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	_ = NewQuestionStore(db).InsertQuestions(ctx, []domain.Question{{QuestionNumber: 1, Text: "Only"}})
	_, _ = NewResultStore(db).SaveResult(ctx, domain.QuizResult{CreatedAt: time.Now()})

	if err := Truncate(ctx, db); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	if count, _ := NewQuestionStore(db).CountQuestions(ctx); count != 0 {
		t.Fatalf("expected empty questions table, got %d", count)
	}
	if results, _ := NewResultStore(db).ListResults(ctx); len(results) != 0 {
		t.Fatalf("expected empty results table")
	}
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "quiz.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func admin(id, email string) domain.AdminUser {
	return domain.AdminUser{ID: id, Email: email, PasswordHash: "hash", CreatedAt: time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)}
}
