package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Conte777/fanscraper/internal/domain/auth/entities"
	autherrors "github.com/Conte777/fanscraper/internal/domain/auth/errors"
)

func TestToModel(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	plain := entities.NewAuthSession(1, "alice", false, nil)
	model, err := toModel(plain, now)
	if err != nil {
		t.Fatalf("toModel() error = %v", err)
	}
	if model.HasIssues || model.Issues != nil || !model.Active || !model.LastLoginAt.Equal(now) {
		t.Errorf("unexpected model %+v", model)
	}

	withIssues := entities.NewAuthSession(2, "bob", false, nil)
	withIssues.SetIssues(&entities.Issues{Data: []map[string]any{{"code": "verify_email"}}})
	model, err = toModel(withIssues, now)
	if err != nil {
		t.Fatalf("toModel() error = %v", err)
	}
	if !model.HasIssues || string(model.Issues) != `[{"code":"verify_email"}]` {
		t.Errorf("unexpected issues %q", model.Issues)
	}
}

// TestRepository_Postgres runs against TEST_DATABASE_DSN when it is set
func TestRepository_Postgres(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&entities.AuthSessionModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		db.Where("id IN ?", []int64{9001}).Delete(&entities.AuthSessionModel{})
	})

	repo := &Repository{db: db}
	ctx := context.Background()
	session := entities.NewAuthSession(9001, "alice", false, nil)

	if err := repo.SaveLogin(ctx, session); err != nil {
		t.Fatalf("SaveLogin() error = %v", err)
	}
	if err := repo.SaveLogin(ctx, session); err != nil {
		t.Fatalf("second SaveLogin() error = %v", err)
	}
	if err := repo.MarkRemoved(ctx, 9001, "sweep"); err != nil {
		t.Fatalf("MarkRemoved() error = %v", err)
	}

	stored, err := repo.GetByID(ctx, 9001)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.Active || stored.RemovedReason != "sweep" || stored.RemovedAt == nil {
		t.Errorf("unexpected stored snapshot %+v", stored)
	}

	if err := repo.MarkRemoved(ctx, 424242, "manual"); !errors.Is(err, autherrors.ErrSessionNotFound) {
		t.Errorf("MarkRemoved(missing) error = %v", err)
	}
}
