package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Conte777/fanscraper/internal/domain/auth/deps"
	"github.com/Conte777/fanscraper/internal/domain/auth/entities"
	autherrors "github.com/Conte777/fanscraper/internal/domain/auth/errors"
)

// Repository implements deps.SessionRepository using PostgreSQL
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new PostgreSQL session repository
func NewRepository(db *gorm.DB) deps.SessionRepository {
	return &Repository{db: db}
}

// SaveLogin upserts the snapshot of a freshly registered session
func (r *Repository) SaveLogin(ctx context.Context, session *entities.AuthSession) error {
	model, err := toModel(session, time.Now().UTC())
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"username", "name", "guest", "has_issues", "issues",
				"active", "removed_reason", "removed_at", "last_login_at", "updated_at",
			}),
		}).
		Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save auth session: %w", result.Error)
	}

	return nil
}

// MarkRemoved flags a session snapshot as no longer registered
func (r *Repository) MarkRemoved(ctx context.Context, id int64, reason string) error {
	now := time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&entities.AuthSessionModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"active":         false,
			"removed_reason": reason,
			"removed_at":     now,
			"updated_at":     now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark auth session removed: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return autherrors.ErrSessionNotFound
	}

	return nil
}

// GetByID returns the stored snapshot of a session
func (r *Repository) GetByID(ctx context.Context, id int64) (*entities.AuthSessionModel, error) {
	var model entities.AuthSessionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, autherrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get auth session: %w", err)
	}
	return &model, nil
}

func toModel(session *entities.AuthSession, now time.Time) (*entities.AuthSessionModel, error) {
	model := &entities.AuthSessionModel{
		ID:          session.ID,
		Username:    session.Username,
		Name:        session.Name,
		Guest:       session.Guest,
		Active:      true,
		LastLoginAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if issues := session.Issues(); issues != nil {
		data, err := json.Marshal(issues.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode login issues: %w", err)
		}
		model.HasIssues = true
		model.Issues = data
	}

	return model, nil
}
