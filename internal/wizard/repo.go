package wizard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/portside-hq/portside-backend/pkg/db/models"
	"github.com/portside-hq/portside-backend/pkg/enums"
)

// Repository persists wizard sessions and their selection child rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository scoped to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new draft session.
func (r *Repository) Create(ctx context.Context, session *models.WizardSession) (*models.WizardSession, error) {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// FindByID loads a session with its selections preloaded.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.WizardSession, error) {
	var session models.WizardSession
	err := r.db.WithContext(ctx).
		Preload("CategorySelections").
		Preload("ServiceSelections").
		First(&session, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// FindActiveDraft returns the caller's live draft, if any. Expired drafts are
// excluded.
func (r *Repository) FindActiveDraft(ctx context.Context, userID, organizationID uuid.UUID, now time.Time) (*models.WizardSession, error) {
	var session models.WizardSession
	err := r.db.WithContext(ctx).
		Preload("CategorySelections").
		Preload("ServiceSelections").
		Where("user_id = ? AND organization_id = ? AND status = ? AND expires_at > ?",
			userID, organizationID, enums.WizardSessionStatusDraft, now).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteDrafts removes any draft sessions for the caller. Selection child rows
// cascade.
func (r *Repository) DeleteDrafts(ctx context.Context, userID, organizationID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND organization_id = ? AND status = ?",
			userID, organizationID, enums.WizardSessionStatusDraft).
		Delete(&models.WizardSession{}).Error
}

// Delete removes a single session by id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.WizardSession{}, "id = ?", id).Error
}

// UpdateVesselAndPort records the first step and advances the pointer.
func (r *Repository) UpdateVesselAndPort(ctx context.Context, sessionID, vesselID, portID uuid.UUID, step enums.WizardStep) error {
	return r.db.WithContext(ctx).
		Model(&models.WizardSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]any{
			"vessel_id":    vesselID,
			"port_id":      portID,
			"current_step": step,
		}).Error
}

// ReplaceCategorySelections swaps the full category selection set and moves
// the step pointer. Delete, insert, and step update run in one transaction so
// a failed swap leaves the prior selections in place.
func (r *Repository) ReplaceCategorySelections(ctx context.Context, sessionID uuid.UUID, selections []models.WizardCategorySelection, step enums.WizardStep) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("session_id = ?", sessionID).
			Delete(&models.WizardCategorySelection{}).Error; err != nil {
			return err
		}
		if len(selections) > 0 {
			if err := tx.Create(&selections).Error; err != nil {
				return err
			}
		}
		return tx.
			Model(&models.WizardSession{}).
			Where("id = ?", sessionID).
			Update("current_step", step).Error
	})
}

// ReplaceServiceSelections swaps the full service selection set and moves the
// step pointer, atomically like ReplaceCategorySelections.
func (r *Repository) ReplaceServiceSelections(ctx context.Context, sessionID uuid.UUID, selections []models.WizardServiceSelection, step enums.WizardStep) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("session_id = ?", sessionID).
			Delete(&models.WizardServiceSelection{}).Error; err != nil {
			return err
		}
		if len(selections) > 0 {
			if err := tx.Create(&selections).Error; err != nil {
				return err
			}
		}
		return tx.
			Model(&models.WizardSession{}).
			Where("id = ?", sessionID).
			Update("current_step", step).Error
	})
}

// ClaimForCompletion flips a draft to completed and reports whether this call
// won the claim. A zero count means another request already completed or
// cancelled the session. Runs on the caller's transaction so the claim rolls
// back with a failed decomposition.
func (r *Repository) ClaimForCompletion(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, completedAt time.Time) (bool, error) {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).
		Model(&models.WizardSession{}).
		Where("id = ? AND status = ?", sessionID, enums.WizardSessionStatusDraft).
		Updates(map[string]any{
			"status":       enums.WizardSessionStatusCompleted,
			"completed_at": completedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteTx removes a session on the caller's transaction so the delete and
// its outbox event commit together.
func (r *Repository) DeleteTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Where("id = ?", id).Delete(&models.WizardSession{}).Error
}

// ListExpiredDrafts returns draft sessions past their expiry, oldest first.
func (r *Repository) ListExpiredDrafts(ctx context.Context, cutoff time.Time, limit int) ([]models.WizardSession, error) {
	var sessions []models.WizardSession
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at <= ?", enums.WizardSessionStatusDraft, cutoff).
		Order("expires_at ASC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}
