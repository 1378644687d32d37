package postgres

import (
	"context"

	"auditcollective/internal/domain/collective"

	"gorm.io/gorm"
)

type ReputationRepo struct {
	db *gorm.DB
}

// Append writes the ledger row and bumps the user's cached score. Callers
// run it inside a transaction so the two writes land together.
func (r *ReputationRepo) Append(ctx context.Context, event collective.ReputationEvent) (collective.ReputationEvent, error) {
	model := ReputationEventModel{
		UserID:    event.UserID,
		Type:      string(event.Type),
		Points:    event.Points,
		AuditID:   event.AuditID,
		FindingID: event.FindingID,
		CreatedAt: event.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return collective.ReputationEvent{}, mapError(err)
	}
	users := &UserRepo{db: r.db}
	if err := users.AddReputation(ctx, event.UserID, event.Points); err != nil {
		return collective.ReputationEvent{}, err
	}
	return reputationEventFromModel(model), nil
}

func (r *ReputationRepo) ListByUser(ctx context.Context, userID string) ([]collective.ReputationEvent, error) {
	var models []ReputationEventModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, mapError(err)
	}
	out := make([]collective.ReputationEvent, 0, len(models))
	for _, model := range models {
		out = append(out, reputationEventFromModel(model))
	}
	return out, nil
}

func (r *ReputationRepo) SumPoints(ctx context.Context, userID string) (int, error) {
	var total int
	err := r.db.WithContext(ctx).Model(&ReputationEventModel{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, mapError(err)
	}
	return total, nil
}

func reputationEventFromModel(model ReputationEventModel) collective.ReputationEvent {
	return collective.ReputationEvent{
		ID:        model.ID,
		UserID:    model.UserID,
		Type:      collective.EventType(model.Type),
		Points:    model.Points,
		AuditID:   model.AuditID,
		FindingID: model.FindingID,
		CreatedAt: model.CreatedAt.UTC(),
	}
}
