package postgres

import (
	"context"

	"auditcollective/internal/domain/collective"
	"auditcollective/internal/usecase"

	"gorm.io/gorm"
)

type VettingRepo struct {
	db *gorm.DB
}

func (r *VettingRepo) Create(ctx context.Context, app collective.VettingApplication) (collective.VettingApplication, error) {
	links, err := marshalStrings(app.Links)
	if err != nil {
		return collective.VettingApplication{}, err
	}
	model := VettingApplicationModel{
		UserID:      app.UserID,
		SubmittedAt: app.SubmittedAt.UTC(),
		Links:       links,
		WriteupText: app.WriteupText,
		Decision:    string(app.Decision),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return collective.VettingApplication{}, mapError(err)
	}
	return vettingFromModel(model), nil
}

func (r *VettingRepo) Get(ctx context.Context, id int64) (collective.VettingApplication, error) {
	var model VettingApplicationModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&model).Error; err != nil {
		return collective.VettingApplication{}, mapError(err)
	}
	return vettingFromModel(model), nil
}

func (r *VettingRepo) HasPending(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&VettingApplicationModel{}).
		Where("user_id = ? AND decision = ?", userID, string(collective.VettingPending)).
		Count(&count).Error
	if err != nil {
		return false, mapError(err)
	}
	return count > 0, nil
}

func (r *VettingRepo) ListPending(ctx context.Context) ([]usecase.VettingApplicationWithUser, error) {
	var models []VettingApplicationModel
	err := r.db.WithContext(ctx).
		Where("decision = ?", string(collective.VettingPending)).
		Order("submitted_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, mapError(err)
	}
	users, err := usersByID(ctx, r.db, applicantIDs(models))
	if err != nil {
		return nil, err
	}
	out := make([]usecase.VettingApplicationWithUser, 0, len(models))
	for _, model := range models {
		out = append(out, usecase.VettingApplicationWithUser{
			Application: vettingFromModel(model),
			User:        users[model.UserID],
		})
	}
	return out, nil
}

func (r *VettingRepo) Decide(ctx context.Context, id int64, update usecase.VettingDecisionUpdate) (collective.VettingApplication, error) {
	score := update.Score
	result := r.db.WithContext(ctx).Model(&VettingApplicationModel{}).Where("id = ?", id).Updates(map[string]any{
		"decision":         string(update.Decision),
		"score":            &score,
		"comments":         update.Comments,
		"reviewer_user_id": stringPtrIfNotEmpty(update.ReviewerUserID),
	})
	if result.Error != nil {
		return collective.VettingApplication{}, mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return collective.VettingApplication{}, collective.ErrNotFound
	}
	return r.Get(ctx, id)
}

func applicantIDs(models []VettingApplicationModel) []string {
	ids := make([]string, 0, len(models))
	for _, model := range models {
		ids = append(ids, model.UserID)
	}
	return ids
}

func usersByID(ctx context.Context, db *gorm.DB, ids []string) (map[string]collective.User, error) {
	out := make(map[string]collective.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var models []UserModel
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, mapError(err)
	}
	for _, model := range models {
		out[model.ID] = userFromModel(model)
	}
	return out, nil
}

func vettingFromModel(model VettingApplicationModel) collective.VettingApplication {
	return collective.VettingApplication{
		ID:             model.ID,
		UserID:         model.UserID,
		SubmittedAt:    model.SubmittedAt.UTC(),
		Links:          unmarshalStrings(model.Links),
		WriteupText:    model.WriteupText,
		Score:          model.Score,
		Decision:       collective.VettingDecision(model.Decision),
		ReviewerUserID: stringValue(model.ReviewerUserID),
		Comments:       model.Comments,
	}
}
