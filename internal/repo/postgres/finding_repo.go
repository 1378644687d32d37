package postgres

import (
	"context"

	"auditcollective/internal/domain/collective"
	"auditcollective/internal/usecase"

	"gorm.io/gorm"
)

type FindingRepo struct {
	db *gorm.DB
}

func (r *FindingRepo) Create(ctx context.Context, finding collective.Finding) (collective.Finding, error) {
	model := FindingModel{
		AuditID:         finding.AuditID,
		Title:           finding.Title,
		Description:     finding.Description,
		Severity:        string(finding.Severity),
		Category:        finding.Category,
		ReproSteps:      finding.ReproSteps,
		Impact:          finding.Impact,
		Recommendation:  finding.Recommendation,
		Status:          string(finding.Status),
		CreatedByUserID: finding.CreatedByUserID,
		CreatedAt:       finding.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return collective.Finding{}, mapError(err)
	}
	return findingFromModel(model), nil
}

func (r *FindingRepo) Get(ctx context.Context, id int64) (collective.Finding, error) {
	var model FindingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&model).Error; err != nil {
		return collective.Finding{}, mapError(err)
	}
	return findingFromModel(model), nil
}

func (r *FindingRepo) ListByAudit(ctx context.Context, auditID int64) ([]usecase.FindingWithAuthor, error) {
	var models []FindingModel
	err := r.db.WithContext(ctx).
		Where("audit_id = ?", auditID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, mapError(err)
	}
	ids := make([]string, 0, len(models))
	for _, model := range models {
		ids = append(ids, model.CreatedByUserID)
	}
	users, err := usersByID(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	out := make([]usecase.FindingWithAuthor, 0, len(models))
	for _, model := range models {
		out = append(out, usecase.FindingWithAuthor{
			Finding: findingFromModel(model),
			Author:  users[model.CreatedByUserID],
		})
	}
	return out, nil
}

func (r *FindingRepo) UpdateStatus(ctx context.Context, id int64, status collective.FindingStatus) error {
	result := r.db.WithContext(ctx).Model(&FindingModel{}).Where("id = ?", id).
		UpdateColumn("status", string(status))
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return collective.ErrNotFound
	}
	return nil
}

func (r *FindingRepo) CountByStatus(ctx context.Context) (usecase.FindingStats, error) {
	var stats usecase.FindingStats
	if err := r.db.WithContext(ctx).Model(&FindingModel{}).Count(&stats.TotalFindings).Error; err != nil {
		return usecase.FindingStats{}, mapError(err)
	}
	if err := r.db.WithContext(ctx).Model(&FindingModel{}).
		Where("status = ?", string(collective.FindingApproved)).
		Count(&stats.AcceptedFindings).Error; err != nil {
		return usecase.FindingStats{}, mapError(err)
	}
	if err := r.db.WithContext(ctx).Model(&FindingModel{}).
		Where("status = ?", string(collective.FindingRejected)).
		Count(&stats.RejectedFindings).Error; err != nil {
		return usecase.FindingStats{}, mapError(err)
	}
	return stats, nil
}

func findingFromModel(model FindingModel) collective.Finding {
	return collective.Finding{
		ID:              model.ID,
		AuditID:         model.AuditID,
		Title:           model.Title,
		Description:     model.Description,
		Severity:        collective.Severity(model.Severity),
		Category:        model.Category,
		ReproSteps:      model.ReproSteps,
		Impact:          model.Impact,
		Recommendation:  model.Recommendation,
		Status:          collective.FindingStatus(model.Status),
		CreatedByUserID: model.CreatedByUserID,
		CreatedAt:       model.CreatedAt.UTC(),
	}
}

type ReviewRepo struct {
	db *gorm.DB
}

func (r *ReviewRepo) Create(ctx context.Context, review collective.FindingReview) (collective.FindingReview, error) {
	model := FindingReviewModel{
		FindingID:      review.FindingID,
		ReviewerUserID: review.ReviewerUserID,
		Decision:       string(review.Decision),
		Notes:          review.Notes,
		CreatedAt:      review.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return collective.FindingReview{}, mapError(err)
	}
	return reviewFromModel(model), nil
}

func (r *ReviewRepo) ListByFinding(ctx context.Context, findingID int64) ([]usecase.ReviewWithReviewer, error) {
	var models []FindingReviewModel
	err := r.db.WithContext(ctx).
		Where("finding_id = ?", findingID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, mapError(err)
	}
	ids := make([]string, 0, len(models))
	for _, model := range models {
		ids = append(ids, model.ReviewerUserID)
	}
	users, err := usersByID(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	out := make([]usecase.ReviewWithReviewer, 0, len(models))
	for _, model := range models {
		out = append(out, usecase.ReviewWithReviewer{
			Review:   reviewFromModel(model),
			Reviewer: users[model.ReviewerUserID],
		})
	}
	return out, nil
}

func reviewFromModel(model FindingReviewModel) collective.FindingReview {
	return collective.FindingReview{
		ID:             model.ID,
		FindingID:      model.FindingID,
		ReviewerUserID: model.ReviewerUserID,
		Decision:       collective.ReviewDecision(model.Decision),
		Notes:          model.Notes,
		CreatedAt:      model.CreatedAt.UTC(),
	}
}
