package postgres

import (
	"context"

	"auditcollective/internal/domain/collective"
	"auditcollective/internal/usecase"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AuditRepo struct {
	db *gorm.DB
}

func (r *AuditRepo) Create(ctx context.Context, audit collective.Audit) (collective.Audit, error) {
	model := AuditModel{
		Title:      audit.Title,
		ClientName: audit.ClientName,
		ScopeText:  audit.ScopeText,
		RepoURL:    audit.RepoURL,
		Chain:      audit.Chain,
		Status:     string(audit.Status),
		CreatedAt:  audit.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return collective.Audit{}, mapError(err)
	}
	return auditFromModel(model), nil
}

func (r *AuditRepo) Get(ctx context.Context, id int64) (collective.Audit, error) {
	var model AuditModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&model).Error; err != nil {
		return collective.Audit{}, mapError(err)
	}
	return auditFromModel(model), nil
}

func (r *AuditRepo) List(ctx context.Context) ([]collective.Audit, error) {
	var models []AuditModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, mapError(err)
	}
	out := make([]collective.Audit, 0, len(models))
	for _, model := range models {
		out = append(out, auditFromModel(model))
	}
	return out, nil
}

func auditFromModel(model AuditModel) collective.Audit {
	return collective.Audit{
		ID:         model.ID,
		Title:      model.Title,
		ClientName: model.ClientName,
		ScopeText:  model.ScopeText,
		RepoURL:    model.RepoURL,
		Chain:      model.Chain,
		Status:     collective.AuditStatus(model.Status),
		CreatedAt:  model.CreatedAt.UTC(),
	}
}

type AssignmentRepo struct {
	db *gorm.DB
}

// Upsert keys on (audit_id, user_id): assigning the same user again updates
// the assignment type in place instead of adding a second row.
func (r *AssignmentRepo) Upsert(ctx context.Context, assignment collective.AuditAssignment) (collective.AuditAssignment, error) {
	model := AuditAssignmentModel{
		AuditID:        assignment.AuditID,
		UserID:         assignment.UserID,
		AssignmentType: string(assignment.AssignmentType),
		CreatedAt:      assignment.CreatedAt.UTC(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "audit_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"assignment_type"}),
	}).Create(&model).Error
	if err != nil {
		return collective.AuditAssignment{}, mapError(err)
	}
	return r.Get(ctx, assignment.AuditID, assignment.UserID)
}

func (r *AssignmentRepo) Get(ctx context.Context, auditID int64, userID string) (collective.AuditAssignment, error) {
	var model AuditAssignmentModel
	err := r.db.WithContext(ctx).
		Where("audit_id = ? AND user_id = ?", auditID, userID).
		Take(&model).Error
	if err != nil {
		return collective.AuditAssignment{}, mapError(err)
	}
	return assignmentFromModel(model), nil
}

func (r *AssignmentRepo) ListByAudit(ctx context.Context, auditID int64) ([]usecase.AssignmentWithUser, error) {
	var models []AuditAssignmentModel
	if err := r.db.WithContext(ctx).Where("audit_id = ?", auditID).Order("id ASC").Find(&models).Error; err != nil {
		return nil, mapError(err)
	}
	ids := make([]string, 0, len(models))
	for _, model := range models {
		ids = append(ids, model.UserID)
	}
	users, err := usersByID(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	out := make([]usecase.AssignmentWithUser, 0, len(models))
	for _, model := range models {
		out = append(out, usecase.AssignmentWithUser{
			Assignment: assignmentFromModel(model),
			User:       users[model.UserID],
		})
	}
	return out, nil
}

func assignmentFromModel(model AuditAssignmentModel) collective.AuditAssignment {
	return collective.AuditAssignment{
		ID:             model.ID,
		AuditID:        model.AuditID,
		UserID:         model.UserID,
		AssignmentType: collective.AssignmentType(model.AssignmentType),
		CreatedAt:      model.CreatedAt.UTC(),
	}
}
