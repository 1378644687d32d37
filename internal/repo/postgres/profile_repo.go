package postgres

import (
	"context"

	"auditcollective/internal/domain/collective"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepo struct {
	db *gorm.DB
}

func (r *ProfileRepo) Upsert(ctx context.Context, profile collective.AuditorProfile) (collective.AuditorProfile, error) {
	proofLinks, err := marshalStrings(profile.ProofLinks)
	if err != nil {
		return collective.AuditorProfile{}, err
	}
	skillsTags, err := marshalStrings(profile.SkillsTags)
	if err != nil {
		return collective.AuditorProfile{}, err
	}
	model := AuditorProfileModel{
		UserID:     profile.UserID,
		Bio:        profile.Bio,
		Wallet:     profile.Wallet,
		ProofLinks: proofLinks,
		SkillsTags: skillsTags,
		Notes:      profile.Notes,
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"bio", "wallet", "proof_links", "skills_tags", "notes"}),
	}).Create(&model).Error
	if err != nil {
		return collective.AuditorProfile{}, mapError(err)
	}
	return r.GetByUser(ctx, profile.UserID)
}

func (r *ProfileRepo) GetByUser(ctx context.Context, userID string) (collective.AuditorProfile, error) {
	var model AuditorProfileModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&model).Error; err != nil {
		return collective.AuditorProfile{}, mapError(err)
	}
	return profileFromModel(model), nil
}

func profileFromModel(model AuditorProfileModel) collective.AuditorProfile {
	return collective.AuditorProfile{
		ID:         model.ID,
		UserID:     model.UserID,
		Bio:        model.Bio,
		Wallet:     model.Wallet,
		ProofLinks: unmarshalStrings(model.ProofLinks),
		SkillsTags: unmarshalStrings(model.SkillsTags),
		Notes:      model.Notes,
	}
}
