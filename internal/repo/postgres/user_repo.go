package postgres

import (
	"context"
	"time"

	"auditcollective/internal/domain/collective"
	"auditcollective/internal/usecase"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

func (r *UserRepo) Create(ctx context.Context, user collective.User) (collective.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}
	model := userModelFromDomain(user)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return collective.User{}, mapError(err)
	}
	return userFromModel(model), nil
}

func (r *UserRepo) Get(ctx context.Context, id string) (collective.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&model).Error; err != nil {
		return collective.User{}, mapError(err)
	}
	return userFromModel(model), nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (collective.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).Where("username = ?", username).Take(&model).Error; err != nil {
		return collective.User{}, mapError(err)
	}
	return userFromModel(model), nil
}

func (r *UserRepo) List(ctx context.Context) ([]collective.User, error) {
	var models []UserModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, mapError(err)
	}
	out := make([]collective.User, 0, len(models))
	for _, model := range models {
		out = append(out, userFromModel(model))
	}
	return out, nil
}

func (r *UserRepo) Update(ctx context.Context, id string, patch usecase.UserPatch) (collective.User, error) {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if patch.Role != nil {
		updates["role"] = string(*patch.Role)
	}
	if patch.Tier != nil {
		updates["tier"] = string(*patch.Tier)
	}
	if patch.Status != nil {
		updates["status"] = string(*patch.Status)
	}
	result := r.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return collective.User{}, mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return collective.User{}, collective.ErrNotFound
	}
	return r.Get(ctx, id)
}

// AddReputation increments the cached score in a single UPDATE so
// concurrent ledger appends cannot lose updates.
func (r *UserRepo) AddReputation(ctx context.Context, id string, delta int) error {
	result := r.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", id).
		UpdateColumn("reputation_score", gorm.Expr("reputation_score + ?", delta))
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return collective.ErrNotFound
	}
	return nil
}

func (r *UserRepo) Leaderboard(ctx context.Context, limit int) ([]collective.User, error) {
	var models []UserModel
	if err := r.db.WithContext(ctx).
		Where("role = ?", string(collective.RoleAuditor)).
		Order("reputation_score DESC, id ASC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, mapError(err)
	}
	out := make([]collective.User, 0, len(models))
	for _, model := range models {
		out = append(out, userFromModel(model))
	}
	return out, nil
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&UserModel{}).Count(&count).Error; err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

func userModelFromDomain(user collective.User) UserModel {
	return UserModel{
		ID:              user.ID,
		Email:           user.Email,
		Username:        user.Username,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		ProfileImageURL: user.ProfileImageURL,
		Role:            string(user.Role),
		Tier:            string(user.Tier),
		Status:          string(user.Status),
		ReputationScore: user.ReputationScore,
		CreatedAt:       user.CreatedAt.UTC(),
		UpdatedAt:       user.UpdatedAt.UTC(),
	}
}

func userFromModel(model UserModel) collective.User {
	return collective.User{
		ID:              model.ID,
		Email:           model.Email,
		Username:        model.Username,
		FirstName:       model.FirstName,
		LastName:        model.LastName,
		ProfileImageURL: model.ProfileImageURL,
		Role:            collective.Role(model.Role),
		Tier:            collective.Tier(model.Tier),
		Status:          collective.UserStatus(model.Status),
		ReputationScore: model.ReputationScore,
		CreatedAt:       model.CreatedAt.UTC(),
		UpdatedAt:       model.UpdatedAt.UTC(),
	}
}
