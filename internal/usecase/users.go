package usecase

import (
	"context"
	"strings"

	"auditcollective/internal/domain/collective"
)

type UpdateUserInput struct {
	Role   string
	Tier   string
	Status string
}

type ProfileInput struct {
	Bio        string
	Wallet     string
	ProofLinks []string
	SkillsTags []string
	Notes      string
}

func (s *Service) ListUsers(ctx context.Context, caller collective.User) ([]collective.User, error) {
	if !collective.CanManageUsers(caller) {
		return nil, collective.ErrForbidden
	}
	return s.repos.Users.List(ctx)
}

// UpdateUser is an administrative override of role/tier/status. Validation
// is enum membership only; no state machine applies here.
func (s *Service) UpdateUser(ctx context.Context, caller collective.User, userID string, input UpdateUserInput) (collective.User, error) {
	if !collective.CanManageUsers(caller) {
		return collective.User{}, collective.ErrForbidden
	}
	var patch UserPatch
	if input.Role != "" {
		role := collective.Role(input.Role)
		if !role.Valid() {
			return collective.User{}, collective.ErrInvalidArgument
		}
		patch.Role = &role
	}
	if input.Tier != "" {
		tier := collective.Tier(input.Tier)
		if !tier.Valid() {
			return collective.User{}, collective.ErrInvalidArgument
		}
		patch.Tier = &tier
	}
	if input.Status != "" {
		status := collective.UserStatus(input.Status)
		if !status.Valid() {
			return collective.User{}, collective.ErrInvalidArgument
		}
		patch.Status = &status
	}
	return s.repos.Users.Update(ctx, userID, patch)
}

func (s *Service) GetProfile(ctx context.Context, userID string) (collective.AuditorProfile, error) {
	return s.repos.Profiles.GetByUser(ctx, userID)
}

func (s *Service) UpsertOwnProfile(ctx context.Context, caller collective.User, input ProfileInput) (collective.AuditorProfile, error) {
	return s.repos.Profiles.Upsert(ctx, collective.AuditorProfile{
		UserID:     caller.ID,
		Bio:        strings.TrimSpace(input.Bio),
		Wallet:     strings.TrimSpace(input.Wallet),
		ProofLinks: input.ProofLinks,
		SkillsTags: input.SkillsTags,
		Notes:      input.Notes,
	})
}

func (s *Service) ReputationHistory(ctx context.Context, userID string) ([]collective.ReputationEvent, error) {
	if _, err := s.repos.Users.Get(ctx, userID); err != nil {
		return nil, err
	}
	return s.repos.Reputation.ListByUser(ctx, userID)
}
