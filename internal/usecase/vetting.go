package usecase

import (
	"context"
	"strings"

	"auditcollective/internal/domain/collective"
)

type ApplyInput struct {
	WriteupText string
	Links       []string
}

type VettingReviewInput struct {
	Decision string
	Score    int
	Comments string
}

// Apply submits a vetting application for the caller. One open application
// per user: a second apply while one is pending fails with conflict.
func (s *Service) Apply(ctx context.Context, caller collective.User, input ApplyInput) (collective.VettingApplication, error) {
	if strings.TrimSpace(input.WriteupText) == "" {
		return collective.VettingApplication{}, collective.ErrInvalidArgument
	}
	pending, err := s.repos.Vetting.HasPending(ctx, caller.ID)
	if err != nil {
		return collective.VettingApplication{}, err
	}
	if pending {
		return collective.VettingApplication{}, collective.ErrConflict
	}
	return s.repos.Vetting.Create(ctx, collective.VettingApplication{
		UserID:      caller.ID,
		SubmittedAt: s.now(),
		Links:       input.Links,
		WriteupText: input.WriteupText,
		Decision:    collective.VettingPending,
	})
}

func (s *Service) ListPendingApplications(ctx context.Context, caller collective.User) ([]VettingApplicationWithUser, error) {
	if !collective.CanReviewVetting(caller) {
		return nil, collective.ErrForbidden
	}
	return s.repos.Vetting.ListPending(ctx)
}

// ReviewApplication decides a pending application and mutates the applicant
// in the same transaction: accepted promotes to active/contributor,
// rejected sets status removed. A decided application cannot be reviewed
// again.
func (s *Service) ReviewApplication(ctx context.Context, caller collective.User, applicationID int64, input VettingReviewInput) (collective.VettingApplication, error) {
	if !collective.CanReviewVetting(caller) {
		return collective.VettingApplication{}, collective.ErrForbidden
	}
	decision := collective.VettingDecision(input.Decision)
	if decision != collective.VettingAccepted && decision != collective.VettingRejected {
		return collective.VettingApplication{}, collective.ErrInvalidArgument
	}
	if input.Score < 0 || input.Score > 100 {
		return collective.VettingApplication{}, collective.ErrInvalidArgument
	}

	var decided collective.VettingApplication
	err := s.store.InTx(ctx, func(r Repos) error {
		app, err := r.Vetting.Get(ctx, applicationID)
		if err != nil {
			return err
		}
		if app.Decision != collective.VettingPending {
			return collective.ErrConflict
		}
		decided, err = r.Vetting.Decide(ctx, applicationID, VettingDecisionUpdate{
			Decision:       decision,
			Score:          input.Score,
			Comments:       input.Comments,
			ReviewerUserID: caller.ID,
		})
		if err != nil {
			return err
		}
		patch := UserPatch{}
		if decision == collective.VettingAccepted {
			status := collective.StatusActive
			tier := collective.TierContributor
			patch.Status = &status
			patch.Tier = &tier
		} else {
			status := collective.StatusRemoved
			patch.Status = &status
		}
		_, err = r.Users.Update(ctx, app.UserID, patch)
		return err
	})
	if err != nil {
		return collective.VettingApplication{}, err
	}
	return decided, nil
}
