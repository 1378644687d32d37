package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"auditcollective/internal/domain/collective"
	"auditcollective/internal/metrics"
)

type CreateFindingInput struct {
	Title          string
	Description    string
	Severity       string
	Category       string
	ReproSteps     string
	Impact         string
	Recommendation string
}

type FindingReviewInput struct {
	Decision string
	Notes    string
}

type FindingDetail struct {
	Finding collective.Finding
	Reviews []ReviewWithReviewer
}

func (s *Service) ListFindings(ctx context.Context, auditID int64) ([]FindingWithAuthor, error) {
	if _, err := s.repos.Audits.Get(ctx, auditID); err != nil {
		return nil, err
	}
	return s.repos.Findings.ListByAudit(ctx, auditID)
}

// CreateFinding reports a finding on an audit. The caller must hold an
// assignment on the audit or be an admin; findings always start in draft.
func (s *Service) CreateFinding(ctx context.Context, caller collective.User, auditID int64, input CreateFindingInput) (collective.Finding, error) {
	if _, err := s.repos.Audits.Get(ctx, auditID); err != nil {
		return collective.Finding{}, err
	}
	assigned, err := s.callerAssigned(ctx, auditID, caller.ID)
	if err != nil {
		return collective.Finding{}, err
	}
	if !collective.CanReportFinding(caller, assigned) {
		return collective.Finding{}, collective.ErrForbidden
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" {
		return collective.Finding{}, collective.ErrInvalidArgument
	}
	severity := collective.Severity(input.Severity)
	if !severity.Valid() {
		return collective.Finding{}, collective.ErrInvalidArgument
	}
	return s.repos.Findings.Create(ctx, collective.Finding{
		AuditID:         auditID,
		Title:           input.Title,
		Description:     input.Description,
		Severity:        severity,
		Category:        input.Category,
		ReproSteps:      input.ReproSteps,
		Impact:          input.Impact,
		Recommendation:  input.Recommendation,
		Status:          collective.FindingDraft,
		CreatedByUserID: caller.ID,
		CreatedAt:       s.now(),
	})
}

func (s *Service) GetFinding(ctx context.Context, findingID int64) (FindingDetail, error) {
	finding, err := s.repos.Findings.Get(ctx, findingID)
	if err != nil {
		return FindingDetail{}, err
	}
	reviews, err := s.repos.Reviews.ListByFinding(ctx, findingID)
	if err != nil {
		return FindingDetail{}, err
	}
	return FindingDetail{Finding: finding, Reviews: reviews}, nil
}

// ReviewFinding is the core transition of the workflow. It runs in one
// transaction: record the review, move the finding, and append the ledger
// events the decision calls for. Reviewing a finding that does not exist
// fails with not found before anything is written. A finding may be
// reviewed more than once; each review re-applies its decision and the full
// review history is kept.
func (s *Service) ReviewFinding(ctx context.Context, caller collective.User, findingID int64, input FindingReviewInput) (collective.FindingReview, error) {
	if !collective.CanReviewFinding(caller) {
		return collective.FindingReview{}, collective.ErrForbidden
	}
	decision := collective.ReviewDecision(input.Decision)
	if !decision.Valid() {
		return collective.FindingReview{}, collective.ErrInvalidArgument
	}

	now := s.now()
	var review collective.FindingReview
	err := s.store.InTx(ctx, func(r Repos) error {
		finding, err := r.Findings.Get(ctx, findingID)
		if err != nil {
			return err
		}
		review, err = r.Reviews.Create(ctx, collective.FindingReview{
			FindingID:      findingID,
			ReviewerUserID: caller.ID,
			Decision:       decision,
			Notes:          input.Notes,
			CreatedAt:      now,
		})
		if err != nil {
			return err
		}
		switch decision {
		case collective.DecisionApprove:
			if err := r.Findings.UpdateStatus(ctx, findingID, collective.FindingApproved); err != nil {
				return err
			}
			if err := s.emitReviewEvents(ctx, r, finding, caller.ID, collective.EventFindingAccepted, collective.PointsFindingAccepted, now); err != nil {
				return err
			}
		case collective.DecisionReject:
			if err := r.Findings.UpdateStatus(ctx, findingID, collective.FindingRejected); err != nil {
				return err
			}
			if err := s.emitReviewEvents(ctx, r, finding, caller.ID, collective.EventFindingRejected, collective.PointsFindingRejected, now); err != nil {
				return err
			}
		case collective.DecisionRequestChanges:
			if err := r.Findings.UpdateStatus(ctx, findingID, collective.FindingNeedsReview); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return collective.FindingReview{}, err
	}
	metrics.FindingReviews.WithLabelValues(string(decision)).Inc()
	return review, nil
}

// emitReviewEvents appends the author event plus the reviewer's
// review_completed credit.
func (s *Service) emitReviewEvents(ctx context.Context, r Repos, finding collective.Finding, reviewerID string, authorEvent collective.EventType, authorPoints int, now time.Time) error {
	refs := eventRefs(finding)
	if _, err := r.Reputation.Append(ctx, collective.ReputationEvent{
		UserID:    finding.CreatedByUserID,
		Type:      authorEvent,
		Points:    authorPoints,
		AuditID:   refs.auditID,
		FindingID: refs.findingID,
		CreatedAt: now,
	}); err != nil {
		return err
	}
	metrics.ReputationEvents.WithLabelValues(string(authorEvent)).Inc()
	if _, err := r.Reputation.Append(ctx, collective.ReputationEvent{
		UserID:    reviewerID,
		Type:      collective.EventReviewCompleted,
		Points:    collective.PointsReviewCompleted,
		AuditID:   refs.auditID,
		FindingID: refs.findingID,
		CreatedAt: now,
	}); err != nil {
		return err
	}
	metrics.ReputationEvents.WithLabelValues(string(collective.EventReviewCompleted)).Inc()
	return nil
}

type findingRefs struct {
	auditID   *int64
	findingID *int64
}

func eventRefs(finding collective.Finding) findingRefs {
	auditID := finding.AuditID
	findingID := finding.ID
	return findingRefs{auditID: &auditID, findingID: &findingID}
}

func (s *Service) callerAssigned(ctx context.Context, auditID int64, userID string) (bool, error) {
	_, err := s.repos.Assignments.Get(ctx, auditID, userID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, collective.ErrNotFound) {
		return false, nil
	}
	return false, err
}
