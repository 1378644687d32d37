package usecase

import (
	"context"
	"strings"

	"auditcollective/internal/domain/collective"
)

type CreateAuditInput struct {
	Title      string
	ClientName string
	ScopeText  string
	RepoURL    string
	Chain      string
	Status     string
}

type AssignInput struct {
	UserID         string
	AssignmentType string
}

type AuditDetail struct {
	Audit       collective.Audit
	Assignments []AssignmentWithUser
}

func (s *Service) ListAudits(ctx context.Context) ([]collective.Audit, error) {
	return s.repos.Audits.List(ctx)
}

func (s *Service) CreateAudit(ctx context.Context, caller collective.User, input CreateAuditInput) (collective.Audit, error) {
	if !collective.CanCreateAudit(caller) {
		return collective.Audit{}, collective.ErrForbidden
	}
	if strings.TrimSpace(input.Title) == "" ||
		strings.TrimSpace(input.ClientName) == "" ||
		strings.TrimSpace(input.ScopeText) == "" {
		return collective.Audit{}, collective.ErrInvalidArgument
	}
	status := collective.AuditIntake
	if input.Status != "" {
		status = collective.AuditStatus(input.Status)
		if !status.Valid() {
			return collective.Audit{}, collective.ErrInvalidArgument
		}
	}
	return s.repos.Audits.Create(ctx, collective.Audit{
		Title:      input.Title,
		ClientName: input.ClientName,
		ScopeText:  input.ScopeText,
		RepoURL:    input.RepoURL,
		Chain:      input.Chain,
		Status:     status,
		CreatedAt:  s.now(),
	})
}

func (s *Service) GetAudit(ctx context.Context, auditID int64) (AuditDetail, error) {
	audit, err := s.repos.Audits.Get(ctx, auditID)
	if err != nil {
		return AuditDetail{}, err
	}
	assignments, err := s.repos.Assignments.ListByAudit(ctx, auditID)
	if err != nil {
		return AuditDetail{}, err
	}
	return AuditDetail{Audit: audit, Assignments: assignments}, nil
}

// AssignUser attaches a user to an audit as lead or reviewer. Assignment is
// keyed on (audit, user); assigning the same user again changes the type
// rather than adding a second row.
func (s *Service) AssignUser(ctx context.Context, caller collective.User, auditID int64, input AssignInput) (collective.AuditAssignment, error) {
	if !collective.CanAssignAuditors(caller) {
		return collective.AuditAssignment{}, collective.ErrForbidden
	}
	assignmentType := collective.AssignmentType(input.AssignmentType)
	if !assignmentType.Valid() {
		return collective.AuditAssignment{}, collective.ErrInvalidArgument
	}
	if _, err := s.repos.Audits.Get(ctx, auditID); err != nil {
		return collective.AuditAssignment{}, err
	}
	if _, err := s.repos.Users.Get(ctx, input.UserID); err != nil {
		return collective.AuditAssignment{}, err
	}
	return s.repos.Assignments.Upsert(ctx, collective.AuditAssignment{
		AuditID:        auditID,
		UserID:         input.UserID,
		AssignmentType: assignmentType,
		CreatedAt:      s.now(),
	})
}
