package usecase

import (
	"context"
	"time"

	"auditcollective/internal/domain/collective"
)

// SeedDemoData populates an empty store with a small working dataset: an
// admin, two auditors, one in-progress audit with a lead assignment, and
// one approved finding. A store with any users at all is left alone.
func SeedDemoData(ctx context.Context, store Store) error {
	r := store.Repos()
	count, err := r.Users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	_, err = r.Users.Create(ctx, collective.User{
		Username:        "admin",
		Email:           "admin@example.com",
		FirstName:       "Admin",
		LastName:        "User",
		Role:            collective.RoleAdmin,
		Tier:            collective.TierCore,
		Status:          collective.StatusActive,
		ReputationScore: 100,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return err
	}
	alice, err := r.Users.Create(ctx, collective.User{
		Username:        "alice_auditor",
		Email:           "alice@example.com",
		FirstName:       "Alice",
		LastName:        "Auditor",
		Role:            collective.RoleAuditor,
		Tier:            collective.TierReviewer,
		Status:          collective.StatusActive,
		ReputationScore: 50,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return err
	}
	bob, err := r.Users.Create(ctx, collective.User{
		Username:        "bob_auditor",
		Email:           "bob@example.com",
		FirstName:       "Bob",
		LastName:        "Builder",
		Role:            collective.RoleAuditor,
		Tier:            collective.TierContributor,
		Status:          collective.StatusActive,
		ReputationScore: 20,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return err
	}

	audit, err := r.Audits.Create(ctx, collective.Audit{
		Title:      "DeFi Protocol V1",
		ClientName: "DeFi Corp",
		ScopeText:  "Smart contracts in /contracts",
		RepoURL:    "https://github.com/deficorp/v1",
		Chain:      "Ethereum",
		Status:     collective.AuditInProgress,
		CreatedAt:  now,
	})
	if err != nil {
		return err
	}
	_, err = r.Assignments.Upsert(ctx, collective.AuditAssignment{
		AuditID:        audit.ID,
		UserID:         alice.ID,
		AssignmentType: collective.AssignmentLead,
		CreatedAt:      now,
	})
	if err != nil {
		return err
	}
	_, err = r.Findings.Create(ctx, collective.Finding{
		AuditID:         audit.ID,
		Title:           "Reentrancy in withdraw function",
		Description:     "The withdraw function does not follow checks-effects-interactions.",
		Severity:        collective.SeverityHigh,
		Category:        "Security",
		Status:          collective.FindingApproved,
		CreatedByUserID: bob.ID,
		CreatedAt:       now,
	})
	return err
}
