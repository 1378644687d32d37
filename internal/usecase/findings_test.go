package usecase_test

import (
	"context"
	"errors"
	"testing"

	"auditcollective/internal/domain/collective"
	"auditcollective/internal/usecase"
)

func TestCreateFinding_RequiresAssignmentOrAdmin(t *testing.T) {
	service, store := newService(t)
	admin := mkUser(t, store, "admin", collective.RoleAdmin, collective.TierCore)
	assigned := mkUser(t, store, "assigned", collective.RoleAuditor, collective.TierObserver)
	outsider := mkUser(t, store, "outsider", collective.RoleAuditor, collective.TierCore)
	audit := mkAudit(t, service, admin)
	assign(t, service, admin, audit.ID, assigned.ID, collective.AssignmentReviewer)

	finding := mkFinding(t, service, assigned, audit.ID)
	if finding.Status != collective.FindingDraft {
		t.Fatalf("new finding status = %s, want draft", finding.Status)
	}
	if finding.CreatedByUserID != assigned.ID {
		t.Fatalf("author = %s, want %s", finding.CreatedByUserID, assigned.ID)
	}

	_, err := service.CreateFinding(context.Background(), outsider, audit.ID, usecase.CreateFindingInput{
		Title:       "x",
		Description: "y",
		Severity:    string(collective.SeverityLow),
	})
	if !errors.Is(err, collective.ErrForbidden) {
		t.Fatalf("unassigned auditor: err = %v, want ErrForbidden", err)
	}

	if _, err := service.CreateFinding(context.Background(), admin, audit.ID, usecase.CreateFindingInput{
		Title:       "Admin-reported issue",
		Description: "Found during triage.",
		Severity:    string(collective.SeverityInfo),
	}); err != nil {
		t.Fatalf("admin without assignment: %v", err)
	}
}

func TestCreateFinding_MissingAuditIsNotFound(t *testing.T) {
	service, store := newService(t)
	admin := mkUser(t, store, "admin", collective.RoleAdmin, collective.TierCore)

	_, err := service.CreateFinding(context.Background(), admin, 999, usecase.CreateFindingInput{
		Title:       "x",
		Description: "y",
		Severity:    string(collective.SeverityLow),
	})
	if !errors.Is(err, collective.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateFinding_Validation(t *testing.T) {
	service, store := newService(t)
	admin := mkUser(t, store, "admin", collective.RoleAdmin, collective.TierCore)
	audit := mkAudit(t, service, admin)

	cases := []usecase.CreateFindingInput{
		{Title: "", Description: "d", Severity: "low"},
		{Title: "t", Description: "", Severity: "low"},
		{Title: "t", Description: "d", Severity: "catastrophic"},
	}
	for i, input := range cases {
		if _, err := service.CreateFinding(context.Background(), admin, audit.ID, input); !errors.Is(err, collective.ErrInvalidArgument) {
			t.Fatalf("case %d: err = %v, want ErrInvalidArgument", i, err)
		}
	}
}

func TestReviewFinding_TierGate(t *testing.T) {
	service, store := newService(t)
	admin := mkUser(t, store, "admin", collective.RoleAdmin, collective.TierCore)
	author := mkUser(t, store, "author", collective.RoleAuditor, collective.TierObserver)
	contributor := mkUser(t, store, "contrib", collective.RoleAuditor, collective.TierContributor)
	observerAdmin := mkUser(t, store, "newadmin", collective.RoleAdmin, collective.TierObserver)
	audit := mkAudit(t, service, admin)
	assign(t, service, admin, audit.ID, author.ID, collective.AssignmentReviewer)
	finding := mkFinding(t, service, author, audit.ID)

	for _, caller := range []collective.User{author, contributor, observerAdmin} {
		_, err := service.ReviewFinding(context.Background(), caller, finding.ID, usecase.FindingReviewInput{
			Decision: "approve",
		})
		if !errors.Is(err, collective.ErrForbidden) {
			t.Fatalf("caller %s/%s: err = %v, want ErrForbidden", caller.Role, caller.Tier, err)
		}
	}
}

func TestReviewFinding_ApproveEmitsEventsAndScores(t *testing.T) {
	service, store := newService(t)
	admin := mkUser(t, store, "admin", collective.RoleAdmin, collective.TierCore)
	author := mkUser(t, store, "author", collective.RoleAuditor, collective.TierObserver)
	reviewer := mkUser(t, store, "reviewer", collective.RoleAuditor, collective.TierLead)
	audit := mkAudit(t, service, admin)
	assign(t, service, admin, audit.ID, author.ID, collective.AssignmentReviewer)
	finding := mkFinding(t, service, author, audit.ID)

	review, err := service.ReviewFinding(context.Background(), reviewer, finding.ID, usecase.FindingReviewInput{
		Decision: "approve",
		Notes:    "confirmed on fork",
	})
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if review.Decision != collective.DecisionApprove || review.ReviewerUserID != reviewer.ID {
		t.Fatalf("unexpected review row: %+v", review)
	}

	detail, err := service.GetFinding(context.Background(), finding.ID)
	if err != nil {
		t.Fatalf("get finding: %v", err)
	}
	if detail.Finding.Status != collective.FindingApproved {
		t.Fatalf("status = %s, want approved", detail.Finding.Status)
	}
	if len(detail.Reviews) != 1 {
		t.Fatalf("review count = %d, want 1", len(detail.Reviews))
	}

	if got := score(t, store, author.ID); got != collective.PointsFindingAccepted {
		t.Fatalf("author score = %d, want %d", got, collective.PointsFindingAccepted)
	}
	if got := score(t, store, reviewer.ID); got != collective.PointsReviewCompleted {
		t.Fatalf("reviewer score = %d, want %d", got, collective.PointsReviewCompleted)
	}

	authorEvents, err := store.Repos().Reputation.ListByUser(context.Background(), author.ID)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(authorEvents) != 1 || authorEvents[0].Type != collective.EventFindingAccepted {
		t.Fatalf("unexpected author events: %+v", authorEvents)
	}
	if authorEvents[0].FindingID == nil || *authorEvents[0].FindingID != finding.ID {
		t.Fatalf("event missing finding ref: %+v", authorEvents[0])
	}
	if authorEvents[0].AuditID == nil || *authorEvents[0].AuditID != audit.ID {
		t.Fatalf("event missing audit ref: %+v", authorEvents[0])
	}
}

func TestReviewFinding_RejectAndRequestChanges(t *testing.T) {
	service, store := newService(t)
	admin := mkUser(t, store, "admin", collective.RoleAdmin, collective.TierCore)
	author := mkUser(t, store, "author", collective.RoleAuditor, collective.TierObserver)
	reviewer := mkUser(t, store, "reviewer", collective.RoleAuditor, collective.TierReviewer)
	audit := mkAudit(t, service, admin)
	assign(t, service, admin, audit.ID, author.ID, collective.AssignmentReviewer)

	rejected := mkFinding(t, service, author, audit.ID)
	if _, err := service.ReviewFinding(context.Background(), reviewer, rejected.ID, usecase.FindingReviewInput{
		Decision: "reject",
	}); err != nil {
		t.Fatalf("reject: %v", err)
	}
	detail, _ := service.GetFinding(context.Background(), rejected.ID)
	if detail.Finding.Status != collective.FindingRejected {
		t.Fatalf("status = %s, want rejected", detail.Finding.Status)
	}
	if got := score(t, store, author.ID); got != collective.PointsFindingRejected {
		t.Fatalf("author score = %d, want %d", got, collective.PointsFindingRejected)
	}

	changes := mkFinding(t, service, author, audit.ID)
	if _, err := service.ReviewFinding(context.Background(), reviewer, changes.ID, usecase.FindingReviewInput{
		Decision: "request_changes",
		Notes:    "needs a PoC",
	}); err != nil {
		t.Fatalf("request_changes: %v", err)
	}
	detail, _ = service.GetFinding(context.Background(), changes.ID)
	if detail.Finding.Status != collective.FindingNeedsReview {
		t.Fatalf("status = %s, want needs_review", detail.Finding.Status)
	}
	events, _ := store.Repos().Reputation.ListByUser(context.Background(), author.ID)
	if len(events) != 1 {
		t.Fatalf("request_changes emitted events: %+v", events)
	}

	if got, want := score(t, store, reviewer.ID), collective.PointsReviewCompleted; got != want {
		t.Fatalf("reviewer score = %d, want %d (request_changes pays nothing)", got, want)
	}
}

func TestReviewFinding_MissingFindingFailsBeforeAnyWrite(t *testing.T) {
	service, store := newService(t)
	reviewer := mkUser(t, store, "reviewer", collective.RoleAuditor, collective.TierReviewer)

	_, err := service.ReviewFinding(context.Background(), reviewer, 404, usecase.FindingReviewInput{
		Decision: "approve",
	})
	if !errors.Is(err, collective.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	reviews, err := store.Repos().Reviews.ListByFinding(context.Background(), 404)
	if err != nil {
		t.Fatalf("list reviews: %v", err)
	}
	if len(reviews) != 0 {
		t.Fatalf("review row written for missing finding: %+v", reviews)
	}
	if got := score(t, store, reviewer.ID); got != 0 {
		t.Fatalf("reviewer score changed: %d", got)
	}
}

func TestReviewFinding_InvalidDecision(t *testing.T) {
	service, store := newService(t)
	reviewer := mkUser(t, store, "reviewer", collective.RoleAuditor, collective.TierReviewer)

	_, err := service.ReviewFinding(context.Background(), reviewer, 1, usecase.FindingReviewInput{
		Decision: "defer",
	})
	if !errors.Is(err, collective.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

// Mirrors the double-review scenario: a second review re-applies its decision
// deterministically and the history keeps both rows.
func TestReviewFinding_DoubleReviewReapplies(t *testing.T) {
	service, store := newService(t)
	admin := mkUser(t, store, "admin", collective.RoleAdmin, collective.TierCore)
	author := mkUser(t, store, "author", collective.RoleAuditor, collective.TierObserver)
	lead := mkUser(t, store, "lead", collective.RoleAuditor, collective.TierLead)
	audit := mkAudit(t, service, admin)
	assign(t, service, admin, audit.ID, author.ID, collective.AssignmentReviewer)
	finding := mkFinding(t, service, author, audit.ID)

	if _, err := service.ReviewFinding(context.Background(), lead, finding.ID, usecase.FindingReviewInput{Decision: "approve"}); err != nil {
		t.Fatalf("first review: %v", err)
	}
	if _, err := service.ReviewFinding(context.Background(), lead, finding.ID, usecase.FindingReviewInput{Decision: "reject"}); err != nil {
		t.Fatalf("second review: %v", err)
	}

	detail, _ := service.GetFinding(context.Background(), finding.ID)
	if detail.Finding.Status != collective.FindingRejected {
		t.Fatalf("status = %s, want rejected after second review", detail.Finding.Status)
	}
	if len(detail.Reviews) != 2 {
		t.Fatalf("review history = %d rows, want 2", len(detail.Reviews))
	}

	wantAuthor := collective.PointsFindingAccepted + collective.PointsFindingRejected
	if got := score(t, store, author.ID); got != wantAuthor {
		t.Fatalf("author score = %d, want %d", got, wantAuthor)
	}
	if got := score(t, store, lead.ID); got != 2*collective.PointsReviewCompleted {
		t.Fatalf("reviewer score = %d, want %d", got, 2*collective.PointsReviewCompleted)
	}
}

// The cached score must always equal the ledger sum.
func TestReputationScoreMatchesLedger(t *testing.T) {
	service, store := newService(t)
	admin := mkUser(t, store, "admin", collective.RoleAdmin, collective.TierCore)
	author := mkUser(t, store, "author", collective.RoleAuditor, collective.TierObserver)
	lead := mkUser(t, store, "lead", collective.RoleAuditor, collective.TierLead)
	audit := mkAudit(t, service, admin)
	assign(t, service, admin, audit.ID, author.ID, collective.AssignmentReviewer)

	decisions := []string{"approve", "reject", "request_changes", "approve"}
	for _, decision := range decisions {
		finding := mkFinding(t, service, author, audit.ID)
		if _, err := service.ReviewFinding(context.Background(), lead, finding.ID, usecase.FindingReviewInput{Decision: decision}); err != nil {
			t.Fatalf("review %s: %v", decision, err)
		}
	}

	for _, user := range []collective.User{author, lead} {
		if score(t, store, user.ID) != ledgerSum(t, store, user.ID) {
			t.Fatalf("score diverged from ledger for %s", user.Username)
		}
	}
}

// End-to-end workflow: observer author, lead reviewer.
func TestFindingWorkflowScenario(t *testing.T) {
	service, store := newService(t)
	admin := mkUser(t, store, "admin", collective.RoleAdmin, collective.TierCore)
	userA := mkUser(t, store, "user_a", collective.RoleAuditor, collective.TierObserver)
	userB := mkUser(t, store, "user_b", collective.RoleAuditor, collective.TierLead)
	audit := mkAudit(t, service, admin)
	assign(t, service, admin, audit.ID, userA.ID, collective.AssignmentReviewer)

	finding := mkFinding(t, service, userA, audit.ID)
	if finding.Status != collective.FindingDraft {
		t.Fatalf("created status = %s, want draft", finding.Status)
	}

	if _, err := service.ReviewFinding(context.Background(), userB, finding.ID, usecase.FindingReviewInput{Decision: "approve"}); err != nil {
		t.Fatalf("review: %v", err)
	}
	detail, _ := service.GetFinding(context.Background(), finding.ID)
	if detail.Finding.Status != collective.FindingApproved {
		t.Fatalf("status = %s, want approved", detail.Finding.Status)
	}
	if got := score(t, store, userA.ID); got != 5 {
		t.Fatalf("author score = %d, want 5", got)
	}
	if got := score(t, store, userB.ID); got != 2 {
		t.Fatalf("reviewer score = %d, want 2", got)
	}
}
