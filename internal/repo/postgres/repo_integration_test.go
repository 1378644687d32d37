//go:build integration
// +build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"auditcollective/internal/config"
	"auditcollective/internal/domain/collective"
	"auditcollective/internal/repo/postgres/testdb"
	"auditcollective/internal/usecase"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	dsn, cleanup := testdb.NewDatabase(t)
	t.Cleanup(cleanup)
	store, err := NewStore(config.Config{PostgresDSN: dsn})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func insertUser(t *testing.T, repos usecase.Repos, username string, role collective.Role, tier collective.Tier) collective.User {
	t.Helper()
	user, err := repos.Users.Create(context.Background(), collective.User{
		Email:    username + "@example.com",
		Username: username,
		Role:     role,
		Tier:     tier,
		Status:   collective.StatusActive,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func TestUserRepo_CreateGetUpdate(t *testing.T) {
	store := setupStore(t)
	repos := store.Repos()
	ctx := context.Background()

	user := insertUser(t, repos, "carol", collective.RoleAuditor, collective.TierObserver)
	got, err := repos.Users.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Username != "carol" || got.Tier != collective.TierObserver {
		t.Fatalf("unexpected user: %+v", got)
	}

	byName, err := repos.Users.GetByUsername(ctx, "carol")
	if err != nil || byName.ID != user.ID {
		t.Fatalf("get by username: %v %+v", err, byName)
	}

	tier := collective.TierContributor
	updated, err := repos.Users.Update(ctx, user.ID, usecase.UserPatch{Tier: &tier})
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
	if updated.Tier != collective.TierContributor {
		t.Fatalf("tier not updated: %s", updated.Tier)
	}

	if _, err := repos.Users.Get(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, collective.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepo_DuplicateUsername(t *testing.T) {
	store := setupStore(t)
	repos := store.Repos()

	insertUser(t, repos, "dave", collective.RoleAuditor, collective.TierObserver)
	_, err := repos.Users.Create(context.Background(), collective.User{
		Email:    "other@example.com",
		Username: "dave",
		Role:     collective.RoleAuditor,
		Tier:     collective.TierObserver,
		Status:   collective.StatusActive,
	})
	if err == nil {
		t.Fatal("expected duplicate username to fail")
	}
}

func TestAssignmentRepo_UpsertUpdatesType(t *testing.T) {
	store := setupStore(t)
	repos := store.Repos()
	ctx := context.Background()

	user := insertUser(t, repos, "erin", collective.RoleAuditor, collective.TierContributor)
	audit, err := repos.Audits.Create(ctx, collective.Audit{
		Title:      "Vault Audit",
		ClientName: "Acme",
		ScopeText:  "contracts/",
		Status:     collective.AuditIntake,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create audit: %v", err)
	}

	first, err := repos.Assignments.Upsert(ctx, collective.AuditAssignment{
		AuditID:        audit.ID,
		UserID:         user.ID,
		AssignmentType: collective.AssignmentReviewer,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second, err := repos.Assignments.Upsert(ctx, collective.AuditAssignment{
		AuditID:        audit.ID,
		UserID:         user.ID,
		AssignmentType: collective.AssignmentLead,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("upsert created a second row: %d vs %d", second.ID, first.ID)
	}
	if second.AssignmentType != collective.AssignmentLead {
		t.Fatalf("assignment type not updated: %s", second.AssignmentType)
	}

	list, err := repos.Assignments.ListByAudit(ctx, audit.ID)
	if err != nil {
		t.Fatalf("list assignments: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(list))
	}
	if list[0].User.Username != "erin" {
		t.Fatalf("user not stitched: %+v", list[0].User)
	}
}

func TestReputationRepo_AppendKeepsScoreInSync(t *testing.T) {
	store := setupStore(t)
	repos := store.Repos()
	ctx := context.Background()

	user := insertUser(t, repos, "frank", collective.RoleAuditor, collective.TierContributor)
	findingID := int64(7)
	events := []collective.ReputationEvent{
		{UserID: user.ID, Type: collective.EventFindingAccepted, Points: collective.PointsFindingAccepted, FindingID: &findingID, CreatedAt: time.Now().UTC()},
		{UserID: user.ID, Type: collective.EventFindingRejected, Points: collective.PointsFindingRejected, FindingID: &findingID, CreatedAt: time.Now().UTC()},
	}
	for _, event := range events {
		if _, err := repos.Reputation.Append(ctx, event); err != nil {
			t.Fatalf("append event: %v", err)
		}
	}

	sum, err := repos.Reputation.SumPoints(ctx, user.ID)
	if err != nil {
		t.Fatalf("sum points: %v", err)
	}
	got, err := repos.Users.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.ReputationScore != sum {
		t.Fatalf("cached score %d diverged from ledger sum %d", got.ReputationScore, sum)
	}
	if sum != collective.PointsFindingAccepted+collective.PointsFindingRejected {
		t.Fatalf("unexpected sum: %d", sum)
	}
}

func TestStore_InTxRollsBackOnError(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	user := insertUser(t, store.Repos(), "grace", collective.RoleAuditor, collective.TierReviewer)

	sentinel := errors.New("boom")
	err := store.InTx(ctx, func(repos usecase.Repos) error {
		if _, err := repos.Reputation.Append(ctx, collective.ReputationEvent{
			UserID:    user.ID,
			Type:      collective.EventReviewCompleted,
			Points:    collective.PointsReviewCompleted,
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}

	events, err := store.Repos().Reputation.ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected rollback, found %d events", len(events))
	}
	got, err := store.Repos().Users.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.ReputationScore != 0 {
		t.Fatalf("score changed despite rollback: %d", got.ReputationScore)
	}
}

func TestVettingRepo_PendingLifecycle(t *testing.T) {
	store := setupStore(t)
	repos := store.Repos()
	ctx := context.Background()

	applicant := insertUser(t, repos, "henry", collective.RoleAuditor, collective.TierObserver)
	admin := insertUser(t, repos, "root", collective.RoleAdmin, collective.TierLead)

	app, err := repos.Vetting.Create(ctx, collective.VettingApplication{
		UserID:      applicant.ID,
		SubmittedAt: time.Now().UTC(),
		Links:       []string{"https://github.com/henry"},
		WriteupText: "reentrancy writeup",
		Decision:    collective.VettingPending,
	})
	if err != nil {
		t.Fatalf("create application: %v", err)
	}

	pending, err := repos.Vetting.HasPending(ctx, applicant.ID)
	if err != nil || !pending {
		t.Fatalf("expected pending application, got %v %v", pending, err)
	}

	list, err := repos.Vetting.ListPending(ctx)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(list) != 1 || list[0].User.Username != "henry" {
		t.Fatalf("unexpected pending list: %+v", list)
	}

	decided, err := repos.Vetting.Decide(ctx, app.ID, usecase.VettingDecisionUpdate{
		Decision:       collective.VettingAccepted,
		Score:          85,
		Comments:       "solid writeup",
		ReviewerUserID: admin.ID,
	})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if decided.Decision != collective.VettingAccepted || decided.Score == nil || *decided.Score != 85 {
		t.Fatalf("unexpected decision: %+v", decided)
	}
	if decided.Links == nil || decided.Links[0] != "https://github.com/henry" {
		t.Fatalf("links not round-tripped: %+v", decided.Links)
	}

	pending, err = repos.Vetting.HasPending(ctx, applicant.ID)
	if err != nil || pending {
		t.Fatalf("expected no pending application, got %v %v", pending, err)
	}
}
