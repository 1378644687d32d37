package usecase_test

import (
	"context"
	"testing"
	"time"

	"auditcollective/internal/domain/collective"
	"auditcollective/internal/repo/memory"
	"auditcollective/internal/usecase"
)

func newService(t *testing.T) (*usecase.Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	service := usecase.NewService(store)
	service.Clock = func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	return service, store
}

func mkUser(t *testing.T, store *memory.Store, username string, role collective.Role, tier collective.Tier) collective.User {
	t.Helper()
	user, err := store.Repos().Users.Create(context.Background(), collective.User{
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

func mkAudit(t *testing.T, service *usecase.Service, admin collective.User) collective.Audit {
	t.Helper()
	audit, err := service.CreateAudit(context.Background(), admin, usecase.CreateAuditInput{
		Title:      "Lending Pool Audit",
		ClientName: "Acme DeFi",
		ScopeText:  "contracts/pool",
	})
	if err != nil {
		t.Fatalf("create audit: %v", err)
	}
	return audit
}

func assign(t *testing.T, service *usecase.Service, admin collective.User, auditID int64, userID string, kind collective.AssignmentType) {
	t.Helper()
	_, err := service.AssignUser(context.Background(), admin, auditID, usecase.AssignInput{
		UserID:         userID,
		AssignmentType: string(kind),
	})
	if err != nil {
		t.Fatalf("assign user: %v", err)
	}
}

func mkFinding(t *testing.T, service *usecase.Service, author collective.User, auditID int64) collective.Finding {
	t.Helper()
	finding, err := service.CreateFinding(context.Background(), author, auditID, usecase.CreateFindingInput{
		Title:       "Unchecked external call",
		Description: "Return value of call() is ignored.",
		Severity:    string(collective.SeverityHigh),
	})
	if err != nil {
		t.Fatalf("create finding: %v", err)
	}
	return finding
}

func score(t *testing.T, store *memory.Store, userID string) int {
	t.Helper()
	user, err := store.Repos().Users.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	return user.ReputationScore
}

func ledgerSum(t *testing.T, store *memory.Store, userID string) int {
	t.Helper()
	sum, err := store.Repos().Reputation.SumPoints(context.Background(), userID)
	if err != nil {
		t.Fatalf("sum points: %v", err)
	}
	return sum
}
