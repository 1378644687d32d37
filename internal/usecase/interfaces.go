package usecase

import (
	"context"

	"auditcollective/internal/domain/collective"
)

// UserPatch is an administrative override; nil fields are left untouched.
type UserPatch struct {
	Role   *collective.Role
	Tier   *collective.Tier
	Status *collective.UserStatus
}

type UserRepository interface {
	Create(ctx context.Context, user collective.User) (collective.User, error)
	Get(ctx context.Context, id string) (collective.User, error)
	GetByUsername(ctx context.Context, username string) (collective.User, error)
	List(ctx context.Context) ([]collective.User, error)
	Update(ctx context.Context, id string, patch UserPatch) (collective.User, error)
	// AddReputation applies the delta as an atomic increment at the storage
	// layer; callers never read-modify-write the cached score.
	AddReputation(ctx context.Context, id string, delta int) error
	Leaderboard(ctx context.Context, limit int) ([]collective.User, error)
	Count(ctx context.Context) (int64, error)
}

type ProfileRepository interface {
	Upsert(ctx context.Context, profile collective.AuditorProfile) (collective.AuditorProfile, error)
	GetByUser(ctx context.Context, userID string) (collective.AuditorProfile, error)
}

type VettingDecisionUpdate struct {
	Decision       collective.VettingDecision
	Score          int
	Comments       string
	ReviewerUserID string
}

type VettingRepository interface {
	Create(ctx context.Context, app collective.VettingApplication) (collective.VettingApplication, error)
	Get(ctx context.Context, id int64) (collective.VettingApplication, error)
	HasPending(ctx context.Context, userID string) (bool, error)
	ListPending(ctx context.Context) ([]VettingApplicationWithUser, error)
	Decide(ctx context.Context, id int64, update VettingDecisionUpdate) (collective.VettingApplication, error)
}

type AuditRepository interface {
	Create(ctx context.Context, audit collective.Audit) (collective.Audit, error)
	Get(ctx context.Context, id int64) (collective.Audit, error)
	List(ctx context.Context) ([]collective.Audit, error)
}

type AssignmentRepository interface {
	// Upsert keys on (auditID, userID); re-assigning an already assigned
	// user updates the assignment type in place.
	Upsert(ctx context.Context, assignment collective.AuditAssignment) (collective.AuditAssignment, error)
	Get(ctx context.Context, auditID int64, userID string) (collective.AuditAssignment, error)
	ListByAudit(ctx context.Context, auditID int64) ([]AssignmentWithUser, error)
}

type FindingRepository interface {
	Create(ctx context.Context, finding collective.Finding) (collective.Finding, error)
	Get(ctx context.Context, id int64) (collective.Finding, error)
	ListByAudit(ctx context.Context, auditID int64) ([]FindingWithAuthor, error)
	UpdateStatus(ctx context.Context, id int64, status collective.FindingStatus) error
	CountByStatus(ctx context.Context) (FindingStats, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review collective.FindingReview) (collective.FindingReview, error)
	ListByFinding(ctx context.Context, findingID int64) ([]ReviewWithReviewer, error)
}

type ReputationRepository interface {
	// Append inserts the ledger row and applies the point delta to the
	// user's cached score in the same statement sequence. It is the only
	// writer of reputation score deltas.
	Append(ctx context.Context, event collective.ReputationEvent) (collective.ReputationEvent, error)
	ListByUser(ctx context.Context, userID string) ([]collective.ReputationEvent, error)
	SumPoints(ctx context.Context, userID string) (int, error)
}

// Repos bundles one repository per aggregate; a Store hands out a Repos
// bound either to its pool or to an open transaction.
type Repos struct {
	Users       UserRepository
	Profiles    ProfileRepository
	Vetting     VettingRepository
	Audits      AuditRepository
	Assignments AssignmentRepository
	Findings    FindingRepository
	Reviews     ReviewRepository
	Reputation  ReputationRepository
}

// Store is the persistence boundary. InTx runs fn against a transactional
// Repos; an error from fn aborts every statement issued inside it, so
// multi-step workflows (vetting decision, finding review) leave no partial
// state.
type Store interface {
	Repos() Repos
	InTx(ctx context.Context, fn func(Repos) error) error
}

type VettingApplicationWithUser struct {
	Application collective.VettingApplication
	User        collective.User
}

type AssignmentWithUser struct {
	Assignment collective.AuditAssignment
	User       collective.User
}

type FindingWithAuthor struct {
	Finding collective.Finding
	Author  collective.User
}

type ReviewWithReviewer struct {
	Review   collective.FindingReview
	Reviewer collective.User
}

type FindingStats struct {
	TotalFindings    int64
	AcceptedFindings int64
	RejectedFindings int64
}
