package collective

import (
	"errors"
	"time"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleAuditor Role = "auditor"
	RoleClient  Role = "client"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAuditor, RoleClient:
		return true
	}
	return false
}

// Tier is a user's seniority level, distinct from role. It gates review
// privileges only; role never enters the tier check.
type Tier string

const (
	TierObserver    Tier = "observer"
	TierContributor Tier = "contributor"
	TierReviewer    Tier = "reviewer"
	TierLead        Tier = "lead"
	TierCore        Tier = "core"
)

var tierRank = map[Tier]int{
	TierObserver:    0,
	TierContributor: 1,
	TierReviewer:    2,
	TierLead:        3,
	TierCore:        4,
}

func (t Tier) Valid() bool {
	_, ok := tierRank[t]
	return ok
}

func (t Tier) AtLeast(min Tier) bool {
	rank, ok := tierRank[t]
	minRank, minOK := tierRank[min]
	return ok && minOK && rank >= minRank
}

type UserStatus string

const (
	StatusApplied   UserStatus = "applied"
	StatusProbation UserStatus = "probation"
	StatusActive    UserStatus = "active"
	StatusRemoved   UserStatus = "removed"
)

func (s UserStatus) Valid() bool {
	switch s {
	case StatusApplied, StatusProbation, StatusActive, StatusRemoved:
		return true
	}
	return false
}

type AuditStatus string

const (
	AuditIntake     AuditStatus = "intake"
	AuditInProgress AuditStatus = "in_progress"
	AuditReview     AuditStatus = "review"
	AuditFinalized  AuditStatus = "finalized"
)

func (s AuditStatus) Valid() bool {
	switch s {
	case AuditIntake, AuditInProgress, AuditReview, AuditFinalized:
		return true
	}
	return false
}

type AssignmentType string

const (
	AssignmentLead     AssignmentType = "lead"
	AssignmentReviewer AssignmentType = "reviewer"
)

func (t AssignmentType) Valid() bool {
	return t == AssignmentLead || t == AssignmentReviewer
}

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// FindingStatus is the finding state machine: draft -> needs_review ->
// approved/rejected. A request_changes review returns any state to
// needs_review, so the machine is cyclic by design of the workflow.
type FindingStatus string

const (
	FindingDraft       FindingStatus = "draft"
	FindingNeedsReview FindingStatus = "needs_review"
	FindingApproved    FindingStatus = "approved"
	FindingRejected    FindingStatus = "rejected"
)

func (s FindingStatus) Valid() bool {
	switch s {
	case FindingDraft, FindingNeedsReview, FindingApproved, FindingRejected:
		return true
	}
	return false
}

type ReviewDecision string

const (
	DecisionApprove        ReviewDecision = "approve"
	DecisionReject         ReviewDecision = "reject"
	DecisionRequestChanges ReviewDecision = "request_changes"
)

func (d ReviewDecision) Valid() bool {
	switch d {
	case DecisionApprove, DecisionReject, DecisionRequestChanges:
		return true
	}
	return false
}

type VettingDecision string

const (
	VettingPending  VettingDecision = "pending"
	VettingAccepted VettingDecision = "accepted"
	VettingRejected VettingDecision = "rejected"
)

type EventType string

const (
	EventFindingAccepted     EventType = "finding_accepted"
	EventFindingRejected     EventType = "finding_rejected"
	EventReviewCompleted     EventType = "review_completed"
	EventFalsePositiveCaught EventType = "false_positive_caught"
	EventEscalationResolved  EventType = "escalation_resolved"
)

// Point deltas emitted by the finding review transition.
const (
	PointsFindingAccepted = 5
	PointsFindingRejected = -3
	PointsReviewCompleted = 2
)

type User struct {
	ID              string
	Email           string
	Username        string
	FirstName       string
	LastName        string
	ProfileImageURL string
	Role            Role
	Tier            Tier
	Status          UserStatus
	ReputationScore int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type AuditorProfile struct {
	ID         int64
	UserID     string
	Bio        string
	Wallet     string
	ProofLinks []string
	SkillsTags []string
	Notes      string
}

type VettingApplication struct {
	ID             int64
	UserID         string
	SubmittedAt    time.Time
	Links          []string
	WriteupText    string
	Score          *int
	Decision       VettingDecision
	ReviewerUserID string
	Comments       string
}

type Audit struct {
	ID         int64
	Title      string
	ClientName string
	ScopeText  string
	RepoURL    string
	Chain      string
	Status     AuditStatus
	CreatedAt  time.Time
}

type AuditAssignment struct {
	ID             int64
	AuditID        int64
	UserID         string
	AssignmentType AssignmentType
	CreatedAt      time.Time
}

type Finding struct {
	ID              int64
	AuditID         int64
	Title           string
	Description     string
	Severity        Severity
	Category        string
	ReproSteps      string
	Impact          string
	Recommendation  string
	Status          FindingStatus
	CreatedByUserID string
	CreatedAt       time.Time
}

type FindingReview struct {
	ID             int64
	FindingID      int64
	ReviewerUserID string
	Decision       ReviewDecision
	Notes          string
	CreatedAt      time.Time
}

// ReputationEvent is an append-only ledger row. The ledger is the single
// source of truth for score changes; User.ReputationScore is the cached
// aggregate and must always equal the sum of the user's event points.
type ReputationEvent struct {
	ID        int64
	UserID    string
	Type      EventType
	Points    int
	AuditID   *int64
	FindingID *int64
	CreatedAt time.Time
}

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInternal        = errors.New("internal error")
)
