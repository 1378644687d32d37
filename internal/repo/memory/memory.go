// Package memory provides an in-process implementation of the repository
// set. It backs unit tests and the no-DSN development mode; InTx offers no
// rollback, so it is not a substitute for Postgres in production.
package memory

import (
	"context"
	"sort"
	"sync"

	"auditcollective/internal/domain/collective"
	"auditcollective/internal/usecase"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.Mutex

	users       []collective.User
	profiles    []collective.AuditorProfile
	vetting     []collective.VettingApplication
	audits      []collective.Audit
	assignments []collective.AuditAssignment
	findings    []collective.Finding
	reviews     []collective.FindingReview
	events      []collective.ReputationEvent

	nextProfileID    int64
	nextVettingID    int64
	nextAuditID      int64
	nextAssignmentID int64
	nextFindingID    int64
	nextReviewID     int64
	nextEventID      int64
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Repos() usecase.Repos {
	return usecase.Repos{
		Users:       &userRepo{s},
		Profiles:    &profileRepo{s},
		Vetting:     &vettingRepo{s},
		Audits:      &auditRepo{s},
		Assignments: &assignmentRepo{s},
		Findings:    &findingRepo{s},
		Reviews:     &reviewRepo{s},
		Reputation:  &reputationRepo{s},
	}
}

func (s *Store) InTx(ctx context.Context, fn func(usecase.Repos) error) error {
	return fn(s.Repos())
}

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, user collective.User) (collective.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	for _, existing := range r.s.users {
		if existing.ID == user.ID {
			return collective.User{}, collective.ErrConflict
		}
		if user.Username != "" && existing.Username == user.Username {
			return collective.User{}, collective.ErrConflict
		}
	}
	r.s.users = append(r.s.users, user)
	return user, nil
}

func (r *userRepo) Get(ctx context.Context, id string) (collective.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return collective.User{}, collective.ErrNotFound
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (collective.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return collective.User{}, collective.ErrNotFound
}

func (r *userRepo) List(ctx context.Context) ([]collective.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]collective.User, len(r.s.users))
	copy(out, r.s.users)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *userRepo) Update(ctx context.Context, id string, patch usecase.UserPatch) (collective.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if r.s.users[i].ID != id {
			continue
		}
		if patch.Role != nil {
			r.s.users[i].Role = *patch.Role
		}
		if patch.Tier != nil {
			r.s.users[i].Tier = *patch.Tier
		}
		if patch.Status != nil {
			r.s.users[i].Status = *patch.Status
		}
		return r.s.users[i], nil
	}
	return collective.User{}, collective.ErrNotFound
}

func (r *userRepo) AddReputation(ctx context.Context, id string, delta int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if r.s.users[i].ID == id {
			r.s.users[i].ReputationScore += delta
			return nil
		}
	}
	return collective.ErrNotFound
}

func (r *userRepo) Leaderboard(ctx context.Context, limit int) ([]collective.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]collective.User, 0, len(r.s.users))
	for _, user := range r.s.users {
		if user.Role == collective.RoleAuditor {
			out = append(out, user)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ReputationScore != out[j].ReputationScore {
			return out[i].ReputationScore > out[j].ReputationScore
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *userRepo) Count(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.users)), nil
}

type profileRepo struct{ s *Store }

func (r *profileRepo) Upsert(ctx context.Context, profile collective.AuditorProfile) (collective.AuditorProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.profiles {
		if r.s.profiles[i].UserID == profile.UserID {
			profile.ID = r.s.profiles[i].ID
			r.s.profiles[i] = profile
			return profile, nil
		}
	}
	r.s.nextProfileID++
	profile.ID = r.s.nextProfileID
	r.s.profiles = append(r.s.profiles, profile)
	return profile, nil
}

func (r *profileRepo) GetByUser(ctx context.Context, userID string) (collective.AuditorProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, profile := range r.s.profiles {
		if profile.UserID == userID {
			return profile, nil
		}
	}
	return collective.AuditorProfile{}, collective.ErrNotFound
}

type vettingRepo struct{ s *Store }

func (r *vettingRepo) Create(ctx context.Context, app collective.VettingApplication) (collective.VettingApplication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextVettingID++
	app.ID = r.s.nextVettingID
	r.s.vetting = append(r.s.vetting, app)
	return app, nil
}

func (r *vettingRepo) Get(ctx context.Context, id int64) (collective.VettingApplication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, app := range r.s.vetting {
		if app.ID == id {
			return app, nil
		}
	}
	return collective.VettingApplication{}, collective.ErrNotFound
}

func (r *vettingRepo) HasPending(ctx context.Context, userID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, app := range r.s.vetting {
		if app.UserID == userID && app.Decision == collective.VettingPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *vettingRepo) ListPending(ctx context.Context) ([]usecase.VettingApplicationWithUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []usecase.VettingApplicationWithUser
	for _, app := range r.s.vetting {
		if app.Decision != collective.VettingPending {
			continue
		}
		for _, user := range r.s.users {
			if user.ID == app.UserID {
				out = append(out, usecase.VettingApplicationWithUser{Application: app, User: user})
				break
			}
		}
	}
	return out, nil
}

func (r *vettingRepo) Decide(ctx context.Context, id int64, update usecase.VettingDecisionUpdate) (collective.VettingApplication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.vetting {
		if r.s.vetting[i].ID != id {
			continue
		}
		score := update.Score
		r.s.vetting[i].Decision = update.Decision
		r.s.vetting[i].Score = &score
		r.s.vetting[i].Comments = update.Comments
		r.s.vetting[i].ReviewerUserID = update.ReviewerUserID
		return r.s.vetting[i], nil
	}
	return collective.VettingApplication{}, collective.ErrNotFound
}

type auditRepo struct{ s *Store }

func (r *auditRepo) Create(ctx context.Context, audit collective.Audit) (collective.Audit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextAuditID++
	audit.ID = r.s.nextAuditID
	r.s.audits = append(r.s.audits, audit)
	return audit, nil
}

func (r *auditRepo) Get(ctx context.Context, id int64) (collective.Audit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, audit := range r.s.audits {
		if audit.ID == id {
			return audit, nil
		}
	}
	return collective.Audit{}, collective.ErrNotFound
}

func (r *auditRepo) List(ctx context.Context) ([]collective.Audit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]collective.Audit, len(r.s.audits))
	copy(out, r.s.audits)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

type assignmentRepo struct{ s *Store }

func (r *assignmentRepo) Upsert(ctx context.Context, assignment collective.AuditAssignment) (collective.AuditAssignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.assignments {
		if r.s.assignments[i].AuditID == assignment.AuditID && r.s.assignments[i].UserID == assignment.UserID {
			r.s.assignments[i].AssignmentType = assignment.AssignmentType
			return r.s.assignments[i], nil
		}
	}
	r.s.nextAssignmentID++
	assignment.ID = r.s.nextAssignmentID
	r.s.assignments = append(r.s.assignments, assignment)
	return assignment, nil
}

func (r *assignmentRepo) Get(ctx context.Context, auditID int64, userID string) (collective.AuditAssignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, assignment := range r.s.assignments {
		if assignment.AuditID == auditID && assignment.UserID == userID {
			return assignment, nil
		}
	}
	return collective.AuditAssignment{}, collective.ErrNotFound
}

func (r *assignmentRepo) ListByAudit(ctx context.Context, auditID int64) ([]usecase.AssignmentWithUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []usecase.AssignmentWithUser
	for _, assignment := range r.s.assignments {
		if assignment.AuditID != auditID {
			continue
		}
		for _, user := range r.s.users {
			if user.ID == assignment.UserID {
				out = append(out, usecase.AssignmentWithUser{Assignment: assignment, User: user})
				break
			}
		}
	}
	return out, nil
}

type findingRepo struct{ s *Store }

func (r *findingRepo) Create(ctx context.Context, finding collective.Finding) (collective.Finding, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextFindingID++
	finding.ID = r.s.nextFindingID
	r.s.findings = append(r.s.findings, finding)
	return finding, nil
}

func (r *findingRepo) Get(ctx context.Context, id int64) (collective.Finding, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, finding := range r.s.findings {
		if finding.ID == id {
			return finding, nil
		}
	}
	return collective.Finding{}, collective.ErrNotFound
}

func (r *findingRepo) ListByAudit(ctx context.Context, auditID int64) ([]usecase.FindingWithAuthor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []usecase.FindingWithAuthor
	for _, finding := range r.s.findings {
		if finding.AuditID != auditID {
			continue
		}
		item := usecase.FindingWithAuthor{Finding: finding}
		for _, user := range r.s.users {
			if user.ID == finding.CreatedByUserID {
				item.Author = user
				break
			}
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Finding.CreatedAt.After(out[j].Finding.CreatedAt)
	})
	return out, nil
}

func (r *findingRepo) UpdateStatus(ctx context.Context, id int64, status collective.FindingStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.findings {
		if r.s.findings[i].ID == id {
			r.s.findings[i].Status = status
			return nil
		}
	}
	return collective.ErrNotFound
}

func (r *findingRepo) CountByStatus(ctx context.Context) (usecase.FindingStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var stats usecase.FindingStats
	for _, finding := range r.s.findings {
		stats.TotalFindings++
		switch finding.Status {
		case collective.FindingApproved:
			stats.AcceptedFindings++
		case collective.FindingRejected:
			stats.RejectedFindings++
		}
	}
	return stats, nil
}

type reviewRepo struct{ s *Store }

func (r *reviewRepo) Create(ctx context.Context, review collective.FindingReview) (collective.FindingReview, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextReviewID++
	review.ID = r.s.nextReviewID
	r.s.reviews = append(r.s.reviews, review)
	return review, nil
}

func (r *reviewRepo) ListByFinding(ctx context.Context, findingID int64) ([]usecase.ReviewWithReviewer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []usecase.ReviewWithReviewer
	for _, review := range r.s.reviews {
		if review.FindingID != findingID {
			continue
		}
		item := usecase.ReviewWithReviewer{Review: review}
		for _, user := range r.s.users {
			if user.ID == review.ReviewerUserID {
				item.Reviewer = user
				break
			}
		}
		out = append(out, item)
	}
	return out, nil
}

type reputationRepo struct{ s *Store }

func (r *reputationRepo) Append(ctx context.Context, event collective.ReputationEvent) (collective.ReputationEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	found := false
	for i := range r.s.users {
		if r.s.users[i].ID == event.UserID {
			r.s.users[i].ReputationScore += event.Points
			found = true
			break
		}
	}
	if !found {
		return collective.ReputationEvent{}, collective.ErrNotFound
	}
	r.s.nextEventID++
	event.ID = r.s.nextEventID
	r.s.events = append(r.s.events, event)
	return event, nil
}

func (r *reputationRepo) ListByUser(ctx context.Context, userID string) ([]collective.ReputationEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []collective.ReputationEvent
	for _, event := range r.s.events {
		if event.UserID == userID {
			out = append(out, event)
		}
	}
	return out, nil
}

func (r *reputationRepo) SumPoints(ctx context.Context, userID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sum := 0
	for _, event := range r.s.events {
		if event.UserID == userID {
			sum += event.Points
		}
	}
	return sum, nil
}
