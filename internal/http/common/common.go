package common

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"auditcollective/internal/domain/collective"
	"auditcollective/internal/usecase"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "current_user"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Authenticator resolves the caller from the request; the fronting session
// layer is expected to have set the identity headers already.
type Authenticator interface {
	Authenticate(*gin.Context) (collective.User, error)
}

func AuthMiddleware(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authenticator == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Code: "INTERNAL", Message: "auth misconfigured"})
			return
		}
		user, err := authenticator.Authenticate(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Code: "UNAUTHORIZED", Message: "authentication required"})
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (collective.User, bool) {
	value, ok := c.Get(currentUserKey)
	if !ok {
		WriteErrorCode(c, http.StatusInternalServerError, "INTERNAL", "current user missing")
		return collective.User{}, false
	}
	user, ok := value.(collective.User)
	if !ok {
		WriteErrorCode(c, http.StatusInternalServerError, "INTERNAL", "current user invalid")
		return collective.User{}, false
	}
	return user, true
}

func ParseIDParam(c *gin.Context, name string) (int64, bool) {
	value := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		WriteErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

func WriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, collective.ErrUnauthorized):
		WriteErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	case errors.Is(err, collective.ErrForbidden):
		WriteErrorCode(c, http.StatusForbidden, "FORBIDDEN", "forbidden")
	case errors.Is(err, collective.ErrNotFound):
		WriteErrorCode(c, http.StatusNotFound, "NOT_FOUND", "not found")
	case errors.Is(err, collective.ErrConflict):
		WriteErrorCode(c, http.StatusConflict, "CONFLICT", "conflict")
	case errors.Is(err, collective.ErrInvalidArgument):
		WriteErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid argument")
	default:
		WriteErrorCode(c, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

func WriteErrorCode(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Code: code, Message: message})
}

type UserResponse struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	FirstName       string `json:"firstName,omitempty"`
	LastName        string `json:"lastName,omitempty"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
	Role            string `json:"role"`
	Tier            string `json:"tier"`
	Status          string `json:"status"`
	ReputationScore int    `json:"reputationScore"`
	CreatedAt       string `json:"createdAt"`
}

type ProfileResponse struct {
	ID         int64    `json:"id"`
	UserID     string   `json:"userId"`
	Bio        string   `json:"bio,omitempty"`
	Wallet     string   `json:"wallet,omitempty"`
	ProofLinks []string `json:"proofLinks"`
	SkillsTags []string `json:"skillsTags"`
	Notes      string   `json:"notes,omitempty"`
}

type ApplicationResponse struct {
	ID             int64         `json:"id"`
	UserID         string        `json:"userId"`
	SubmittedAt    string        `json:"submittedAt"`
	Links          []string      `json:"links"`
	WriteupText    string        `json:"writeupText"`
	Score          *int          `json:"score,omitempty"`
	Decision       string        `json:"decision"`
	ReviewerUserID string        `json:"reviewerUserId,omitempty"`
	Comments       string        `json:"comments,omitempty"`
	User           *UserResponse `json:"user,omitempty"`
}

type AuditResponse struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	ClientName string `json:"clientName"`
	ScopeText  string `json:"scopeText"`
	RepoURL    string `json:"repoUrl,omitempty"`
	Chain      string `json:"chain,omitempty"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
}

type AssignmentResponse struct {
	ID             int64         `json:"id"`
	AuditID        int64         `json:"auditId"`
	UserID         string        `json:"userId"`
	AssignmentType string        `json:"assignmentType"`
	CreatedAt      string        `json:"createdAt"`
	User           *UserResponse `json:"user,omitempty"`
}

type FindingResponse struct {
	ID              int64         `json:"id"`
	AuditID         int64         `json:"auditId"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Severity        string        `json:"severity"`
	Category        string        `json:"category,omitempty"`
	ReproSteps      string        `json:"reproSteps,omitempty"`
	Impact          string        `json:"impact,omitempty"`
	Recommendation  string        `json:"recommendation,omitempty"`
	Status          string        `json:"status"`
	CreatedByUserID string        `json:"createdByUserId"`
	CreatedAt       string        `json:"createdAt"`
	Author          *UserResponse `json:"author,omitempty"`
}

type ReviewResponse struct {
	ID             int64         `json:"id"`
	FindingID      int64         `json:"findingId"`
	ReviewerUserID string        `json:"reviewerUserId"`
	Decision       string        `json:"decision"`
	Notes          string        `json:"notes,omitempty"`
	CreatedAt      string        `json:"createdAt"`
	Reviewer       *UserResponse `json:"reviewer,omitempty"`
}

type ReputationEventResponse struct {
	ID        int64  `json:"id"`
	UserID    string `json:"userId"`
	Type      string `json:"type"`
	Points    int    `json:"points"`
	AuditID   *int64 `json:"auditId,omitempty"`
	FindingID *int64 `json:"findingId,omitempty"`
	CreatedAt string `json:"createdAt"`
}

func ToUserResponse(user collective.User) UserResponse {
	return UserResponse{
		ID:              user.ID,
		Email:           user.Email,
		Username:        user.Username,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		ProfileImageURL: user.ProfileImageURL,
		Role:            string(user.Role),
		Tier:            string(user.Tier),
		Status:          string(user.Status),
		ReputationScore: user.ReputationScore,
		CreatedAt:       formatTime(user.CreatedAt),
	}
}

func ToProfileResponse(profile collective.AuditorProfile) ProfileResponse {
	return ProfileResponse{
		ID:         profile.ID,
		UserID:     profile.UserID,
		Bio:        profile.Bio,
		Wallet:     profile.Wallet,
		ProofLinks: emptyIfNil(profile.ProofLinks),
		SkillsTags: emptyIfNil(profile.SkillsTags),
		Notes:      profile.Notes,
	}
}

func ToApplicationResponse(app collective.VettingApplication) ApplicationResponse {
	return ApplicationResponse{
		ID:             app.ID,
		UserID:         app.UserID,
		SubmittedAt:    formatTime(app.SubmittedAt),
		Links:          emptyIfNil(app.Links),
		WriteupText:    app.WriteupText,
		Score:          app.Score,
		Decision:       string(app.Decision),
		ReviewerUserID: app.ReviewerUserID,
		Comments:       app.Comments,
	}
}

func ToApplicationWithUserResponse(item usecase.VettingApplicationWithUser) ApplicationResponse {
	resp := ToApplicationResponse(item.Application)
	if item.User.ID != "" {
		user := ToUserResponse(item.User)
		resp.User = &user
	}
	return resp
}

func ToAuditResponse(audit collective.Audit) AuditResponse {
	return AuditResponse{
		ID:         audit.ID,
		Title:      audit.Title,
		ClientName: audit.ClientName,
		ScopeText:  audit.ScopeText,
		RepoURL:    audit.RepoURL,
		Chain:      audit.Chain,
		Status:     string(audit.Status),
		CreatedAt:  formatTime(audit.CreatedAt),
	}
}

func ToAssignmentResponse(assignment collective.AuditAssignment) AssignmentResponse {
	return AssignmentResponse{
		ID:             assignment.ID,
		AuditID:        assignment.AuditID,
		UserID:         assignment.UserID,
		AssignmentType: string(assignment.AssignmentType),
		CreatedAt:      formatTime(assignment.CreatedAt),
	}
}

func ToAssignmentWithUserResponse(item usecase.AssignmentWithUser) AssignmentResponse {
	resp := ToAssignmentResponse(item.Assignment)
	if item.User.ID != "" {
		user := ToUserResponse(item.User)
		resp.User = &user
	}
	return resp
}

func ToFindingResponse(finding collective.Finding) FindingResponse {
	return FindingResponse{
		ID:              finding.ID,
		AuditID:         finding.AuditID,
		Title:           finding.Title,
		Description:     finding.Description,
		Severity:        string(finding.Severity),
		Category:        finding.Category,
		ReproSteps:      finding.ReproSteps,
		Impact:          finding.Impact,
		Recommendation:  finding.Recommendation,
		Status:          string(finding.Status),
		CreatedByUserID: finding.CreatedByUserID,
		CreatedAt:       formatTime(finding.CreatedAt),
	}
}

func ToFindingWithAuthorResponse(item usecase.FindingWithAuthor) FindingResponse {
	resp := ToFindingResponse(item.Finding)
	if item.Author.ID != "" {
		author := ToUserResponse(item.Author)
		resp.Author = &author
	}
	return resp
}

func ToReviewResponse(review collective.FindingReview) ReviewResponse {
	return ReviewResponse{
		ID:             review.ID,
		FindingID:      review.FindingID,
		ReviewerUserID: review.ReviewerUserID,
		Decision:       string(review.Decision),
		Notes:          review.Notes,
		CreatedAt:      formatTime(review.CreatedAt),
	}
}

func ToReviewWithReviewerResponse(item usecase.ReviewWithReviewer) ReviewResponse {
	resp := ToReviewResponse(item.Review)
	if item.Reviewer.ID != "" {
		reviewer := ToUserResponse(item.Reviewer)
		resp.Reviewer = &reviewer
	}
	return resp
}

func ToReputationEventResponse(event collective.ReputationEvent) ReputationEventResponse {
	return ReputationEventResponse{
		ID:        event.ID,
		UserID:    event.UserID,
		Type:      string(event.Type),
		Points:    event.Points,
		AuditID:   event.AuditID,
		FindingID: event.FindingID,
		CreatedAt: formatTime(event.CreatedAt),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
