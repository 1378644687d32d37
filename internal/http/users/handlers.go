package users

import (
	"errors"
	"net/http"
	"strings"

	"auditcollective/internal/domain/collective"
	"auditcollective/internal/http/common"
	"auditcollective/internal/usecase"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Service *usecase.Service
}

func NewHandler(service *usecase.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) HandleCurrentUser(c *gin.Context) {
	caller, ok := common.CurrentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, common.ToUserResponse(caller))
}

func (h *Handler) HandleListUsers(c *gin.Context) {
	caller, ok := common.CurrentUser(c)
	if !ok {
		return
	}
	users, err := h.Service.ListUsers(c.Request.Context(), caller)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	resp := make([]common.UserResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, common.ToUserResponse(user))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) HandleUpdateUser(c *gin.Context) {
	caller, ok := common.CurrentUser(c)
	if !ok {
		return
	}
	userID := strings.TrimSpace(c.Param("id"))
	if userID == "" {
		common.WriteErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "id is required")
		return
	}
	var req struct {
		Role   string `json:"role"`
		Tier   string `json:"tier"`
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	user, err := h.Service.UpdateUser(c.Request.Context(), caller, userID, usecase.UpdateUserInput{
		Role:   req.Role,
		Tier:   req.Tier,
		Status: req.Status,
	})
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.ToUserResponse(user))
}

// HandleGetProfile returns null when the user has no profile yet, matching
// the 200-with-empty-body contract the frontend expects.
func (h *Handler) HandleGetProfile(c *gin.Context) {
	if _, ok := common.CurrentUser(c); !ok {
		return
	}
	userID := strings.TrimSpace(c.Param("id"))
	if userID == "" {
		common.WriteErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "id is required")
		return
	}
	profile, err := h.Service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, collective.ErrNotFound) {
			c.JSON(http.StatusOK, nil)
			return
		}
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.ToProfileResponse(profile))
}

func (h *Handler) HandleUpsertOwnProfile(c *gin.Context) {
	caller, ok := common.CurrentUser(c)
	if !ok {
		return
	}
	var req struct {
		Bio        string   `json:"bio"`
		Wallet     string   `json:"wallet"`
		ProofLinks []string `json:"proofLinks"`
		SkillsTags []string `json:"skillsTags"`
		Notes      string   `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	profile, err := h.Service.UpsertOwnProfile(c.Request.Context(), caller, usecase.ProfileInput{
		Bio:        req.Bio,
		Wallet:     req.Wallet,
		ProofLinks: req.ProofLinks,
		SkillsTags: req.SkillsTags,
		Notes:      req.Notes,
	})
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.ToProfileResponse(profile))
}

func (h *Handler) HandleReputationHistory(c *gin.Context) {
	if _, ok := common.CurrentUser(c); !ok {
		return
	}
	userID := strings.TrimSpace(c.Param("id"))
	if userID == "" {
		common.WriteErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "id is required")
		return
	}
	events, err := h.Service.ReputationHistory(c.Request.Context(), userID)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	resp := make([]common.ReputationEventResponse, 0, len(events))
	for _, event := range events {
		resp = append(resp, common.ToReputationEventResponse(event))
	}
	c.JSON(http.StatusOK, resp)
}
