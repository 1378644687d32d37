package vetting

import (
	"net/http"

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

func (h *Handler) HandleApply(c *gin.Context) {
	caller, ok := common.CurrentUser(c)
	if !ok {
		return
	}
	var req struct {
		WriteupText string   `json:"writeupText"`
		Links       []string `json:"links"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	app, err := h.Service.Apply(c.Request.Context(), caller, usecase.ApplyInput{
		WriteupText: req.WriteupText,
		Links:       req.Links,
	})
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.ToApplicationResponse(app))
}

func (h *Handler) HandleListPending(c *gin.Context) {
	caller, ok := common.CurrentUser(c)
	if !ok {
		return
	}
	items, err := h.Service.ListPendingApplications(c.Request.Context(), caller)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	resp := make([]common.ApplicationResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, common.ToApplicationWithUserResponse(item))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) HandleReview(c *gin.Context) {
	caller, ok := common.CurrentUser(c)
	if !ok {
		return
	}
	applicationID, ok := common.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Decision string `json:"decision"`
		Score    int    `json:"score"`
		Comments string `json:"comments"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	app, err := h.Service.ReviewApplication(c.Request.Context(), caller, applicationID, usecase.VettingReviewInput{
		Decision: req.Decision,
		Score:    req.Score,
		Comments: req.Comments,
	})
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.ToApplicationResponse(app))
}
