package findings

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

func (h *Handler) HandleListFindings(c *gin.Context) {
	if _, ok := common.CurrentUser(c); !ok {
		return
	}
	auditID, ok := common.ParseIDParam(c, "id")
	if !ok {
		return
	}
	items, err := h.Service.ListFindings(c.Request.Context(), auditID)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	resp := make([]common.FindingResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, common.ToFindingWithAuthorResponse(item))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) HandleCreateFinding(c *gin.Context) {
	caller, ok := common.CurrentUser(c)
	if !ok {
		return
	}
	auditID, ok := common.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Title          string `json:"title"`
		Description    string `json:"description"`
		Severity       string `json:"severity"`
		Category       string `json:"category"`
		ReproSteps     string `json:"reproSteps"`
		Impact         string `json:"impact"`
		Recommendation string `json:"recommendation"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	finding, err := h.Service.CreateFinding(c.Request.Context(), caller, auditID, usecase.CreateFindingInput{
		Title:          req.Title,
		Description:    req.Description,
		Severity:       req.Severity,
		Category:       req.Category,
		ReproSteps:     req.ReproSteps,
		Impact:         req.Impact,
		Recommendation: req.Recommendation,
	})
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.ToFindingResponse(finding))
}

func (h *Handler) HandleGetFinding(c *gin.Context) {
	if _, ok := common.CurrentUser(c); !ok {
		return
	}
	findingID, ok := common.ParseIDParam(c, "id")
	if !ok {
		return
	}
	detail, err := h.Service.GetFinding(c.Request.Context(), findingID)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	reviews := make([]common.ReviewResponse, 0, len(detail.Reviews))
	for _, item := range detail.Reviews {
		reviews = append(reviews, common.ToReviewWithReviewerResponse(item))
	}
	c.JSON(http.StatusOK, gin.H{
		"finding": common.ToFindingResponse(detail.Finding),
		"reviews": reviews,
	})
}

func (h *Handler) HandleReview(c *gin.Context) {
	caller, ok := common.CurrentUser(c)
	if !ok {
		return
	}
	findingID, ok := common.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Decision string `json:"decision"`
		Notes    string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	review, err := h.Service.ReviewFinding(c.Request.Context(), caller, findingID, usecase.FindingReviewInput{
		Decision: req.Decision,
		Notes:    req.Notes,
	})
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.ToReviewResponse(review))
}
