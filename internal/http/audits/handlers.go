package audits

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

func (h *Handler) HandleListAudits(c *gin.Context) {
	if _, ok := common.CurrentUser(c); !ok {
		return
	}
	audits, err := h.Service.ListAudits(c.Request.Context())
	if err != nil {
		common.WriteError(c, err)
		return
	}
	resp := make([]common.AuditResponse, 0, len(audits))
	for _, audit := range audits {
		resp = append(resp, common.ToAuditResponse(audit))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) HandleCreateAudit(c *gin.Context) {
	caller, ok := common.CurrentUser(c)
	if !ok {
		return
	}
	var req struct {
		Title      string `json:"title"`
		ClientName string `json:"clientName"`
		ScopeText  string `json:"scopeText"`
		RepoURL    string `json:"repoUrl"`
		Chain      string `json:"chain"`
		Status     string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	audit, err := h.Service.CreateAudit(c.Request.Context(), caller, usecase.CreateAuditInput{
		Title:      req.Title,
		ClientName: req.ClientName,
		ScopeText:  req.ScopeText,
		RepoURL:    req.RepoURL,
		Chain:      req.Chain,
		Status:     req.Status,
	})
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.ToAuditResponse(audit))
}

func (h *Handler) HandleGetAudit(c *gin.Context) {
	if _, ok := common.CurrentUser(c); !ok {
		return
	}
	auditID, ok := common.ParseIDParam(c, "id")
	if !ok {
		return
	}
	detail, err := h.Service.GetAudit(c.Request.Context(), auditID)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	assignments := make([]common.AssignmentResponse, 0, len(detail.Assignments))
	for _, item := range detail.Assignments {
		assignments = append(assignments, common.ToAssignmentWithUserResponse(item))
	}
	c.JSON(http.StatusOK, gin.H{
		"audit":       common.ToAuditResponse(detail.Audit),
		"assignments": assignments,
	})
}

func (h *Handler) HandleAssign(c *gin.Context) {
	caller, ok := common.CurrentUser(c)
	if !ok {
		return
	}
	auditID, ok := common.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		UserID         string `json:"userId"`
		AssignmentType string `json:"assignmentType"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	if req.UserID == "" {
		common.WriteErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "userId is required")
		return
	}
	assignment, err := h.Service.AssignUser(c.Request.Context(), caller, auditID, usecase.AssignInput{
		UserID:         req.UserID,
		AssignmentType: req.AssignmentType,
	})
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.ToAssignmentResponse(assignment))
}
