package stats

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

func (h *Handler) HandleMetrics(c *gin.Context) {
	if _, ok := common.CurrentUser(c); !ok {
		return
	}
	view, err := h.Service.Metrics(c.Request.Context())
	if err != nil {
		common.WriteError(c, err)
		return
	}
	leaderboard := make([]common.UserResponse, 0, len(view.Leaderboard))
	for _, user := range view.Leaderboard {
		leaderboard = append(leaderboard, common.ToUserResponse(user))
	}
	c.JSON(http.StatusOK, gin.H{
		"leaderboard": leaderboard,
		"stats": gin.H{
			"totalFindings":    view.Stats.TotalFindings,
			"acceptedFindings": view.Stats.AcceptedFindings,
			"rejectedFindings": view.Stats.RejectedFindings,
		},
	})
}
