package http

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"auditcollective/internal/config"
	"auditcollective/internal/domain/collective"
	"auditcollective/internal/http/auth"
	audithttp "auditcollective/internal/http/audits"
	"auditcollective/internal/http/common"
	findinghttp "auditcollective/internal/http/findings"
	statshttp "auditcollective/internal/http/stats"
	userhttp "auditcollective/internal/http/users"
	vettinghttp "auditcollective/internal/http/vetting"
	"auditcollective/internal/metrics"
	"auditcollective/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	cfg           config.Config
	r             *gin.Engine
	service       *usecase.Service
	authenticator common.Authenticator
	rateLimiter   collective.RateLimiter
}

type ServerDeps struct {
	Service       *usecase.Service
	Authenticator common.Authenticator
	RateLimiter   collective.RateLimiter
}

func NewServer(cfg config.Config, store usecase.Store) *Server {
	service := usecase.NewService(store)
	return NewServerWithDeps(cfg, ServerDeps{
		Service:       service,
		Authenticator: auth.NewHeaderAuthenticator(store.Repos().Users),
	})
}

func NewServerWithDeps(cfg config.Config, deps ServerDeps) *Server {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestMetrics())

	s := &Server{
		cfg:           cfg,
		r:             r,
		service:       deps.Service,
		authenticator: deps.Authenticator,
		rateLimiter:   deps.RateLimiter,
	}
	s.routes()
	return s
}

func (s *Server) Run() error {
	addr := s.cfg.HTTPAddr
	if addr == "" {
		addr = ":8080"
	}
	log.Printf("audit collective api listening on %s", addr)
	return s.r.Run(addr)
}

func (s *Server) Handler() http.Handler {
	return s.r
}

func (s *Server) routes() {
	s.r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.r.GET("/metricsz", gin.WrapH(promhttp.Handler()))

	userHandler := userhttp.NewHandler(s.service)
	vettingHandler := vettinghttp.NewHandler(s.service)
	auditHandler := audithttp.NewHandler(s.service)
	findingHandler := findinghttp.NewHandler(s.service)
	statsHandler := statshttp.NewHandler(s.service)

	authed := s.r.Group("/", common.AuthMiddleware(s.authenticator))

	authed.GET("/users/me", userHandler.HandleCurrentUser)
	authed.GET("/users", userHandler.HandleListUsers)
	authed.PATCH("/users/:id", s.rateLimit("users:update"), userHandler.HandleUpdateUser)
	authed.GET("/users/:id/profile", userHandler.HandleGetProfile)
	authed.PUT("/users/me/profile", s.rateLimit("users:profile"), userHandler.HandleUpsertOwnProfile)
	authed.GET("/users/:id/reputation", userHandler.HandleReputationHistory)

	authed.POST("/vetting/apply", s.rateLimit("vetting:apply"), vettingHandler.HandleApply)
	authed.GET("/vetting", vettingHandler.HandleListPending)
	authed.POST("/vetting/:id/review", s.rateLimit("vetting:review"), vettingHandler.HandleReview)

	authed.GET("/audits", auditHandler.HandleListAudits)
	authed.POST("/audits", s.rateLimit("audits:create"), auditHandler.HandleCreateAudit)
	authed.GET("/audits/:id", auditHandler.HandleGetAudit)
	authed.POST("/audits/:id/assign", s.rateLimit("audits:assign"), auditHandler.HandleAssign)
	authed.GET("/audits/:id/findings", findingHandler.HandleListFindings)
	authed.POST("/audits/:id/findings", s.rateLimit("findings:create"), findingHandler.HandleCreateFinding)

	authed.GET("/findings/:id", findingHandler.HandleGetFinding)
	authed.POST("/findings/:id/review", s.rateLimit("findings:review"), findingHandler.HandleReview)

	authed.GET("/metrics", statsHandler.HandleMetrics)
}

// rateLimit applies a fixed-window limit keyed by caller and route. With no
// limiter configured, or a zero request budget, it is a no-op.
func (s *Server) rateLimit(routeID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.rateLimiter == nil || s.cfg.RateLimitRequests <= 0 {
			c.Next()
			return
		}
		caller, ok := common.CurrentUser(c)
		if !ok {
			return
		}
		key := "user:" + caller.ID + ":endpoint:" + routeID
		decision, err := s.rateLimiter.Allow(c.Request.Context(), key, s.cfg.RateLimitRequests, s.cfg.RateLimitWindow())
		if err != nil {
			if s.cfg.RateLimitFailClosed {
				common.WriteErrorCode(c, http.StatusTooManyRequests, "RATE_LIMIT_UNAVAILABLE", "rate limiter unavailable")
				return
			}
			c.Next()
			return
		}
		writeRateLimitHeaders(c, decision)
		if !decision.Allowed {
			common.WriteErrorCode(c, http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded")
			return
		}
		c.Next()
	}
}

func writeRateLimitHeaders(c *gin.Context, decision collective.RateLimitDecision) {
	if decision.Limit > 0 {
		c.Header("RateLimit-Limit", strconv.Itoa(decision.Limit))
	}
	if decision.Remaining >= 0 {
		c.Header("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	}
	if !decision.ResetAt.IsZero() {
		c.Header("RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))
		if !decision.Allowed {
			retryAfter := int64(time.Until(decision.ResetAt).Seconds())
			if retryAfter < 0 {
				retryAfter = 0
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
		}
	}
}

func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
