package api

import (
	"net/http"
	"time"

	models "RiskPulse/internal/domain/models"
	drepo "RiskPulse/internal/domain/repository"
	icache "RiskPulse/internal/service/cache"
	"RiskPulse/internal/service/ratelimit"
	"RiskPulse/internal/usecase"
	xhttp "RiskPulse/pkg/http"
	xlogger "RiskPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

const reportCacheTTL = 30 * time.Second

// AnalysisHandler serves the latest run output, the HTML report, and
// on-demand scoring of caller-supplied snapshots.
type AnalysisHandler struct {
	logger *xlogger.Logger
	store  drepo.SnapshotStore
	scorer *usecase.Scorer
	cache  icache.BytesCache
	rl     *ratelimit.Limiter
}

func NewAnalysisHandler(logger *xlogger.Logger, store drepo.SnapshotStore, scorer *usecase.Scorer) *AnalysisHandler {
	return &AnalysisHandler{
		logger: logger,
		store:  store,
		scorer: scorer,
		cache:  icache.NewTTLCache(),
		rl:     ratelimit.New(),
	}
}

// SetCache replaces the default in-process report cache, e.g. with a shared
// Redis-backed one.
func (h *AnalysisHandler) SetCache(c icache.BytesCache) { h.cache = c }

func (h *AnalysisHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/analysis", h.Analysis)
	g.GET("/snapshot", h.Snapshot)
	g.GET("/report", h.Report)
	g.POST("/score", h.Score)
	e.GET("/healthz", h.Health)
}

// Analysis returns the latest scored run.
func (h *AnalysisHandler) Analysis(c echo.Context) error {
	a, err := h.store.LoadAnalysis(c.Request().Context())
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no analysis produced yet"))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, a)
}

// Snapshot returns the raw collected data behind the latest run.
func (h *AnalysisHandler) Snapshot(c echo.Context) error {
	d, err := h.store.LoadSnapshot(c.Request().Context())
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no snapshot collected yet"))
	}
	return xhttp.SuccessResponse(c, d)
}

// Report serves the rendered HTML summary. The render on disk only changes
// once per refresh cycle, so a short TTL cache absorbs dashboard polling.
func (h *AnalysisHandler) Report(c echo.Context) error {
	if b, ok, _ := h.cache.GetBytes("report"); ok {
		return c.HTMLBlob(http.StatusOK, b)
	}
	b, err := h.store.LoadReport(c.Request().Context())
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no report rendered yet"))
	}
	if err := h.cache.SetBytes("report", b, reportCacheTTL); err != nil {
		h.logger.Warn("report cache set failed", xlogger.Error(err))
	}
	return c.HTMLBlob(http.StatusOK, b)
}

// Score evaluates a caller-supplied snapshot set without touching stored
// state. Scoring is cheap but unauthenticated, so it is rate limited per
// client address.
func (h *AnalysisHandler) Score(c echo.Context) error {
	if !h.rl.Allow(c.RealIP()+":score", 10, 5) {
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("rate_limited", "", "too many scoring requests", http.StatusTooManyRequests))
	}

	req := &models.ScoreRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	a, err := h.scorer.Score(req)
	if err != nil {
		h.logger.Warn("score request rejected", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	}
	return xhttp.SuccessResponse(c, a)
}

func (h *AnalysisHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}
