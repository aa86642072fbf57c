package api

import (
	"time"

	models "VolSentry/internal/domain/models"
	"VolSentry/internal/usecase"
	xhttp "VolSentry/pkg/http"
	xlogger "VolSentry/pkg/logger"
	"VolSentry/pkg/util"

	"github.com/labstack/echo/v4"
)

// DecisionEchoHandler exposes the decision engine over HTTP. Evaluate runs
// the full pipeline for one tick; the remaining routes are read-only views
// and reference-lifecycle resets.
type DecisionEchoHandler struct {
	logger *xlogger.Logger
	eval   *usecase.Evaluator
}

func NewDecisionEchoHandler(logger *xlogger.Logger, eval *usecase.Evaluator) *DecisionEchoHandler {
	return &DecisionEchoHandler{logger: logger, eval: eval}
}

func (h *DecisionEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/evaluate", h.Evaluate)
	g.POST("/rank", h.Rank)
	g.GET("/calendar", h.Calendar)
	g.GET("/latest/:symbol", h.Latest)
	g.POST("/reference/baseline", h.SetBaseline)
	g.POST("/reference/previous-day", h.SetPreviousDay)
}

func (h *DecisionEchoHandler) Evaluate(c echo.Context) error {
	req := &models.EvaluateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	date := util.ParseTimeDefault(req.Date, time.Now().UTC())
	report := h.eval.Evaluate(c.Request().Context(), usecase.EvaluateParams{
		Symbol:         req.Symbol,
		Snapshot:       models.MarketSnapshot(req.Metrics),
		Credit:         req.Credit,
		Date:           date,
		Intraday:       req.Intraday,
		Capital:        req.Capital,
		IVRankOverride: req.IVRank,
	})
	return xhttp.SuccessResponse(c, report)
}

func (h *DecisionEchoHandler) Rank(c echo.Context) error {
	req := &models.RankRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ivRank := -1.0
	if req.IVRank != nil {
		ivRank = *req.IVRank
	}
	scores := h.eval.RankStructures(models.MarketSnapshot(req.Metrics), req.CoreCount, ivRank)
	return xhttp.SuccessResponse(c, scores)
}

func (h *DecisionEchoHandler) Calendar(c echo.Context) error {
	date := util.ParseTimeDefault(c.QueryParam("date"), time.Now().UTC())
	return xhttp.SuccessResponse(c, h.eval.Calendar(date))
}

func (h *DecisionEchoHandler) Latest(c echo.Context) error {
	symbol := c.Param("symbol")
	if symbol == "" {
		return xhttp.BadRequestResponse(c, "symbol required")
	}
	report, ok := h.eval.Latest(c.Request().Context(), symbol)
	if !ok {
		return xhttp.NotFoundResponse(c, "no report for "+symbol)
	}
	return xhttp.SuccessResponse(c, report)
}

func (h *DecisionEchoHandler) SetBaseline(c echo.Context) error {
	req := &models.ReferenceRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	at := util.ParseTimeDefault(req.Date, time.Now().UTC())
	h.eval.SetBaseline(req.Symbol, models.MarketSnapshot(req.Metrics), at)
	h.logger.Info("baseline reset",
		xlogger.String("symbol", req.Symbol),
		xlogger.Int("metrics", len(req.Metrics)),
	)
	return xhttp.NoContentResponse(c)
}

func (h *DecisionEchoHandler) SetPreviousDay(c echo.Context) error {
	req := &models.ReferenceRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	at := util.ParseTimeDefault(req.Date, time.Now().UTC())
	h.eval.SetPreviousDay(req.Symbol, models.MarketSnapshot(req.Metrics), at)
	h.logger.Info("previous-day reset",
		xlogger.String("symbol", req.Symbol),
		xlogger.Int("metrics", len(req.Metrics)),
	)
	return xhttp.NoContentResponse(c)
}
