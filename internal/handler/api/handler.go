package api

import (
	"time"

	"GFQuant/internal/calendar"
	"GFQuant/internal/domain/models"
	domrepo "GFQuant/internal/domain/repository"
	"GFQuant/internal/elements"
	"GFQuant/internal/features"
	"GFQuant/internal/usecase"
	xhttp "GFQuant/pkg/http"
	xlogger "GFQuant/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Handler exposes the pipeline over HTTP.
type Handler struct {
	logger    *xlogger.Logger
	pipeline  *usecase.Pipeline
	store     domrepo.SignalStore
	corrected *calendar.Engine
	raw       *calendar.Engine
	natal     *features.NatalBook
}

// NewHandler creates the API handler. corrected applies the configured
// true-solar-time correction; raw computes civil-time pillars.
func NewHandler(logger *xlogger.Logger, pipeline *usecase.Pipeline, store domrepo.SignalStore, corrected, raw *calendar.Engine, natal *features.NatalBook) *Handler {
	return &Handler{
		logger:    logger,
		pipeline:  pipeline,
		store:     store,
		corrected: corrected,
		raw:       raw,
		natal:     natal,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/pillars", h.Pillars)
	g.GET("/natal", h.Natal)
	g.GET("/signals", h.Signals)
	g.POST("/run", h.Run)
	e.POST("/webhook/bar", h.WebhookBar)
	e.GET("/health", h.Health)
}

// PillarsResponse is the wire form of a computed feature row.
type PillarsResponse struct {
	At        string             `json:"at"`
	Longitude float64            `json:"longitude"`
	Corrected bool               `json:"corrected"`
	Year      string             `json:"year"`
	Month     string             `json:"month"`
	Day       string             `json:"day"`
	Hour      string             `json:"hour"`
	Elements  map[string]float64 `json:"elements"`
	Dominant  string             `json:"dominant"`
}

func (h *Handler) Pillars(c echo.Context) error {
	req := &models.PillarsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	at, ok := xhttp.ParseTime(req.At)
	if !ok {
		return xhttp.BadRequestResponse(c, "at must be RFC3339 or unix seconds")
	}

	engine := h.corrected
	if !req.Correct {
		engine = h.raw
	}

	fp, err := engine.Compute(models.NewTimePoint(at, req.Longitude))
	if err != nil {
		h.logger.Error("pillars compute error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("compute pillars: %v", err))
	}

	vec := elements.Score(fp)
	strengths := make(map[string]float64, 5)
	for _, e := range models.Elements() {
		strengths[e.String()] = vec.Get(e)
	}

	return xhttp.SuccessResponse(c, &PillarsResponse{
		At:        at.Format(time.RFC3339),
		Longitude: req.Longitude,
		Corrected: req.Correct,
		Year:      fp.Year.String(),
		Month:     fp.Month.String(),
		Day:       fp.Day.String(),
		Hour:      fp.Hour.String(),
		Elements:  strengths,
		Dominant:  vec.Dominant().String(),
	})
}

// Natal returns the fixed listing-moment chart of a configured instrument.
func (h *Handler) Natal(c echo.Context) error {
	symbol := c.QueryParam("symbol")
	if symbol == "" {
		return xhttp.BadRequestResponse(c, "symbol is required")
	}

	chart, ok := h.natal.Chart(symbol)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no listing date configured for %s", symbol))
	}

	strengths := make(map[string]float64, 5)
	for _, e := range models.Elements() {
		strengths[e.String()] = chart.Elements.Get(e)
	}

	return xhttp.SuccessResponse(c, &PillarsResponse{
		At:        chart.At.Time.Format(time.RFC3339),
		Longitude: chart.At.Longitude,
		Corrected: true,
		Year:      chart.Pillars.Year.String(),
		Month:     chart.Pillars.Month.String(),
		Day:       chart.Pillars.Day.String(),
		Hour:      chart.Pillars.Hour.String(),
		Elements:  strengths,
		Dominant:  chart.Elements.Dominant().String(),
	})
}

// SignalResponse is the wire form of a stored signal.
type SignalResponse struct {
	Symbol   string  `json:"symbol"`
	At       string  `json:"at"`
	Horizon  string  `json:"horizon"`
	Decision string  `json:"decision"`
	Strength float64 `json:"strength"`
	Scorer   string  `json:"scorer"`
}

func (h *Handler) Signals(c echo.Context) error {
	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	now := time.Now().UTC()
	from := xhttp.ParseTimeDefault(req.From, now.AddDate(0, -3, 0))
	to := xhttp.ParseTimeDefault(req.To, now)

	signals, err := h.store.QuerySignals(c.Request().Context(), req.Symbol, from, to, req.Limit)
	if err != nil {
		h.logger.Error("signals query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	rows := make([]SignalResponse, len(signals))
	for i, s := range signals {
		rows[i] = SignalResponse{
			Symbol:   s.Symbol,
			At:       s.Timestamp.UTC().Format(time.RFC3339),
			Horizon:  s.Horizon,
			Decision: string(s.Decision),
			Strength: s.Strength,
			Scorer:   s.Scorer,
		}
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

// RunResponse summarizes an on-demand pipeline run.
type RunResponse struct {
	Symbol  string `json:"symbol"`
	Bars    int    `json:"bars"`
	Signals int    `json:"signals"`
	Gaps    int    `json:"gaps"`
	Skips   int    `json:"skips"`
}

func (h *Handler) Run(c echo.Context) error {
	req := &models.RunRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	from, ok := xhttp.ParseTime(req.From)
	if !ok {
		return xhttp.BadRequestResponse(c, "from must be RFC3339 or unix seconds")
	}
	to, ok := xhttp.ParseTime(req.To)
	if !ok {
		return xhttp.BadRequestResponse(c, "to must be RFC3339 or unix seconds")
	}
	if !from.Before(to) {
		return xhttp.BadRequestResponse(c, "from must precede to")
	}

	res, err := h.pipeline.Run(c.Request().Context(), req.Symbol, from, to, domrepo.NormalizeTimeframe(req.TF))
	if err != nil {
		h.logger.Error("run usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	return xhttp.SuccessResponse(c, &RunResponse{
		Symbol:  res.Symbol,
		Bars:    res.Bars,
		Signals: len(res.Signals),
		Gaps:    len(res.Gaps),
		Skips:   len(res.Skips),
	})
}

func (h *Handler) WebhookBar(c echo.Context) error {
	req := &models.WebhookBar{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	bar := models.MarketBar{
		Symbol:    req.Symbol,
		Timestamp: time.Unix(req.Timestamp, 0).UTC(),
		Open:      req.Open,
		High:      req.High,
		Low:       req.Low,
		Close:     req.Close,
		Volume:    req.Volume,
	}

	res, err := h.pipeline.RunBars(c.Request().Context(), []models.MarketBar{bar}, "webhook")
	if err != nil {
		h.logger.Error("webhook run error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	return xhttp.SuccessResponse(c, &RunResponse{
		Symbol:  res.Symbol,
		Bars:    res.Bars,
		Signals: len(res.Signals),
		Gaps:    len(res.Gaps),
		Skips:   len(res.Skips),
	})
}

func (h *Handler) Health(c echo.Context) error {
	if err := h.store.Health(c.Request().Context()); err != nil {
		h.logger.Error("health check failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("storage unavailable"))
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}
