package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/DanNano/FFQueryAnalyzer/internal/model"
	"github.com/DanNano/FFQueryAnalyzer/internal/presentation"
	"github.com/DanNano/FFQueryAnalyzer/internal/service"
	"github.com/DanNano/FFQueryAnalyzer/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	defaultTopPlayersLimit = 10
	defaultTouchdownLimit  = 10
	defaultTargetLimit     = 5
)

type AnalyticsHandler struct {
	svc  service.AnalyticsService
	opts Options
}

func NewAnalyticsHandler(svc service.AnalyticsService, opts Options) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, opts: opts}
}

func (h *AnalyticsHandler) Register(r *gin.RouterGroup) {
	r.GET("/total-rows", h.totalRows)
	r.GET("/player-stats", h.playerStats)
	r.GET("/top-players-stats", h.topPlayers)
	r.GET("/player-by-name", h.playerByName)
	r.GET("/player-target-share", h.playerShare(model.TargetShare, service.AnalyticsService.TargetShare, false))
	r.GET("/player-goalline-carry-percentage", h.playerShare(model.GoalLineCarryShare, service.AnalyticsService.GoalLineCarryShare, h.opts.AcceptLegacyIDParam))
	r.GET("/player-snap-count", h.playerShare(model.SnapCountShare, service.AnalyticsService.SnapCountShare, false))
	r.GET("/player-TD", h.playerShare(model.TouchdownShare, service.AnalyticsService.TouchdownShare, false))
	r.GET("/touchdown-percentage", h.leaderboard(model.TouchdownShare, service.AnalyticsService.TopTouchdownShare, defaultTouchdownLimit, h.opts.Defaults.MinTouchdowns))
	r.GET("/topTargets", h.leaderboard(model.TargetShare, service.AnalyticsService.TopTargetShare, defaultTargetLimit, h.opts.Defaults.MinTargets))
}

// viewQuery selects the response shape shared by every metric endpoint.
type viewQuery struct {
	View   string `form:"view" binding:"omitempty,oneof=table chart"`
	Format string `form:"format" binding:"omitempty,oneof=number percent"`
}

type playerQuery struct {
	viewQuery
	PlayerID string `form:"playerid" binding:"omitempty,max=64"`
	ID       string `form:"id" binding:"omitempty,max=64"`
}

type topPlayersQuery struct {
	viewQuery
	From       *int `form:"from" binding:"omitempty,min=1920,max=2100"`
	To         *int `form:"to" binding:"omitempty,min=1920,max=2100"`
	MinSeasons *int `form:"minseasons" binding:"omitempty,min=1"`
	Limit      *int `form:"limit" binding:"omitempty,min=1,max=100"`
}

type leaderQuery struct {
	viewQuery
	Year  *int `form:"year" binding:"omitempty,min=1920,max=2100"`
	Limit *int `form:"limit" binding:"omitempty,min=1,max=100"`
	Min   *int `form:"min" binding:"omitempty,min=0"`
}

type nameQuery struct {
	Name string `form:"name" binding:"omitempty,max=100"`
}

func (h *AnalyticsHandler) totalRows(c *gin.Context) {
	n, err := h.svc.TotalRows(detach(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, [][]int64{{n}})
}

func (h *AnalyticsHandler) playerStats(c *gin.Context) {
	var q playerQuery
	if !bind(c, &q) {
		return
	}
	rows, err := h.svc.PlayerFantasyPoints(detach(c), h.playerID(q, false))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	respond(c, model.FantasyPointsPerGame, rows, q.viewQuery)
}

func (h *AnalyticsHandler) topPlayers(c *gin.Context) {
	var q topPlayersQuery
	if !bind(c, &q) {
		return
	}
	w := model.SeasonWindow{
		From:       q.From,
		To:         q.To,
		MinSeasons: orDefault(q.MinSeasons, h.opts.Defaults.MinSeasons),
		Limit:      orDefault(q.Limit, defaultTopPlayersLimit),
	}
	rows, err := h.svc.TopFantasySeasons(detach(c), w)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	respond(c, model.TopFantasyPointsSeason, rows, q.viewQuery)
}

func (h *AnalyticsHandler) playerByName(c *gin.Context) {
	var q nameQuery
	if !bind(c, &q) {
		return
	}
	name := strings.TrimSpace(q.Name)
	if name == "" {
		name = h.opts.Defaults.PlayerName
	}
	hits, err := h.svc.FindPlayers(detach(c), name)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, hits)
}

func (h *AnalyticsHandler) playerShare(metric model.Metric, fetch func(service.AnalyticsService, context.Context, string) ([]model.PlayerSeasonMetric, error), legacyID bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q playerQuery
		if !bind(c, &q) {
			return
		}
		rows, err := fetch(h.svc, detach(c), h.playerID(q, legacyID))
		if err != nil {
			response.WriteError(c, err)
			return
		}
		respond(c, metric, rows, q.viewQuery)
	}
}

func (h *AnalyticsHandler) leaderboard(metric model.Metric, fetch func(service.AnalyticsService, context.Context, model.LeaderQuery) ([]model.PlayerSeasonMetric, error), limit, minimum int) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q leaderQuery
		if !bind(c, &q) {
			return
		}
		lq := model.LeaderQuery{
			Year:    orDefault(q.Year, h.opts.Defaults.Year),
			Limit:   orDefault(q.Limit, limit),
			Minimum: orDefault(q.Min, minimum),
		}
		rows, err := fetch(h.svc, detach(c), lq)
		if err != nil {
			response.WriteError(c, err)
			return
		}
		respond(c, metric, rows, q.viewQuery)
	}
}

// playerID resolves playerid, then the legacy id parameter when allowed, then the configured default.
func (h *AnalyticsHandler) playerID(q playerQuery, legacyID bool) string {
	if id := strings.TrimSpace(q.PlayerID); id != "" {
		return id
	}
	if legacyID {
		if id := strings.TrimSpace(q.ID); id != "" {
			return id
		}
	}
	return h.opts.Defaults.PlayerID
}

// detach keeps the query running if the client goes away; the session is still released normally.
func detach(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

func respond(c *gin.Context, metric model.Metric, rows []model.PlayerSeasonMetric, v viewQuery) {
	if v.View == "chart" {
		response.WriteData(c, http.StatusOK, presentation.Chart(metric, rows))
		return
	}
	style := presentation.StyleNumber
	if v.Format == string(presentation.StylePercent) {
		style = presentation.StylePercent
	}
	response.WriteData(c, http.StatusOK, presentation.Rows(metric, rows, style))
}

func orDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

// bind parses query parameters into dst and writes a 400 on failure.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		response.WriteError(c, service.NewInvalidInputError(bindingFieldErrors(err)))
		return false
	}
	return true
}

func bindingFieldErrors(err error) []service.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []service.FieldError{{Field: "query", Message: "malformed query parameters"}}
	}
	out := make([]service.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		// Query parameter names are the lower-cased field names.
		out = append(out, service.FieldError{Field: strings.ToLower(fe.Field()), Message: ruleMessage(fe)})
	}
	return out
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("length must be <= %s", fe.Param())
		}
		return fmt.Sprintf("must be <= %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return "is invalid"
	}
}
