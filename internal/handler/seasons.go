package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pokerleague/internal/auth"
	"pokerleague/internal/ledger"
	"pokerleague/internal/models"
	"pokerleague/internal/repository"
	"pokerleague/internal/service"
)

type SeasonHandler struct {
	Seasons *service.SeasonService
	Games   *service.GameService
	Jackpot *service.JackpotService
	Guard   gin.HandlerFunc
}

func (h *SeasonHandler) Register(r *gin.Engine) {
	g := r.Group("/api/seasons")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.GET("/:id/games", h.games)
	g.GET("/:id/ranking", h.ranking)
	g.GET("/:id/jackpot", h.jackpot)
	g.GET("/:id/jackpot/distributions", h.distributions)

	w := g.Group("", guarded(h.Guard)...)
	w.POST("", h.create)
	w.PUT("/:id/config", h.updateConfig)
	w.POST("/:id/jackpot/adjust", h.adjustJackpot)
	w.POST("/:id/jackpot/recalculate", h.recalculateJackpot)
	w.POST("/:id/end", h.end)
}

// seasonID resolves the path parameter, which may be an id or a slug.
func (h *SeasonHandler) seasonID(c *gin.Context) (string, bool) {
	if h.Seasons == nil {
		Error(c, http.StatusInternalServerError, "season service unavailable", nil)
		return "", false
	}
	season, err := h.Seasons.GetSeason(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return "", false
	}
	return season.ID, true
}

// @Summary List seasons
// @Tags seasons
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Param active query bool false "only active or inactive seasons"
// @Success 200 {object} apiResponse
// @Router /api/seasons [get]
func (h *SeasonHandler) list(c *gin.Context) {
	if h.Seasons == nil {
		Error(c, http.StatusInternalServerError, "season service unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	items, err := h.Seasons.ListSeasons(c.Request.Context(), repository.ListSeasonsParams{
		Limit:    limit,
		Offset:   offset,
		IsActive: boolQueryPtr(c, "active"),
		OrderBy:  "started_at",
		Asc:      boolPtr(false),
	})
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, items, map[string]any{"limit": limit, "offset": offset, "count": len(items)})
}

// @Summary Get season
// @Tags seasons
// @Param id path string true "season id or slug"
// @Success 200 {object} apiResponse
// @Router /api/seasons/{id} [get]
func (h *SeasonHandler) get(c *gin.Context) {
	if h.Seasons == nil {
		Error(c, http.StatusInternalServerError, "season service unavailable", nil)
		return
	}
	season, err := h.Seasons.GetSeason(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, season, map[string]any{
		"jackpot":   money(season.Jackpot),
		"club_fund": money(season.ClubFund),
	})
}

// @Summary Create season
// @Tags seasons
// @Param body body service.CreateSeasonInput true "season"
// @Success 200 {object} apiResponse
// @Router /api/seasons [post]
func (h *SeasonHandler) create(c *gin.Context) {
	if h.Seasons == nil {
		Error(c, http.StatusInternalServerError, "season service unavailable", nil)
		return
	}
	var req service.CreateSeasonInput
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	season, err := h.Seasons.CreateSeason(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, season, nil)
}

// @Summary Replace season configuration
// @Tags seasons
// @Param id path string true "season id or slug"
// @Param body body service.SeasonConfigInput true "configuration"
// @Success 200 {object} apiResponse
// @Router /api/seasons/{id}/config [put]
func (h *SeasonHandler) updateConfig(c *gin.Context) {
	id, ok := h.seasonID(c)
	if !ok {
		return
	}
	var req service.SeasonConfigInput
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	season, err := h.Seasons.UpdateSeasonConfig(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, season, nil)
}

// @Summary List games of a season
// @Tags seasons
// @Param id path string true "season id or slug"
// @Success 200 {object} apiResponse
// @Router /api/seasons/{id}/games [get]
func (h *SeasonHandler) games(c *gin.Context) {
	if h.Games == nil {
		Error(c, http.StatusInternalServerError, "game service unavailable", nil)
		return
	}
	id, ok := h.seasonID(c)
	if !ok {
		return
	}
	items, err := h.Games.ListGames(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	finished := 0
	for _, g := range items {
		if g.IsFinished {
			finished++
		}
	}
	Ok(c, items, map[string]any{"count": len(items), "finished": finished})
}

type standingView struct {
	ledger.Standing
	PrizeText      string `json:"prize_text"`
	BalanceText    string `json:"balance_text"`
	BonusMoneyText string `json:"bonus_money_text"`
}

// @Summary Season ranking
// @Tags seasons
// @Param id path string true "season id or slug"
// @Success 200 {object} apiResponse
// @Router /api/seasons/{id}/ranking [get]
func (h *SeasonHandler) ranking(c *gin.Context) {
	id, ok := h.seasonID(c)
	if !ok {
		return
	}
	standings, err := h.Seasons.SeasonRanking(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]standingView, 0, len(standings))
	for _, s := range standings {
		out = append(out, standingView{
			Standing:       s,
			PrizeText:      money(s.Prize),
			BalanceText:    money(s.Balance),
			BonusMoneyText: money(s.BonusMoney),
		})
	}
	Ok(c, out, map[string]any{"count": len(out)})
}

// @Summary Current jackpot
// @Tags jackpot
// @Param id path string true "season id or slug"
// @Success 200 {object} apiResponse
// @Router /api/seasons/{id}/jackpot [get]
func (h *SeasonHandler) jackpot(c *gin.Context) {
	if h.Jackpot == nil {
		Error(c, http.StatusInternalServerError, "jackpot service unavailable", nil)
		return
	}
	id, ok := h.seasonID(c)
	if !ok {
		return
	}
	snap, err := h.Jackpot.CurrentJackpot(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, snap, map[string]any{"jackpot": money(snap.Jackpot)})
}

type adjustJackpotRequest struct {
	Delta  float64 `json:"delta"`
	Reason string  `json:"reason"`
}

// @Summary Apply a manual jackpot delta
// @Tags jackpot
// @Param id path string true "season id or slug"
// @Param body body adjustJackpotRequest true "delta"
// @Success 200 {object} apiResponse
// @Failure 409 {object} apiResponse
// @Router /api/seasons/{id}/jackpot/adjust [post]
func (h *SeasonHandler) adjustJackpot(c *gin.Context) {
	if h.Jackpot == nil {
		Error(c, http.StatusInternalServerError, "jackpot service unavailable", nil)
		return
	}
	id, ok := h.seasonID(c)
	if !ok {
		return
	}
	var req adjustJackpotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	next, err := h.Jackpot.UpdateJackpot(c.Request.Context(), id, req.Delta)
	if err != nil {
		fail(c, err)
		return
	}
	out := map[string]any{
		"season_id": id,
		"jackpot":   next,
		"reason":    strings.TrimSpace(req.Reason),
	}
	if claims, ok := auth.ClaimsFrom(c); ok {
		out["adjusted_by"] = claims.Subject
	}
	Ok(c, out, map[string]any{"jackpot": money(next)})
}

// @Summary Recalculate jackpot from finished games
// @Tags jackpot
// @Param id path string true "season id or slug"
// @Success 200 {object} apiResponse
// @Failure 409 {object} apiResponse
// @Router /api/seasons/{id}/jackpot/recalculate [post]
func (h *SeasonHandler) recalculateJackpot(c *gin.Context) {
	if h.Jackpot == nil {
		Error(c, http.StatusInternalServerError, "jackpot service unavailable", nil)
		return
	}
	id, ok := h.seasonID(c)
	if !ok {
		return
	}
	report, err := h.Jackpot.RecalculateJackpot(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	meta := map[string]any{"jackpot": money(report.Jackpot), "recomputed": money(report.Recomputed)}
	if report.Warning != nil {
		meta["warning"] = report.Warning.String()
	}
	Ok(c, report, meta)
}

type distributionView struct {
	models.JackpotDistribution
	PrizeAmountText string `json:"prize_amount_text"`
}

// @Summary Jackpot distributions of an ended season
// @Tags jackpot
// @Param id path string true "season id or slug"
// @Success 200 {object} apiResponse
// @Router /api/seasons/{id}/jackpot/distributions [get]
func (h *SeasonHandler) distributions(c *gin.Context) {
	id, ok := h.seasonID(c)
	if !ok {
		return
	}
	items, err := h.Seasons.ListDistributions(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, distributionViews(items), map[string]any{"count": len(items)})
}

// @Summary End season and distribute the jackpot
// @Tags seasons
// @Param id path string true "season id or slug"
// @Success 200 {object} apiResponse
// @Failure 409 {object} apiResponse
// @Router /api/seasons/{id}/end [post]
func (h *SeasonHandler) end(c *gin.Context) {
	id, ok := h.seasonID(c)
	if !ok {
		return
	}
	result, err := h.Seasons.EndSeason(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	paid := 0.0
	for _, d := range result.Distributions {
		paid += d.PrizeAmount
	}
	Ok(c, result, map[string]any{
		"distributions": distributionViews(result.Distributions),
		"paid":          money(paid),
	})
}

func distributionViews(items []models.JackpotDistribution) []distributionView {
	out := make([]distributionView, 0, len(items))
	for _, it := range items {
		out = append(out, distributionView{JackpotDistribution: it, PrizeAmountText: money(it.PrizeAmount)})
	}
	return out
}
