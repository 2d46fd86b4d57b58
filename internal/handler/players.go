package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"pokerleague/internal/models"
	"pokerleague/internal/repository"
	"pokerleague/internal/service"
)

type PlayerHandler struct {
	Players    *service.PlayerService
	Membership *service.MembershipService
	Guard      gin.HandlerFunc
}

func (h *PlayerHandler) Register(r *gin.Engine) {
	g := r.Group("/api/players")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.GET("/:id/membership-charges", h.charges)
	g.POST("", append(guarded(h.Guard), h.create)...)
}

// @Summary List players
// @Tags players
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Param q query string false "name search"
// @Success 200 {object} apiResponse
// @Router /api/players [get]
func (h *PlayerHandler) list(c *gin.Context) {
	if h.Players == nil {
		Error(c, http.StatusInternalServerError, "player service unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 100)
	offset := intQuery(c, "offset", 0)
	var search *string
	if v := strings.TrimSpace(c.Query("q")); v != "" {
		search = &v
	}
	items, err := h.Players.ListPlayers(c.Request.Context(), repository.ListPlayersParams{
		Limit:   limit,
		Offset:  offset,
		Search:  search,
		OrderBy: "name",
		Asc:     boolPtr(true),
	})
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, items, map[string]any{"limit": limit, "offset": offset, "count": len(items)})
}

// @Summary Get player
// @Tags players
// @Param id path string true "player id"
// @Success 200 {object} apiResponse
// @Router /api/players/{id} [get]
func (h *PlayerHandler) get(c *gin.Context) {
	if h.Players == nil {
		Error(c, http.StatusInternalServerError, "player service unavailable", nil)
		return
	}
	item, err := h.Players.GetPlayer(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, item, nil)
}

type createPlayerRequest struct {
	Name string `json:"name"`
}

// @Summary Register player
// @Tags players
// @Param body body createPlayerRequest true "player"
// @Success 200 {object} apiResponse
// @Router /api/players [post]
func (h *PlayerHandler) create(c *gin.Context) {
	if h.Players == nil {
		Error(c, http.StatusInternalServerError, "player service unavailable", nil)
		return
	}
	var req createPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, err := h.Players.CreatePlayer(c.Request.Context(), req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, item, nil)
}

// @Summary List membership charges of a player
// @Tags players
// @Param id path string true "player id"
// @Param season_id query string false "season id"
// @Param since query string false "RFC3339 lower bound on charged_at"
// @Success 200 {object} apiResponse
// @Router /api/players/{id}/membership-charges [get]
func (h *PlayerHandler) charges(c *gin.Context) {
	if h.Membership == nil {
		Error(c, http.StatusInternalServerError, "membership service unavailable", nil)
		return
	}
	playerID := strings.TrimSpace(c.Param("id"))
	params := repository.ListMembershipChargesParams{
		Limit:    intQuery(c, "limit", 200),
		Offset:   intQuery(c, "offset", 0),
		PlayerID: &playerID,
	}
	if v := strings.TrimSpace(c.Query("season_id")); v != "" {
		params.SeasonID = &v
	}
	if v := strings.TrimSpace(c.Query("since")); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			Error(c, http.StatusBadRequest, "invalid since", nil)
			return
		}
		params.Since = &since
	}
	items, err := h.Membership.ListCharges(c.Request.Context(), params)
	if err != nil {
		fail(c, err)
		return
	}
	total := 0.0
	for _, it := range items {
		total += it.Amount
	}
	Ok(c, chargeViews(items), map[string]any{"count": len(items), "total": money(total)})
}

type chargeView struct {
	models.MembershipCharge
	AmountText string `json:"amount_text"`
}

func chargeViews(items []models.MembershipCharge) []chargeView {
	out := make([]chargeView, 0, len(items))
	for _, it := range items {
		out = append(out, chargeView{MembershipCharge: it, AmountText: money(it.Amount)})
	}
	return out
}
