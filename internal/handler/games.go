package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pokerleague/internal/ledger"
	"pokerleague/internal/models"
	"pokerleague/internal/service"
)

type GameHandler struct {
	Games      *service.GameService
	Jackpot    *service.JackpotService
	Membership *service.MembershipService
	Guard      gin.HandlerFunc
}

func (h *GameHandler) Register(r *gin.Engine) {
	g := r.Group("/api/games")
	g.GET("/:id", h.get)
	g.GET("/:id/membership-charges/preview", h.previewCharges)

	w := g.Group("", guarded(h.Guard)...)
	w.POST("", h.create)
	w.POST("/:id/players", h.addPlayer)
	w.POST("/:id/players/:player_id/rebuys", h.rebuy)
	w.POST("/:id/players/:player_id/addons", h.addon)
	w.PUT("/:id/players/:player_id/dinner", h.dinner)
	w.PUT("/:id/players/:player_id/club-fund", h.clubFund)
	w.PUT("/:id/dinner-cost", h.dinnerCost)
	w.POST("/:id/eliminations", h.eliminate)
	w.POST("/:id/swap", h.swap)
	w.POST("/:id/settle", h.settle)
	w.POST("/:id/finish", h.finish)
	w.POST("/:id/jackpot/accrue", h.accrue)
	w.POST("/:id/membership-charges", h.charge)
}

func (h *GameHandler) ready(c *gin.Context) bool {
	if h.Games == nil {
		Error(c, http.StatusInternalServerError, "game service unavailable", nil)
		return false
	}
	return true
}

// respond writes the game with money totals in meta.
func respond(c *gin.Context, game *models.Game) {
	var prizes, balances, clubFund float64
	for _, p := range game.Players {
		prizes += p.Prize
		balances += p.Balance
		clubFund += p.ClubFundContribution
	}
	Ok(c, game, map[string]any{
		"players":              len(game.Players),
		"active":               ledger.ActiveCount(game.Players),
		"prizes":               money(prizes),
		"balances":             money(balances),
		"club_fund":            money(clubFund),
		"jackpot_contribution": money(game.JackpotContribution),
	})
}

// @Summary Open a game in a season
// @Tags games
// @Param body body service.CreateGameInput true "game"
// @Success 200 {object} apiResponse
// @Router /api/games [post]
func (h *GameHandler) create(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	var req service.CreateGameInput
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	game, err := h.Games.CreateGame(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, game)
}

// @Summary Get game
// @Tags games
// @Param id path string true "game id"
// @Success 200 {object} apiResponse
// @Router /api/games/{id} [get]
func (h *GameHandler) get(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	game, err := h.Games.GetGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, game)
}

// @Summary Seat a player
// @Tags games
// @Param id path string true "game id"
// @Param body body service.AddPlayerInput true "player"
// @Success 200 {object} apiResponse
// @Router /api/games/{id}/players [post]
func (h *GameHandler) addPlayer(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	var req service.AddPlayerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	game, err := h.Games.AddPlayer(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, game)
}

type countRequest struct {
	Count int `json:"count"`
}

func bindCount(c *gin.Context) (int, bool) {
	req := countRequest{Count: 1}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			Error(c, http.StatusBadRequest, "invalid body", nil)
			return 0, false
		}
	}
	return req.Count, true
}

// @Summary Record rebuys
// @Tags games
// @Param id path string true "game id"
// @Param player_id path string true "player id"
// @Param body body countRequest false "count, default 1"
// @Success 200 {object} apiResponse
// @Router /api/games/{id}/players/{player_id}/rebuys [post]
func (h *GameHandler) rebuy(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	count, ok := bindCount(c)
	if !ok {
		return
	}
	game, err := h.Games.RecordRebuy(c.Request.Context(), c.Param("id"), c.Param("player_id"), count)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, game)
}

// @Summary Record add-ons
// @Tags games
// @Param id path string true "game id"
// @Param player_id path string true "player id"
// @Param body body countRequest false "count, default 1"
// @Success 200 {object} apiResponse
// @Router /api/games/{id}/players/{player_id}/addons [post]
func (h *GameHandler) addon(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	count, ok := bindCount(c)
	if !ok {
		return
	}
	game, err := h.Games.RecordAddon(c.Request.Context(), c.Param("id"), c.Param("player_id"), count)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, game)
}

type toggleRequest struct {
	Enabled bool `json:"enabled"`
}

// @Summary Set dinner participation
// @Tags games
// @Param id path string true "game id"
// @Param player_id path string true "player id"
// @Param body body toggleRequest true "joined dinner"
// @Success 200 {object} apiResponse
// @Router /api/games/{id}/players/{player_id}/dinner [put]
func (h *GameHandler) dinner(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	game, err := h.Games.SetDinnerParticipation(c.Request.Context(), c.Param("id"), c.Param("player_id"), req.Enabled)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, game)
}

// @Summary Set club fund participation
// @Tags games
// @Param id path string true "game id"
// @Param player_id path string true "player id"
// @Param body body toggleRequest true "participates"
// @Success 200 {object} apiResponse
// @Router /api/games/{id}/players/{player_id}/club-fund [put]
func (h *GameHandler) clubFund(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	game, err := h.Games.SetClubFundParticipation(c.Request.Context(), c.Param("id"), c.Param("player_id"), req.Enabled)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, game)
}

type dinnerCostRequest struct {
	DinnerCost *float64 `json:"dinner_cost"`
}

// @Summary Record the dinner bill
// @Tags games
// @Param id path string true "game id"
// @Param body body dinnerCostRequest true "total dinner cost, null clears it"
// @Success 200 {object} apiResponse
// @Router /api/games/{id}/dinner-cost [put]
func (h *GameHandler) dinnerCost(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	var req dinnerCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	game, err := h.Games.RecordDinnerCost(c.Request.Context(), c.Param("id"), req.DinnerCost)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, game)
}

type eliminateRequest struct {
	PlayerIDs    []string `json:"player_ids"`
	EliminatedBy string   `json:"eliminated_by"`
}

// @Summary Eliminate one or more players
// @Description Players eliminated together are positioned in list order, the first one finishing worst.
// @Tags games
// @Param id path string true "game id"
// @Param body body eliminateRequest true "eliminations"
// @Success 200 {object} apiResponse
// @Router /api/games/{id}/eliminations [post]
func (h *GameHandler) eliminate(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	var req eliminateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if len(req.PlayerIDs) == 0 {
		Error(c, http.StatusBadRequest, "player_ids is required", nil)
		return
	}
	game, err := h.Games.EliminatePlayers(c.Request.Context(), c.Param("id"), req.PlayerIDs, strings.TrimSpace(req.EliminatedBy))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, game)
}

type swapRequest struct {
	PlayerA string `json:"player_a"`
	PlayerB string `json:"player_b"`
}

// @Summary Swap the final positions of two players
// @Tags games
// @Param id path string true "game id"
// @Param body body swapRequest true "players"
// @Success 200 {object} apiResponse
// @Router /api/games/{id}/swap [post]
func (h *GameHandler) swap(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	var req swapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	game, err := h.Games.SwapPositions(c.Request.Context(), c.Param("id"), req.PlayerA, req.PlayerB)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, game)
}

// @Summary Settle points, prizes and balances
// @Tags games
// @Param id path string true "game id"
// @Success 200 {object} apiResponse
// @Router /api/games/{id}/settle [post]
func (h *GameHandler) settle(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	game, err := h.Games.SettleGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, game)
}

// @Summary Finish a game
// @Tags games
// @Param id path string true "game id"
// @Success 200 {object} apiResponse
// @Router /api/games/{id}/finish [post]
func (h *GameHandler) finish(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	game, err := h.Games.FinishGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, game)
}

// @Summary Accrue the game's contribution into the season jackpot
// @Tags jackpot
// @Param id path string true "game id"
// @Success 200 {object} apiResponse
// @Failure 409 {object} apiResponse
// @Router /api/games/{id}/jackpot/accrue [post]
func (h *GameHandler) accrue(c *gin.Context) {
	if h.Jackpot == nil {
		Error(c, http.StatusInternalServerError, "jackpot service unavailable", nil)
		return
	}
	ctx := c.Request.Context()
	gameID := c.Param("id")
	contribution, err := h.Jackpot.AccrueGame(ctx, gameID)
	if err != nil {
		fail(c, err)
		return
	}
	out := map[string]any{"game_id": gameID, "contribution": contribution}
	meta := map[string]any{"contribution": money(contribution)}
	if h.Games != nil {
		if game, err := h.Games.GetGame(ctx, gameID); err == nil {
			if snap, err := h.Jackpot.CurrentJackpot(ctx, game.SeasonID); err == nil {
				out["season_id"] = snap.SeasonID
				out["jackpot"] = snap.Jackpot
				meta["jackpot"] = money(snap.Jackpot)
			}
		}
	}
	Ok(c, out, meta)
}

// @Summary Preview membership charges due at a game
// @Tags membership
// @Param id path string true "game id"
// @Success 200 {object} apiResponse
// @Router /api/games/{id}/membership-charges/preview [get]
func (h *GameHandler) previewCharges(c *gin.Context) {
	if h.Membership == nil {
		Error(c, http.StatusInternalServerError, "membership service unavailable", nil)
		return
	}
	decisions, err := h.Membership.EvaluateMembershipCharges(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	due := 0
	for _, d := range decisions {
		if d.Due {
			due++
		}
	}
	Ok(c, decisions, map[string]any{"count": len(decisions), "due": due})
}

// @Summary Charge memberships due at a game
// @Tags membership
// @Param id path string true "game id"
// @Success 200 {object} apiResponse
// @Router /api/games/{id}/membership-charges [post]
func (h *GameHandler) charge(c *gin.Context) {
	if h.Membership == nil {
		Error(c, http.StatusInternalServerError, "membership service unavailable", nil)
		return
	}
	result, err := h.Membership.ChargeMemberships(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	total := 0.0
	for _, ch := range result.Charged {
		total += ch.Amount
	}
	Ok(c, result, map[string]any{"charged": len(result.Charged), "total": money(total)})
}
