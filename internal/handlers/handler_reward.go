package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/propnest_backend/internal/core/domain"
	portssvc "github.com/SscSPs/propnest_backend/internal/core/ports/services"
	"github.com/SscSPs/propnest_backend/internal/dto"
	"github.com/SscSPs/propnest_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// rewardHandler serves the reward catalog, redemption and admin catalog management.
type rewardHandler struct {
	rewardService portssvc.RewardSvcFacade
}

func newRewardHandler(rs portssvc.RewardSvcFacade) *rewardHandler {
	return &rewardHandler{rewardService: rs}
}

// registerRewardRoutes registers the catalog and redemption routes. Redeem is rate limited per account.
func registerRewardRoutes(rg *gin.RouterGroup, rewardService portssvc.RewardSvcFacade, redeemLimit gin.HandlerFunc) {
	h := newRewardHandler(rewardService)

	rewards := rg.Group("/rewards")
	{
		rewards.GET("", h.listAvailable)
		rewards.POST("/redeem", redeemLimit, h.redeem)
		rewards.GET("/fulfilments", h.listFulfilments)
	}
}

// registerAdminRewardRoutes registers catalog management. The group must already require admin.
func registerAdminRewardRoutes(rg *gin.RouterGroup, rewardService portssvc.RewardSvcFacade) {
	h := newRewardHandler(rewardService)

	rewards := rg.Group("/rewards")
	{
		rewards.GET("", h.listAll)
		rewards.POST("", h.create)
		rewards.GET("/:rewardID", h.get)
		rewards.PUT("/:rewardID", h.update)
		rewards.DELETE("/:rewardID", h.deactivate)
	}
}

// listAvailable godoc
// @Summary List rewards available to the caller
// @Description Active rewards for the caller's role (or all roles), cheapest first.
// @Tags rewards
// @Produce json
// @Success 200 {object} dto.ListRewardsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /rewards [get]
func (h *rewardHandler) listAvailable(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}
	rewards, err := h.rewardService.ListAvailableRewards(c.Request.Context(), p.Role)
	if err != nil {
		respondError(c, err, "Failed to list rewards")
		return
	}
	c.JSON(http.StatusOK, dto.ToListRewardsResponse(rewards))
}

// redeem godoc
// @Summary Redeem a reward
// @Description Spends points on a reward. LISTING_PRIORITY rewards need a listingId owned by the caller.
// @Tags rewards
// @Accept json
// @Produce json
// @Param redemption body dto.RedeemRequest true "Reward and optional listing"
// @Success 200 {object} domain.RedeemResult
// @Failure 400 {object} ErrorResponse "Validation error, insufficient points or listing problem"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Reward not available for this role"
// @Failure 404 {object} ErrorResponse "Reward not found or inactive"
// @Failure 409 {object} ErrorResponse "Listing already priority"
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /rewards/redeem [post]
func (h *rewardHandler) redeem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}
	var req dto.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	logger.Info("Received redemption request", slog.String("reward_id", req.RewardID))
	res, err := h.rewardService.Redeem(c.Request.Context(), p.AccountID, req.RewardID, domain.RedeemContext{ListingID: req.ListingID})
	if err != nil {
		respondError(c, err, "Failed to redeem reward")
		return
	}
	c.JSON(http.StatusOK, res)
}

// listFulfilments godoc
// @Summary List the caller's cashback requests, vouchers and manual rewards
// @Tags rewards
// @Produce json
// @Success 200 {object} dto.ListFulfilmentsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /rewards/fulfilments [get]
func (h *rewardHandler) listFulfilments(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}
	fs, err := h.rewardService.ListFulfilments(c.Request.Context(), p.AccountID)
	if err != nil {
		respondError(c, err, "Failed to list fulfilments")
		return
	}
	c.JSON(http.StatusOK, dto.ToListFulfilmentsResponse(fs))
}

// listAll godoc
// @Summary List every reward, including inactive ones
// @Tags admin
// @Produce json
// @Success 200 {object} dto.ListRewardsResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/rewards [get]
func (h *rewardHandler) listAll(c *gin.Context) {
	rewards, err := h.rewardService.ListAllRewards(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list rewards")
		return
	}
	c.JSON(http.StatusOK, dto.ToListRewardsResponse(rewards))
}

// create godoc
// @Summary Create a reward
// @Tags admin
// @Accept json
// @Produce json
// @Param reward body dto.CreateRewardRequest true "Reward"
// @Success 201 {object} dto.RewardResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Title already used"
// @Security BearerAuth
// @Router /admin/rewards [post]
func (h *rewardHandler) create(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}
	var req dto.CreateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	reward, err := h.rewardService.CreateReward(c.Request.Context(), req, p.AccountID)
	if err != nil {
		respondError(c, err, "Failed to create reward")
		return
	}
	c.JSON(http.StatusCreated, dto.ToRewardResponse(reward))
}

// get godoc
// @Summary Get a reward by ID
// @Tags admin
// @Produce json
// @Param rewardID path string true "Reward ID"
// @Success 200 {object} dto.RewardResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/rewards/{rewardID} [get]
func (h *rewardHandler) get(c *gin.Context) {
	reward, err := h.rewardService.GetReward(c.Request.Context(), c.Param("rewardID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve reward")
		return
	}
	c.JSON(http.StatusOK, dto.ToRewardResponse(reward))
}

// update godoc
// @Summary Update a reward
// @Description Partial update; only provided fields change.
// @Tags admin
// @Accept json
// @Produce json
// @Param rewardID path string true "Reward ID"
// @Param reward body dto.UpdateRewardRequest true "Fields to change"
// @Success 200 {object} dto.RewardResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/rewards/{rewardID} [put]
func (h *rewardHandler) update(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}
	var req dto.UpdateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	reward, err := h.rewardService.UpdateReward(c.Request.Context(), c.Param("rewardID"), req, p.AccountID)
	if err != nil {
		respondError(c, err, "Failed to update reward")
		return
	}
	c.JSON(http.StatusOK, dto.ToRewardResponse(reward))
}

// deactivate godoc
// @Summary Deactivate a reward
// @Description Soft delete. Past ledger entries are kept.
// @Tags admin
// @Param rewardID path string true "Reward ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/rewards/{rewardID} [delete]
func (h *rewardHandler) deactivate(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}
	if err := h.rewardService.DeactivateReward(c.Request.Context(), c.Param("rewardID"), p.AccountID); err != nil {
		respondError(c, err, "Failed to deactivate reward")
		return
	}
	c.Status(http.StatusNoContent)
}
