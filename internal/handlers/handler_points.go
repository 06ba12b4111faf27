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

type pointsHandler struct {
	pointsService portssvc.PointsSvcFacade
	notifier      portssvc.Notifier
}

func registerPointsRoutes(rg *gin.RouterGroup, pointsService portssvc.PointsSvcFacade) {
	h := &pointsHandler{pointsService: pointsService}
	rg.GET("/points", h.getSummary)
}

func registerAdminPointsRoutes(rg *gin.RouterGroup, pointsService portssvc.PointsSvcFacade, notifier portssvc.Notifier) {
	h := &pointsHandler{pointsService: pointsService, notifier: notifier}

	points := rg.Group("/points")
	{
		points.POST("/grant", h.grant)
		points.GET("/reconcile", h.reconcile)
	}
}

// getSummary godoc
// @Summary Get points balance and history
// @Description Returns the caller's balance and a page of ledger entries, newest first.
// @Tags points
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.PointsSummaryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /points [get]
func (h *pointsHandler) getSummary(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}
	var params dto.ListLedgerParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	summary, err := h.pointsService.GetPointsSummary(c.Request.Context(), p.AccountID, params)
	if err != nil {
		respondError(c, err, "Failed to load points history")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// grant godoc
// @Summary Apply a catalog reason to an account
// @Description Administrator-only. Amount is required for reasons without a fixed value.
// @Tags admin
// @Accept json
// @Produce json
// @Param grant body dto.GrantPointsRequest true "Grant details"
// @Success 200 {object} dto.GrantPointsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/points/grant [post]
func (h *pointsHandler) grant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}
	var req dto.GrantPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	txn := domain.PointsTransaction{
		AccountID:      req.AccountID,
		Reason:         domain.ReasonKey(req.ReasonKey),
		LinkedEntityID: req.LinkedEntityID,
		OverrideAmount: req.Amount,
	}
	newBalance, err := h.pointsService.ApplyTransaction(c.Request.Context(), txn)
	if err != nil {
		respondError(c, err, "Failed to apply points transaction")
		return
	}

	logger.Info("Administrative points transaction applied",
		slog.String("admin_id", p.AccountID),
		slog.String("target_account_id", req.AccountID),
		slog.String("reason", req.ReasonKey))
	if h.notifier != nil {
		h.notifier.Notify(c.Request.Context(), req.AccountID, "points_granted", map[string]any{
			"reason":      req.ReasonKey,
			"new_balance": newBalance,
		})
	}
	c.JSON(http.StatusOK, dto.GrantPointsResponse{
		Message:        "Points transaction applied",
		NewPointsTotal: newBalance,
	})
}

// reconcile godoc
// @Summary List accounts whose balance disagrees with the ledger
// @Tags admin
// @Produce json
// @Success 200 {object} dto.ReconcileResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/points/reconcile [get]
func (h *pointsHandler) reconcile(c *gin.Context) {
	drifts, err := h.pointsService.Reconcile(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to reconcile balances")
		return
	}
	c.JSON(http.StatusOK, dto.ReconcileResponse{Drifts: drifts})
}
