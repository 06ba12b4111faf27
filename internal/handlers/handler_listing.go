package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/propnest_backend/internal/core/ports/services"
	"github.com/SscSPs/propnest_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

type listingHandler struct {
	listingService portssvc.ListingSvcFacade
}

func registerListingRoutes(rg *gin.RouterGroup, listingService portssvc.ListingSvcFacade) {
	h := &listingHandler{listingService: listingService}

	listings := rg.Group("/listings")
	{
		listings.POST("", h.create)
		listings.GET("/mine", h.listMine)
		listings.GET("/:listingID", h.get)
		listings.GET("/:listingID/reviews", h.listReviews)
		listings.POST("/:listingID/reviews", h.createReview)
	}
}

// create godoc
// @Summary Publish a listing
// @Tags listings
// @Accept json
// @Produce json
// @Param listing body dto.CreateListingRequest true "Listing"
// @Success 201 {object} dto.ListingResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /listings [post]
func (h *listingHandler) create(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}
	var req dto.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	listing, err := h.listingService.CreateListing(c.Request.Context(), p.AccountID, req)
	if err != nil {
		respondError(c, err, "Failed to create listing")
		return
	}
	c.JSON(http.StatusCreated, dto.ToListingResponse(listing))
}

// listMine godoc
// @Summary List the caller's listings
// @Tags listings
// @Produce json
// @Success 200 {object} dto.ListListingsResponse
// @Security BearerAuth
// @Router /listings/mine [get]
func (h *listingHandler) listMine(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}
	listings, err := h.listingService.ListListingsByOwner(c.Request.Context(), p.AccountID)
	if err != nil {
		respondError(c, err, "Failed to list listings")
		return
	}
	c.JSON(http.StatusOK, dto.ToListListingsResponse(listings))
}

// get godoc
// @Summary Get a listing
// @Tags listings
// @Produce json
// @Param listingID path string true "Listing ID"
// @Success 200 {object} dto.ListingResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /listings/{listingID} [get]
func (h *listingHandler) get(c *gin.Context) {
	listing, err := h.listingService.GetListing(c.Request.Context(), c.Param("listingID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve listing")
		return
	}
	c.JSON(http.StatusOK, dto.ToListingResponse(listing))
}

// listReviews godoc
// @Summary List the reviews of a listing
// @Tags listings
// @Produce json
// @Param listingID path string true "Listing ID"
// @Success 200 {object} dto.ListReviewsResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /listings/{listingID}/reviews [get]
func (h *listingHandler) listReviews(c *gin.Context) {
	reviews, err := h.listingService.ListReviews(c.Request.Context(), c.Param("listingID"))
	if err != nil {
		respondError(c, err, "Failed to list reviews")
		return
	}
	c.JSON(http.StatusOK, dto.ListReviewsResponse{Reviews: reviews})
}

// createReview godoc
// @Summary Review a listing
// @Description Stores the review and credits REVIEW_LISTING points. One review per listing per account.
// @Tags listings
// @Accept json
// @Produce json
// @Param listingID path string true "Listing ID"
// @Param review body dto.CreateReviewRequest true "Review"
// @Success 201 {object} dto.ReviewResponse
// @Failure 400 {object} ErrorResponse "Validation error or own listing"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already reviewed"
// @Security BearerAuth
// @Router /listings/{listingID}/reviews [post]
func (h *listingHandler) createReview(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}
	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	review, balance, err := h.listingService.CreateReview(c.Request.Context(), c.Param("listingID"), p.AccountID, req)
	if err != nil {
		respondError(c, err, "Failed to create review")
		return
	}
	c.JSON(http.StatusCreated, dto.ReviewResponse{
		ReviewID:       review.ReviewID,
		ListingID:      review.ListingID,
		Rating:         review.Rating,
		Comment:        review.Comment,
		CreatedAt:      review.CreatedAt,
		NewPointsTotal: balance,
	})
}
