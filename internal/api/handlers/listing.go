package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/estate-ease/api/internal/api/middleware"
	"github.com/estate-ease/api/internal/models"
	"github.com/estate-ease/api/internal/repositories"
	"github.com/estate-ease/api/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ListingHandler struct {
	Listings *repositories.ListingRepository
	Log      *zap.Logger
}

// POST /api/listing/create
// CreateListing godoc
// @Summary Create a listing owned by the authenticated user
// @Tags Listings
// @Accept json
// @Produce json
// @Success 201 {object} models.Listing
// @Failure 400 {object} utils.ErrorBody
// @Failure 401 {object} utils.ErrorBody
// @Router /api/listing/create [post]
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var listing models.Listing
	if err := json.NewDecoder(r.Body).Decode(&listing); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	// Server-assigned fields; whatever the client sent here is ignored.
	// Timestamps must be zeroed too, or a forged createdAt would pin the
	// listing to the top of the default search order.
	listing.ID = uuid.Nil
	listing.UserRef = callerID
	listing.CreatedAt = time.Time{}
	listing.UpdatedAt = time.Time{}

	err := h.Listings.Create(r.Context(), &listing)
	if errors.Is(err, models.ErrInvalidListing) {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.Log.Error("create listing", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, listing)
}

// GET /api/listing/get/{id}
// GetListing godoc
// @Summary Fetch a single listing
// @Tags Listings
// @Produce json
// @Param id path string true "Listing id"
// @Success 200 {object} models.Listing
// @Failure 404 {object} utils.ErrorBody
// @Router /api/listing/get/{id} [get]
func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.JSONError(w, http.StatusNotFound, "Listing not found")
		return
	}

	listing, err := h.Listings.GetByID(r.Context(), id)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrNotFound):
		utils.JSONError(w, http.StatusNotFound, "Listing not found")
		return
	default:
		h.Log.Error("get listing", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.WriteJSON(w, http.StatusOK, listing)
}

// PUT /api/listing/update/{id}
// UpdateListing godoc
// @Summary Merge fields into a listing the caller owns
// @Tags Listings
// @Accept json
// @Produce json
// @Param id path string true "Listing id"
// @Success 200 {object} models.Listing
// @Failure 400 {object} utils.ErrorBody
// @Failure 403 {object} utils.ErrorBody
// @Failure 404 {object} utils.ErrorBody
// @Router /api/listing/update/{id} [put]
func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.JSONError(w, http.StatusNotFound, "Listing not found")
		return
	}

	var update repositories.ListingUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	listing, err := h.Listings.Update(r.Context(), id, callerID, update)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrNotFound):
		utils.JSONError(w, http.StatusNotFound, "Listing not found")
		return
	case errors.Is(err, repositories.ErrNotOwner):
		utils.JSONError(w, http.StatusForbidden, "You can only update your own listings")
		return
	case errors.Is(err, models.ErrInvalidListing):
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	default:
		h.Log.Error("update listing", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.WriteJSON(w, http.StatusOK, listing)
}

// DELETE /api/listing/delete/{id}
// DeleteListing godoc
// @Summary Permanently delete a listing the caller owns
// @Tags Listings
// @Produce json
// @Param id path string true "Listing id"
// @Success 200 {object} utils.Payload
// @Failure 403 {object} utils.ErrorBody
// @Failure 404 {object} utils.ErrorBody
// @Router /api/listing/delete/{id} [delete]
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.JSONError(w, http.StatusNotFound, "Listing not found")
		return
	}

	err = h.Listings.Delete(r.Context(), id, callerID)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrNotFound):
		utils.JSONError(w, http.StatusNotFound, "Listing not found")
		return
	case errors.Is(err, repositories.ErrNotOwner):
		utils.JSONError(w, http.StatusForbidden, "You can only delete your own listings")
		return
	default:
		h.Log.Error("delete listing", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Listing has been deleted",
	})
}

// GET /api/listing/get
// SearchListings godoc
// @Summary Search listings with filters, sort and pagination
// @Tags Listings
// @Produce json
// @Param searchTerm query string false "Substring match on name"
// @Param type query string false "sale, rent or all"
// @Param offer query bool false "Filter on offer flag"
// @Param parking query bool false "Filter on parking flag"
// @Param furnished query bool false "Filter on furnished flag"
// @Param sort query string false "Sort field (allow-listed)"
// @Param order query string false "asc or desc"
// @Param limit query int false "Page size (default 9)"
// @Param startIndex query int false "Offset (default 0)"
// @Success 200 {array} models.Listing
// @Router /api/listing/get [get]
func (h *ListingHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := repositories.SearchParams{
		SearchTerm: q.Get("searchTerm"),
		Type:       q.Get("type"),
		Offer:      parseTriState(q.Get("offer")),
		Parking:    parseTriState(q.Get("parking")),
		Furnished:  parseTriState(q.Get("furnished")),
		Sort:       q.Get("sort"),
		Order:      q.Get("order"),
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		params.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("startIndex")); err == nil {
		params.StartIndex = v
	}

	listings, err := h.Listings.Search(r.Context(), params)
	if err != nil {
		h.Log.Error("search listings", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.WriteJSON(w, http.StatusOK, listings)
}

// parseTriState maps "true"/"false" to a filter value and anything else
// (including "any" and absence) to no filter at all.
func parseTriState(value string) *bool {
	switch value {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	default:
		return nil
	}
}
