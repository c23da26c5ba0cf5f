package handlers

import (
	"errors"
	"net/http"
	"time"

	therapistRepo "visitcare/database/repository/therapist"
	"visitcare/models"
	"visitcare/services/booking"
	"visitcare/services/matching"
	"visitcare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MatchingHandler exposes the matching engine over HTTP.
type MatchingHandler struct {
	MatchingSvc matching.MatchingService
	Repo        therapistRepo.TherapistRepository
}

func NewMatchingHandler(svc matching.MatchingService, repo therapistRepo.TherapistRepository) *MatchingHandler {
	return &MatchingHandler{MatchingSvc: svc, Repo: repo}
}

// SearchTherapists handles POST /api/matching/search.
func (h *MatchingHandler) SearchTherapists(c *gin.Context) {
	var req models.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid match request", err.Error())
		return
	}

	rc := matching.RequestContext{ActorID: c.GetString("actorId"), Now: time.Now()}
	results, err := h.MatchingSvc.FindAvailableTherapists(c.Request.Context(), rc, req)
	if err != nil {
		var matchErr *matching.MatchError
		if errors.As(err, &matchErr) && matchErr.Err == nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid match request", matchErr.Message)
			return
		}
		utils.GetLogger().Error("matching failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Matching failed", "Please try again later")
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// SuggestSlots handles GET /api/matching/slots?therapistId=&date=.
func (h *MatchingHandler) SuggestSlots(c *gin.Context) {
	therapistID := c.Query("therapistId")
	date := c.Query("date")
	if therapistID == "" || date == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing query parameters", "therapistId and date are required")
		return
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid date", "expected YYYY-MM-DD")
		return
	}

	ctx := c.Request.Context()
	therapist, err := h.Repo.GetByID(ctx, therapistID)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "Therapist not found", therapistID)
		return
	}
	bookings, err := h.Repo.GetActiveBookings(ctx, therapistID)
	if err != nil {
		utils.GetLogger().Error("failed to load bookings", zap.String("therapistId", therapistID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load bookings", "Please try again later")
		return
	}

	slots, err := booking.SuggestSlots(*therapist, bookings, date)
	if err != nil {
		utils.GetLogger().Error("failed to compute slots", zap.String("therapistId", therapistID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to compute slots", "Please try again later")
		return
	}

	c.JSON(http.StatusOK, gin.H{"therapistId": therapistID, "date": date, "slots": slots})
}
