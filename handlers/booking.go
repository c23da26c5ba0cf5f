package handlers

import (
	"net/http"
	"time"

	"visitcare/models"
	"visitcare/services/booking"
	"visitcare/services/matching"
	"visitcare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking session flow.
type BookingHandler struct {
	SessionSvc booking.BookingSessionService
}

func NewBookingHandler(svc booking.BookingSessionService) *BookingHandler {
	return &BookingHandler{SessionSvc: svc}
}

type initiateSessionRequest struct {
	Request models.MatchRequest `json:"request" binding:"required"`
	Visits  []time.Time         `json:"visits,omitempty"`
}

// InitiateSession handles POST /api/bookings/sessions.
func (h *BookingHandler) InitiateSession(c *gin.Context) {
	var body initiateSessionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid session request", err.Error())
		return
	}

	rc := matching.RequestContext{ActorID: c.GetString("actorId"), Now: time.Now()}
	session, err := h.SessionSvc.InitiateSession(c.Request.Context(), rc, body.Request, body.Visits)
	if err != nil {
		utils.GetLogger().Error("failed to initiate session", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to initiate booking session", "Please try again later")
		return
	}

	c.JSON(http.StatusOK, session)
}

type confirmVisitRequest struct {
	TherapistID string    `json:"therapistId" binding:"required"`
	Visit       time.Time `json:"visit" binding:"required"`
}

// ConfirmVisit handles POST /api/bookings/sessions/:id/confirm.
func (h *BookingHandler) ConfirmVisit(c *gin.Context) {
	sessionID := c.Param("id")
	var body confirmVisitRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid confirmation request", err.Error())
		return
	}

	rc := matching.RequestContext{ActorID: c.GetString("actorId"), Now: time.Now()}
	bookingRecord, err := h.SessionSvc.ConfirmVisit(c.Request.Context(), rc, sessionID, body.TherapistID, body.Visit)
	if err != nil {
		utils.JSONError(c, http.StatusConflict, "Could not confirm visit", err.Error())
		return
	}

	c.JSON(http.StatusOK, bookingRecord)
}

// CancelSession handles DELETE /api/bookings/sessions/:id.
func (h *BookingHandler) CancelSession(c *gin.Context) {
	sessionID := c.Param("id")
	if err := h.SessionSvc.CancelSession(c.Request.Context(), sessionID); err != nil {
		utils.JSONError(c, http.StatusNotFound, "Could not cancel session", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": sessionID})
}
