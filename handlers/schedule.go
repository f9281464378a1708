package handlers

import (
	"net/http"
	"strconv"
	"time"

	"recruitd/models"
	"recruitd/services/scheduling"

	"github.com/gin-gonic/gin"
)

// ScheduleHandler exposes the interview scheduling service over HTTP.
type ScheduleHandler struct {
	Service scheduling.Service
}

func NewScheduleHandler(svc scheduling.Service) *ScheduleHandler {
	return &ScheduleHandler{Service: svc}
}

// Schedule handles POST /negotiations/interview-schedule.
func (h *ScheduleHandler) Schedule(c *gin.Context) {
	var in scheduling.ScheduleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	created, err := h.Service.Schedule(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Get handles GET /negotiations/interview-schedule/:id.
func (h *ScheduleHandler) Get(c *gin.Context) {
	got, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, got)
}

// List handles GET /negotiations/interview-schedule.
func (h *ScheduleHandler) List(c *gin.Context) {
	skip, _ := strconv.ParseInt(c.DefaultQuery("skip", "0"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)

	items, total, err := h.Service.List(c.Request.Context(), scheduling.ListQuery{
		CandidateID:   c.Query("candidate_id"),
		RequirementID: c.Query("requirement_id"),
		Status:        models.ScheduleStatus(c.Query("status")),
		Skip:          skip,
		Limit:         limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"schedules": items,
		"total":     total,
		"skip":      skip,
		"limit":     limit,
	})
}

// Reschedule handles PUT /negotiations/interview-schedule/:id/reschedule.
func (h *ScheduleHandler) Reschedule(c *gin.Context) {
	var in scheduling.RescheduleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	updated, err := h.Service.Reschedule(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Cancel handles POST /negotiations/interview-schedule/:id/cancel.
func (h *ScheduleHandler) Cancel(c *gin.Context) {
	var in struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	cancelled, err := h.Service.Cancel(c.Request.Context(), c.Param("id"), in.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cancelled)
}

// Confirm handles POST /negotiations/interview-schedule/:id/confirm.
func (h *ScheduleHandler) Confirm(c *gin.Context) {
	var in struct {
		Party string `json:"party"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	confirmed, err := h.Service.Confirm(c.Request.Context(), c.Param("id"), in.Party)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, confirmed)
}

// Complete handles POST /negotiations/interview-schedule/:id/complete.
func (h *ScheduleHandler) Complete(c *gin.Context) {
	updated, err := h.Service.MarkOutcome(c.Request.Context(), c.Param("id"), models.ScheduleCompleted)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// NoShow handles POST /negotiations/interview-schedule/:id/no-show.
func (h *ScheduleHandler) NoShow(c *gin.Context) {
	updated, err := h.Service.MarkOutcome(c.Request.Context(), c.Param("id"), models.ScheduleNoShow)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// CheckAvailability handles POST /negotiations/interview-schedule/check-availability.
func (h *ScheduleHandler) CheckAvailability(c *gin.Context) {
	var q scheduling.AvailabilityQuery
	if err := c.ShouldBindJSON(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := h.Service.CheckAvailability(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SendReminders handles POST /negotiations/interview-schedule/send-reminders.
func (h *ScheduleHandler) SendReminders(c *gin.Context) {
	hoursBefore, err := strconv.Atoi(c.DefaultQuery("hours_before", "24"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hours_before must be an integer"})
		return
	}

	sent, err := h.Service.SendReminders(c.Request.Context(), hoursBefore, time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reminders_sent": len(sent),
		"schedule_ids":   sent,
	})
}

// Analytics handles GET /negotiations/interview-schedule/analytics.
func (h *ScheduleHandler) Analytics(c *gin.Context) {
	analytics, err := h.Service.Analytics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}
