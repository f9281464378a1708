package handlers

import (
	"net/http"
	"strconv"

	"recruitd/models"
	"recruitd/services/negotiation"

	"github.com/gin-gonic/gin"
)

// NegotiationHandler exposes the rate negotiation service over HTTP.
type NegotiationHandler struct {
	Service negotiation.Service
}

func NewNegotiationHandler(svc negotiation.Service) *NegotiationHandler {
	return &NegotiationHandler{Service: svc}
}

// Initiate handles POST /negotiations.
func (h *NegotiationHandler) Initiate(c *gin.Context) {
	var in negotiation.InitiateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	created, err := h.Service.Initiate(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Get handles GET /negotiations/:id.
func (h *NegotiationHandler) Get(c *gin.Context) {
	got, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, got)
}

// List handles GET /negotiations.
func (h *NegotiationHandler) List(c *gin.Context) {
	skip, _ := strconv.ParseInt(c.DefaultQuery("skip", "0"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)

	items, total, err := h.Service.List(c.Request.Context(), negotiation.ListQuery{
		SubmissionID: c.Query("submission_id"),
		CandidateID:  c.Query("candidate_id"),
		Status:       models.NegotiationStatus(c.Query("status")),
		Skip:         skip,
		Limit:        limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"negotiations": items,
		"total":        total,
		"skip":         skip,
		"limit":        limit,
	})
}

// AddRound handles POST /negotiations/:id/rounds.
func (h *NegotiationHandler) AddRound(c *gin.Context) {
	var in negotiation.RoundInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	round, err := h.Service.AddRound(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, round)
}

// Rounds handles GET /negotiations/:id/rounds.
func (h *NegotiationHandler) Rounds(c *gin.Context) {
	rounds, err := h.Service.Rounds(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rounds": rounds, "total": len(rounds)})
}

// Counter handles POST /negotiations/:id/counter.
func (h *NegotiationHandler) Counter(c *gin.Context) {
	var in negotiation.CounterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	round, err := h.Service.SubmitCounter(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, round)
}

// EvaluateMargin handles POST /negotiations/:id/evaluate-margin.
func (h *NegotiationHandler) EvaluateMargin(c *gin.Context) {
	var in struct {
		ProposedRate float64 `json:"proposed_rate"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	eval, err := h.Service.EvaluateMargin(c.Request.Context(), c.Param("id"), in.ProposedRate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, eval)
}

// SuggestRate handles POST /negotiations/:id/suggest-rate.
func (h *NegotiationHandler) SuggestRate(c *gin.Context) {
	suggestion, err := h.Service.SuggestRate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, suggestion)
}

// AutoNegotiate handles POST /negotiations/:id/auto-negotiate.
func (h *NegotiationHandler) AutoNegotiate(c *gin.Context) {
	strategy := negotiation.Strategy(c.DefaultQuery("strategy", string(negotiation.StrategyBalanced)))

	result, err := h.Service.AutoNegotiate(c.Request.Context(), c.Param("id"), strategy)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Finalize handles POST /negotiations/:id/finalize.
func (h *NegotiationHandler) Finalize(c *gin.Context) {
	var in struct {
		AgreedRate float64         `json:"agreed_rate"`
		RateType   models.RateType `json:"rate_type"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	finalized, err := h.Service.Finalize(c.Request.Context(), c.Param("id"), in.AgreedRate, in.RateType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, finalized)
}

// Terminate handles POST /negotiations/:id/terminate.
func (h *NegotiationHandler) Terminate(c *gin.Context) {
	var in struct {
		Status models.NegotiationStatus `json:"status"`
		Reason string                   `json:"reason"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	terminated, err := h.Service.Terminate(c.Request.Context(), c.Param("id"), in.Status, in.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, terminated)
}

// Analytics handles GET /negotiations/analytics.
func (h *NegotiationHandler) Analytics(c *gin.Context) {
	analytics, err := h.Service.Analytics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}
