package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
	"github.com/shopspring/decimal"

	"bolao/internal/models"
	"bolao/internal/services"
)

// HTTPHandler holds the dependencies for the HTTP handlers.
type HTTPHandler struct {
	bolao       *services.BolaoService
	reprocessor *services.ReprocessService
}

// NewHTTPHandler creates a new HTTPHandler.
func NewHTTPHandler(bolao *services.BolaoService, reprocessor *services.ReprocessService) *HTTPHandler {
	return &HTTPHandler{bolao: bolao, reprocessor: reprocessor}
}

// RegisterRoutes registers all the application routes.
func (h *HTTPHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/contests", h.CreateContest)
	router.GET("/contests/:id", h.GetContest)
	router.POST("/contests/:id/participations", h.RegisterParticipation)
	router.POST("/contests/:id/draws", h.RecordDraw)
	router.PUT("/contests/:id/draws/:drawID", h.UpdateDraw)
	router.DELETE("/contests/:id/draws/:drawID", h.DeleteDraw)
	router.POST("/contests/:id/reprocess", h.Reprocess)
	router.GET("/contests/:id/standings", h.Standings)
	router.GET("/contests/:id/draws/:drawID/payouts", h.PayoutsForDraw)
}

type contestRequest struct {
	Name                    string `json:"name" binding:"required"`
	MinNumber               int    `json:"minNumber" binding:"required"`
	MaxNumber               int    `json:"maxNumber" binding:"required"`
	NumbersPerParticipation int    `json:"numbersPerParticipation" binding:"required"`
	TopPct                  string `json:"topPct"`
	SecondPct               string `json:"secondPct"`
	LowestPct               string `json:"lowestPct"`
	AdminFeePct             string `json:"adminFeePct"`
}

// CreateContest handles POST /contests.
func (h *HTTPHandler) CreateContest(c *gin.Context) {
	var req contestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pct, err := parsePercentages(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contest, err := h.bolao.CreateContest(c.Request.Context(), models.Contest{
		Name:                    req.Name,
		MinNumber:               req.MinNumber,
		MaxNumber:               req.MaxNumber,
		NumbersPerParticipation: req.NumbersPerParticipation,
		Percentages:             pct,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, contest)
}

// parsePercentages builds a PercentConfig from the optional string fields.
// All four empty means "use the default split"; anything else must be four
// parseable decimals (a bad sum is caught later by Validate).
func parsePercentages(req contestRequest) (models.PercentConfig, error) {
	if req.TopPct == "" && req.SecondPct == "" && req.LowestPct == "" && req.AdminFeePct == "" {
		return models.PercentConfig{}, nil
	}
	var pct models.PercentConfig
	var err error
	if pct.TopPct, err = decimal.NewFromString(req.TopPct); err != nil {
		return pct, err
	}
	if pct.SecondPct, err = decimal.NewFromString(req.SecondPct); err != nil {
		return pct, err
	}
	if pct.LowestPct, err = decimal.NewFromString(req.LowestPct); err != nil {
		return pct, err
	}
	if pct.AdminFeePct, err = decimal.NewFromString(req.AdminFeePct); err != nil {
		return pct, err
	}
	return pct, nil
}

// GetContest handles GET /contests/:id.
func (h *HTTPHandler) GetContest(c *gin.Context) {
	contest, err := h.bolao.GetContest(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, contest)
}

type participationRequest struct {
	UserID     string `json:"userId" binding:"required"`
	Numbers    []int  `json:"numbers" binding:"required"`
	TicketCode string `json:"ticketCode"`
	AmountPaid string `json:"amountPaid" binding:"required"`
}

// RegisterParticipation handles POST /contests/:id/participations.
func (h *HTTPHandler) RegisterParticipation(c *gin.Context) {
	var req participationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, err := decimal.NewFromString(req.AmountPaid)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amountPaid: " + err.Error()})
		return
	}
	p, err := h.bolao.RegisterParticipation(c.Request.Context(), models.Participation{
		ContestID:  c.Param("id"),
		UserID:     req.UserID,
		Numbers:    req.Numbers,
		TicketCode: req.TicketCode,
		AmountPaid: amount,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

type drawRequest struct {
	Numbers      []int     `json:"numbers" binding:"required"`
	NumbersCount int       `json:"numbersCount"`
	DrawDate     time.Time `json:"drawDate" binding:"required"`
}

// RecordDraw handles POST /contests/:id/draws.
func (h *HTTPHandler) RecordDraw(c *gin.Context) {
	var req drawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, report, err := h.bolao.RecordDraw(c.Request.Context(), models.Draw{
		ContestID:    c.Param("id"),
		Numbers:      req.Numbers,
		NumbersCount: req.NumbersCount,
		DrawDate:     req.DrawDate,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"draw": d, "report": report})
}

// UpdateDraw handles PUT /contests/:id/draws/:drawID.
func (h *HTTPHandler) UpdateDraw(c *gin.Context) {
	var req drawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, report, err := h.bolao.UpdateDraw(c.Request.Context(), models.Draw{
		ID:           c.Param("drawID"),
		ContestID:    c.Param("id"),
		Numbers:      req.Numbers,
		NumbersCount: req.NumbersCount,
		DrawDate:     req.DrawDate,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draw": d, "report": report})
}

// DeleteDraw handles DELETE /contests/:id/draws/:drawID.
func (h *HTTPHandler) DeleteDraw(c *gin.Context) {
	report, err := h.bolao.DeleteDraw(c.Request.Context(), c.Param("id"), c.Param("drawID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

// Reprocess handles POST /contests/:id/reprocess.
func (h *HTTPHandler) Reprocess(c *gin.Context) {
	report, err := h.reprocessor.Reprocess(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Standings handles GET /contests/:id/standings.
func (h *HTTPHandler) Standings(c *gin.Context) {
	parts, err := h.bolao.Standings(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"standings": parts})
}

// PayoutsForDraw handles GET /contests/:id/draws/:drawID/payouts.
func (h *HTTPHandler) PayoutsForDraw(c *gin.Context) {
	payouts, err := h.bolao.PayoutsForDraw(c.Request.Context(), c.Param("drawID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payouts": payouts})
}

// fail maps service errors onto HTTP statuses.
func (h *HTTPHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, models.ErrPercentConfig),
		errors.Is(err, services.ErrNumberRange),
		errors.Is(err, services.ErrContestClosed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Errorf("request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
