package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"crosswarped.com/xwsolve"
	"crosswarped.com/xwsolve/pkg/primitives"
)

const solveTimeout = 30 * time.Second

func main() {
	e := gin.Default()
	v1 := e.Group("/api").
		Group("/v1")

	handler := NewSolveHandler(solveTimeout)
	v1.POST("/solve", handler.Solve)

	if err := e.Run(":8080"); err != nil {
		log.Fatal().Err(err).Msg("run server")
	}
}

type SolveRequest struct {
	Grid         [][]string `json:"grid" binding:"required"`
	Words        []string   `json:"words" binding:"required"`
	MaxSolutions int        `json:"maxSolutions"`
	Seed         *uint64    `json:"seed"`
}

type SolveHandler struct {
	timeout time.Duration
}

func NewSolveHandler(timeout time.Duration) *SolveHandler {
	return &SolveHandler{timeout: timeout}
}

func (h *SolveHandler) Solve(c *gin.Context) {
	var req SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Err(err).Msg("bind solve request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	grid, err := xwsolve.ParseGrid(req.Grid)
	if err != nil {
		log.Err(err).Msg("parse grid")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid grid", "message": err.Error()})
		return
	}

	lex, err := primitives.NewLexicon(req.Words)
	if err != nil {
		log.Err(err).Msg("build lexicon")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dictionary", "message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	cfg := xwsolve.Config{
		MaxSolutions: req.MaxSolutions,
		Seed:         req.Seed,
		Progress: func(p xwsolve.Progress) {
			if p.DomainWipedBy != "" {
				log.Warn().Str("slot", p.DomainWipedBy).Msg("arc consistency wiped a domain")
			}
		},
	}

	solver := xwsolve.New(lex)
	solution, err := solver.Solve(ctx, grid, cfg)
	if err != nil {
		switch {
		case errors.Is(err, xwsolve.ErrNoSolution):
			c.JSON(http.StatusOK, gin.H{"solved": false, "error": "No solution"})
		case errors.Is(err, xwsolve.ErrNoSlots):
			c.JSON(http.StatusOK, gin.H{"solved": false, "error": "Grid has no slots"})
		case errors.Is(err, xwsolve.ErrCancelled):
			c.JSON(http.StatusRequestTimeout, gin.H{"solved": false, "error": "Solve timed out"})
		default:
			log.Err(err).Msg("solve")
			c.JSON(http.StatusInternalServerError, gin.H{"solved": false, "error": err.Error()})
		}
		return
	}

	log.Info().
		Uint64("recursive_calls", solution.Stats.RecursiveCalls).
		Dur("elapsed", solution.Stats.Elapsed).
		Int("slots", len(solution.Assignment)).
		Msg("solved grid")

	c.JSON(http.StatusOK, gin.H{
		"solved":     true,
		"grid":       solution.Render(),
		"assignment": solution.Assignment,
		"across":     solution.Across,
		"down":       solution.Down,
		"stats":      solution.Stats,
	})
}
