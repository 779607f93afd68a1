package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dqsuggest/adapters/memory"
	"dqsuggest/domain/check"
	"dqsuggest/internal"
	"dqsuggest/internal/errors"
	"dqsuggest/internal/runner"
	"dqsuggest/internal/verifier"
	"dqsuggest/ports"
)

// Server exposes suggestion and verification runs over HTTP for callers
// that cannot link the library directly. Datasets arrive inline in the
// request body; persistence of runs is optional.
type Server struct {
	runner *runner.Runner
	repo   ports.SuggestionRepository
	logger *internal.Logger
}

// NewServer creates an API server. The repository may be nil, in which
// case runs are not persisted.
func NewServer(r *runner.Runner, repo ports.SuggestionRepository, logger *internal.Logger) *Server {
	if r == nil {
		r = runner.New(nil, logger)
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Server{runner: r, repo: repo, logger: logger}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := engine.Group("/v1")
	v1.POST("/suggestions", s.handleSuggest)
	v1.POST("/profiles", s.handleProfile)
	v1.POST("/verifications", s.handleVerify)
	v1.GET("/runs/:id", s.handleGetRun)

	return engine
}

// datasetPayload is the inline tabular dataset shape: a header plus rows
// of nullable strings.
type datasetPayload struct {
	Columns []string    `json:"columns" binding:"required"`
	Rows    [][]*string `json:"rows"`
}

func (p datasetPayload) dataset() *memory.Dataset {
	rows := make([]ports.Row, len(p.Rows))
	for i, rec := range p.Rows {
		row := make(ports.Row, len(p.Columns))
		for j, col := range p.Columns {
			if j >= len(rec) || rec[j] == nil {
				row[col] = ports.Cell{Null: true}
			} else {
				row[col] = ports.Cell{Raw: *rec[j]}
			}
		}
		rows[i] = row
	}
	return memory.New(p.Columns, rows)
}

type suggestRequest struct {
	Dataset       datasetPayload `json:"dataset" binding:"required"`
	SplitRatio    float64        `json:"split_ratio"`
	Seed          int64          `json:"seed"`
	Columns       []string       `json:"columns"`
	Excluded      []string       `json:"excluded_columns"`
	DisabledRules []string       `json:"disabled_rules"`
	Source        string         `json:"source"`
}

// handleSuggest runs the suggestion flow on an inline dataset.
func (s *Server) handleSuggest(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := s.runner.Run(c.Request.Context(), req.Dataset.dataset(), runner.Config{
		Columns:         req.Columns,
		ExcludedColumns: req.Excluded,
		DisabledRules:   req.DisabledRules,
		SplitRatio:      req.SplitRatio,
		Seed:            req.Seed,
	})
	if err != nil {
		s.renderError(c, err)
		return
	}

	if s.repo != nil {
		run := ports.SuggestionRun{
			RunID:       report.RunID,
			Source:      req.Source,
			RowCount:    report.Profile.RowCount,
			Suggestions: report.Export(),
		}
		if err := s.repo.SaveRun(c.Request.Context(), run); err != nil {
			s.logger.Warn("failed to persist suggestion run %s: %v", report.RunID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":      report.RunID,
		"profile":     report.Profile,
		"suggestions": report.Export(),
	})
}

// handleProfile runs the profiler only.
func (s *Server) handleProfile(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prof, err := s.runner.ProfileOnly(c.Request.Context(), req.Dataset.dataset(), runner.Config{
		Columns:         req.Columns,
		ExcludedColumns: req.Excluded,
	})
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, prof)
}

// handleGetRun returns a persisted suggestion run.
func (s *Server) handleGetRun(c *gin.Context) {
	if s.repo == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run persistence is not configured"})
		return
	}
	run, err := s.repo.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

type verifyRequest struct {
	Dataset datasetPayload `json:"dataset" binding:"required"`
	Checks  []check.Check  `json:"checks" binding:"required"`
}

// handleVerify evaluates caller-provided checks against an inline
// dataset.
func (s *Server) handleVerify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := verifier.New().Run(c.Request.Context(), req.Dataset.dataset(), req.Checks)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":  result.RunID,
		"status":  result.Status,
		"records": result.Export(),
	})
}

func (s *Server) renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeConfigInvalid, errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeNotFound:
		status = http.StatusNotFound
	}
	s.logger.Error("request failed: %v", err)
	c.JSON(status, gin.H{"error": err.Error(), "code": errors.GetCode(err)})
}
