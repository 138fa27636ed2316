package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/openledger/bankrecon/internal/api/dto"
	"github.com/openledger/bankrecon/internal/domain/engine"
	"github.com/openledger/bankrecon/internal/infrastructure/storage"
	"github.com/openledger/bankrecon/internal/ingest"
	"github.com/openledger/bankrecon/internal/report"
)

// handleHealth handles GET /health.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewHealthResponse())
}

// handleReconcile handles POST /api/reconcile. It expects a multipart form
// with a ledger_file and a bank_file, both in the canonical CSV schema.
func (s *Server) handleReconcile(c *gin.Context) {
	ledgerRecords, ledgerName, ok := s.readUpload(c, "ledger_file", engine.OriginLedger)
	if !ok {
		return
	}
	bankRecords, bankName, ok := s.readUpload(c, "bank_file", engine.OriginBank)
	if !ok {
		return
	}

	outcomes, err := s.engine.Reconcile(ledgerRecords, bankRecords)
	if err != nil {
		status, apiErr := mapReconcileError(err)
		c.JSON(status, apiErr)
		return
	}

	response := dto.ReconcileResponse{
		Summary:  report.Summarize(outcomes),
		Outcomes: report.Rows(outcomes),
	}

	if s.repo != nil {
		run, records := storage.NewRun(ledgerName, bankName, outcomes)
		if err := s.repo.SaveRun(run, records); err != nil {
			s.logger.Error("failed to persist run", "error", err)
			c.JSON(http.StatusInternalServerError, dto.InternalError())
			return
		}
		runResponse := dto.ToRunResponse(run)
		response.Run = &runResponse
	}

	c.JSON(http.StatusOK, response)
}

// readUpload opens one multipart file field and parses it into engine
// records. On failure it writes the error response and returns ok=false.
func (s *Server) readUpload(c *gin.Context, field string, origin engine.Origin) ([]engine.TransactionRecord, string, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError(field+" is required"))
		return nil, "", false
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("failed to open "+field))
		return nil, "", false
	}
	defer file.Close()

	records, err := ingest.ReadRecords(file, origin)
	if err != nil {
		status, apiErr := mapReconcileError(err)
		c.JSON(status, apiErr)
		return nil, "", false
	}

	return records, header.Filename, true
}

// handleListRuns handles GET /api/runs.
func (s *Server) handleListRuns(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	response := dto.RunListResponse{Runs: []dto.RunResponse{}}
	if s.repo == nil {
		c.JSON(http.StatusOK, response)
		return
	}

	runs, err := s.repo.ListRuns(limit)
	if err != nil {
		s.logger.Error("failed to list runs", "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	for _, run := range runs {
		response.Runs = append(response.Runs, dto.ToRunResponse(run))
	}
	response.TotalCount = len(response.Runs)
	c.JSON(http.StatusOK, response)
}

// handleGetRun handles GET /api/runs/:id, returning the run header and its
// outcome rows in emission order.
func (s *Server) handleGetRun(c *gin.Context) {
	id := c.Param("id")

	if s.repo == nil {
		c.JSON(http.StatusNotFound, dto.NotFoundError("run"))
		return
	}

	run, err := s.repo.GetRun(id)
	if err != nil {
		s.logger.Error("failed to get run", "run_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, dto.NotFoundError("run"))
		return
	}

	outcomes, err := s.repo.GetOutcomes(id)
	if err != nil {
		s.logger.Error("failed to get outcomes", "run_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, dto.RunDetailResponse{
		Run:      dto.ToRunResponse(run),
		Outcomes: outcomes,
	})
}

// handleStats handles GET /api/stats.
func (s *Server) handleStats(c *gin.Context) {
	if s.repo == nil {
		c.JSON(http.StatusOK, &storage.Stats{})
		return
	}

	stats, err := s.repo.GetStats()
	if err != nil {
		s.logger.Error("failed to get stats", "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, stats)
}

// mapReconcileError translates the engine's error taxonomy into HTTP
// responses. Every validation failure is the caller's problem; anything
// else is ours.
func mapReconcileError(err error) (int, dto.APIError) {
	var schemaErr *engine.SchemaError
	if errors.As(err, &schemaErr) {
		return http.StatusBadRequest, dto.ValidationError(schemaErr.Error())
	}

	var emptyErr *engine.EmptyInputError
	if errors.As(err, &emptyErr) {
		return http.StatusBadRequest, dto.ValidationError(emptyErr.Error())
	}

	var readErr *engine.ReadError
	if errors.As(err, &readErr) {
		return http.StatusBadRequest, dto.BadRequestError(readErr.Error())
	}

	var cfgErr *engine.ConfigError
	if errors.As(err, &cfgErr) {
		return http.StatusInternalServerError, dto.InternalError()
	}

	return http.StatusInternalServerError, dto.InternalError()
}
