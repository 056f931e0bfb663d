package ui

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"edanalyzer/adapters/ingest"
	"edanalyzer/app"
	"edanalyzer/internal/errors"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "EDA Analyzer backend is running"})
}

// handleAnalyze accepts a multipart upload ("file", optional "format" and
// "analysis_request" fields) and runs the full analysis pipeline on it
func (s *Server) handleAnalyze(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}
	if s.cfg.MaxUploadBytes > 0 && fileHeader.Size > s.cfg.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds the upload size limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}

	req := app.Request{
		Data:            data,
		Filename:        fileHeader.Filename,
		Format:          ingest.Format(c.PostForm("format")),
		AnalysisRequest: c.PostForm("analysis_request"),
	}

	result, err := s.pipeline.Analyze(c.Request.Context(), req)
	if err != nil {
		s.log.Errorf("analysis failed: %v", err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// statusFor maps pipeline errors to HTTP statuses. Ingestion-class failures
// are the caller's fault; anything else is ours.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeIngestionError, errors.CodeEmptyDataset, errors.CodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
