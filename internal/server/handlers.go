package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/DINAL11/3D-Word-Cloud-Dinal/analyzer"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/ingest"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/logger"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/service"
)

const untitled = "Untitled Article"

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	Text     string `json:"text"`
	Title    string `json:"title"`
	MaxWords int    `json:"max_words" binding:"omitempty,min=1,max=500"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "3D Word Cloud API",
		"version": Version,
		"endpoints": gin.H{
			"/analyze": "POST - Analyze article text",
			"/health":  "GET - Health check",
			"/metrics": "GET - Prometheus metrics",
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "API is running",
	})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, "Request body too large.", err)
			return
		}
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error(), err)
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = untitled
	}
	doc := ingest.Document{Title: title, Text: req.Text}
	art, err := s.svc.AnalyzeDocument(c.Request.Context(), doc, req.MaxWords)
	if err != nil {
		status, detail := statusFor(err)
		respondError(c, status, detail, err)
		return
	}
	logger.FromContext(c.Request.Context()).Info("Analyzed article",
		"title", art.Title,
		"keywords", len(art.Keywords),
		"strategy", art.Strategy,
	)
	c.JSON(http.StatusOK, art)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, analyzer.ErrEmptyContent):
		return http.StatusBadRequest, "The text contains no analyzable content."
	case errors.Is(err, analyzer.ErrNoKeywordsExtracted):
		return http.StatusUnprocessableEntity,
			"Text analysis failed. The article may not contain enough meaningful content."
	case errors.Is(err, service.ErrInputTooLarge):
		return http.StatusRequestEntityTooLarge, "The text exceeds the maximum accepted size."
	default:
		return http.StatusInternalServerError, "An error occurred while analyzing the article."
	}
}

func respondError(c *gin.Context, status int, detail string, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, errorResponse{Detail: detail})
}
