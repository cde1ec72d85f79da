package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/destiny/internal/domain/analysis"
	apperrors "github.com/yanqian/destiny/pkg/errors"
)

// AnalysisHandler exposes the analysis orchestrator over HTTP.
type AnalysisHandler struct {
	svc    analysis.Service
	logger *slog.Logger
}

// NewAnalysisHandler constructs the analysis transport.
func NewAnalysisHandler(svc analysis.Service, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		svc:    svc,
		logger: logger.With("component", "http.handler"),
	}
}

type analysisRequest struct {
	Name       string              `json:"name"`
	Gender     string              `json:"gender"`
	BirthTime  string              `json:"birthTime"`
	BirthPlace analysis.BirthPlace `json:"birthPlace"`
	Type       string              `json:"type"`
	AsOf       string              `json:"asOf"`
}

// Analyze handles POST /api/v1/analyses.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var body analysisRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	req, err := body.toRequest()
	if err != nil {
		abortWithError(c, fromAppError(err))
		return
	}
	req.Subject = subjectFrom(c)

	result, err := h.svc.Analyze(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromAppError(err))
		return
	}
	c.JSON(http.StatusOK, result)
}

// Invalidate handles DELETE /api/v1/analyses/:fingerprint.
func (h *AnalysisHandler) Invalidate(c *gin.Context) {
	fingerprint := c.Param("fingerprint")
	if err := h.svc.Invalidate(c.Request.Context(), fingerprint); err != nil {
		abortWithError(c, fromAppError(err))
		return
	}
	h.logger.Info("analysis invalidated", "fingerprint", fingerprint, "request_id", requestIDFrom(c))
	c.Status(http.StatusNoContent)
}

// Health reports liveness.
func (h *AnalysisHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (b analysisRequest) toRequest() (analysis.Request, error) {
	raw := strings.TrimSpace(b.BirthTime)
	if raw == "" {
		return analysis.Request{}, apperrors.Validation("birthTime is required")
	}
	birth, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return analysis.Request{}, apperrors.Validation(fmt.Sprintf("birthTime must be RFC3339 with an explicit offset: %v", err))
	}
	req := analysis.Request{
		Record: analysis.BirthRecord{
			Name:       b.Name,
			Gender:     analysis.Gender(strings.ToLower(strings.TrimSpace(b.Gender))),
			BirthTime:  birth,
			BirthPlace: b.BirthPlace,
		},
		Type: analysis.Type(strings.ToLower(strings.TrimSpace(b.Type))),
	}
	if b.AsOf != "" {
		asOf, err := parseAsOf(strings.TrimSpace(b.AsOf), birth.Location())
		if err != nil {
			return analysis.Request{}, err
		}
		req.AsOf = asOf
	}
	return req, nil
}

// parseAsOf accepts a civil date, read in the birth record's zone, or a full
// RFC3339 instant.
func parseAsOf(raw string, loc *time.Location) (time.Time, error) {
	if day, err := time.ParseInLocation(time.DateOnly, raw, loc); err == nil {
		return day, nil
	}
	instant, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, apperrors.Validation(fmt.Sprintf("asOf must be YYYY-MM-DD or RFC3339, got %q", raw))
	}
	return instant, nil
}
