package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/yoodiarize/internal/metrics"
	"github.com/yoockh/yoodiarize/internal/services"
	"github.com/yoockh/yoodiarize/internal/utils"
)

type AnalyzeHandler struct {
	svc services.AnalysisService
	m   *metrics.Metrics
}

func NewAnalyzeHandler(svc services.AnalysisService, m *metrics.Metrics) *AnalyzeHandler {
	return &AnalyzeHandler{svc: svc, m: m}
}

type AnalyzeRequest struct {
	URL string `json:"url" binding:"required"`
}

// Analyze handles POST /analyze: download the referenced audio, run
// speaker diarization over it, return the time-stamped segments.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidInput, "AnalyzeHandler.Analyze", "request body must be {\"url\": string}", err))
		return
	}

	res, err := h.svc.Analyze(c.Request.Context(), req.URL)
	if err != nil {
		if h.m != nil {
			h.m.AnalysisFailures.Inc()
			h.m.AnalysisFailuresByCode.WithLabelValues(string(utils.CodeOf(err))).Inc()
		}
		writeError(c, err)
		return
	}

	if h.m != nil {
		h.m.AnalysisSegments.Observe(float64(len(res.Segments)))
	}
	c.JSON(http.StatusOK, res)
}
