package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamamath/mothermath-backend/internal/services"
	"github.com/mamamath/mothermath-backend/internal/types"
)

type AnalysisHandler struct {
	analysisService services.AnalysisService
}

func NewAnalysisHandler(analysisService services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

type workAnalysisRequest struct {
	Image        string `json:"image"` // https or data URL
	Instructions string `json:"instructions"`
}

func (ah *AnalysisHandler) AnalyzeWork(c *gin.Context) {
	var req workAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_json", err)
		return
	}
	feedback, err := ah.analysisService.AnalyzeWork(c.Request.Context(), req.Image, req.Instructions)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"feedback": feedback})
}

type analyzeTranscriptRequest struct {
	Transcript []types.TranscriptEntry `json:"transcript"`
}

// AnalyzeTranscript grades a raw transcript without touching any stored
// interview. An empty transcript is a 400; a missing gateway key or an
// upstream failure is a 500 with the feedback absent.
func (ah *AnalysisHandler) AnalyzeTranscript(c *gin.Context) {
	var req analyzeTranscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_json", err)
		return
	}
	feedback, err := ah.analysisService.AnalyzeTranscript(c.Request.Context(), req.Transcript)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"feedback": feedback})
}
