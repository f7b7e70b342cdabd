package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mamamath/mothermath-backend/internal/agent"
	"github.com/mamamath/mothermath-backend/internal/requestdata"
	"github.com/mamamath/mothermath-backend/internal/services"
	"github.com/mamamath/mothermath-backend/internal/types"
)

type InterviewHandler struct {
	interviewService services.InterviewService
	agentManager     *agent.Manager
}

func NewInterviewHandler(interviewService services.InterviewService, agentManager *agent.Manager) *InterviewHandler {
	return &InterviewHandler{
		interviewService: interviewService,
		agentManager:     agentManager,
	}
}

type createInterviewRequest struct {
	Role        string `json:"role"`
	Level       string `json:"level"`
	Topic       string `json:"topic"`
	Focus       string `json:"focus"`
	TimeMinutes int    `json:"timeMinutes"`
}

func (ih *InterviewHandler) Create(c *gin.Context) {
	var req createInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_json", err)
		return
	}
	userID := requestdata.UserID(c.Request.Context())
	iv, err := ih.interviewService.Create(c.Request.Context(), userID, services.CreateInterviewInput{
		Role:        req.Role,
		Level:       req.Level,
		Topic:       req.Topic,
		Focus:       req.Focus,
		TimeMinutes: req.TimeMinutes,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"interview": iv})
}

func (ih *InterviewHandler) List(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	interviews, err := ih.interviewService.List(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"interviews": interviews})
}

func (ih *InterviewHandler) Get(c *gin.Context) {
	interviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_id", err)
		return
	}
	userID := requestdata.UserID(c.Request.Context())
	iv, err := ih.interviewService.Get(c.Request.Context(), userID, interviewID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"interview": iv})
}

func (ih *InterviewHandler) Delete(c *gin.Context) {
	interviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_id", err)
		return
	}
	userID := requestdata.UserID(c.Request.Context())
	if err := ih.interviewService.Delete(c.Request.Context(), userID, interviewID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": interviewID})
}

type saveTranscriptRequest struct {
	Transcript []types.TranscriptEntry `json:"transcript"`
}

func (ih *InterviewHandler) SaveTranscript(c *gin.Context) {
	interviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_id", err)
		return
	}
	var req saveTranscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_json", err)
		return
	}
	userID := requestdata.UserID(c.Request.Context())
	if err := ih.interviewService.SaveTranscript(c.Request.Context(), userID, interviewID, req.Transcript); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"saved": interviewID})
}

func (ih *InterviewHandler) GenerateFeedback(c *gin.Context) {
	interviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_id", err)
		return
	}
	userID := requestdata.UserID(c.Request.Context())
	feedback, err := ih.interviewService.GenerateFeedback(c.Request.Context(), userID, interviewID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"feedback": feedback})
}

type startSessionRequest struct {
	UserName string `json:"userName"`
}

// StartSession dials out the voice assistant for an interview. The response
// carries the session id the browser subscribes to over SSE.
func (ih *InterviewHandler) StartSession(c *gin.Context) {
	interviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_id", err)
		return
	}
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_json", err)
		return
	}
	if req.UserName == "" {
		req.UserName = "Teacher"
	}
	userID := requestdata.UserID(c.Request.Context())
	iv, err := ih.interviewService.Get(c.Request.Context(), userID, interviewID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	session, err := ih.agentManager.StartSession(c.Request.Context(), iv, req.UserName)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"sessionId": session.ID, "state": session.State()})
}

func (ih *InterviewHandler) StopSession(c *gin.Context) {
	interviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_id", err)
		return
	}
	userID := requestdata.UserID(c.Request.Context())
	if _, err := ih.interviewService.Get(c.Request.Context(), userID, interviewID); err != nil {
		RespondServiceError(c, err)
		return
	}
	sessionID, err := ih.agentManager.StopForInterview(c.Request.Context(), interviewID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"stopping": sessionID})
}
