package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mamamath/mothermath-backend/internal/requestdata"
	"github.com/mamamath/mothermath-backend/internal/services"
	"github.com/mamamath/mothermath-backend/internal/types"
)

type LessonHandler struct {
	lessonService services.LessonService
	storyService  services.StoryService
	exportService services.ExportService
}

func NewLessonHandler(lessonService services.LessonService, storyService services.StoryService, exportService services.ExportService) *LessonHandler {
	return &LessonHandler{
		lessonService: lessonService,
		storyService:  storyService,
		exportService: exportService,
	}
}

type outlineRequest struct {
	Topic string `json:"topic"`
	Level string `json:"level"`
}

func (lh *LessonHandler) GenerateOutline(c *gin.Context) {
	var req outlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_json", err)
		return
	}
	sections, err := lh.lessonService.GenerateOutline(c.Request.Context(), req.Topic, req.Level)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"sections": sections})
}

type generateRequest struct {
	Topic    string                `json:"topic"`
	Level    string                `json:"level"`
	Sections []types.LessonSection `json:"sections"`
}

func (lh *LessonHandler) GenerateDetailed(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_json", err)
		return
	}
	userID := requestdata.UserID(c.Request.Context())
	plan, err := lh.lessonService.GenerateDetailed(c.Request.Context(), userID, req.Topic, req.Level, req.Sections)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"lessonPlan": plan})
}

func (lh *LessonHandler) GenerateStory(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_json", err)
		return
	}
	userID := requestdata.UserID(c.Request.Context())
	plan, err := lh.storyService.Generate(c.Request.Context(), userID, req.Topic, req.Level, req.Sections)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"storyLessonPlan": plan})
}

// Save persists a plan the client already holds. Used when a plan was
// generated before the user signed in.
func (lh *LessonHandler) Save(c *gin.Context) {
	var req services.SaveLessonPlanInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_json", err)
		return
	}
	userID := requestdata.UserID(c.Request.Context())
	plan, err := lh.lessonService.Save(c.Request.Context(), userID, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"lessonPlan": plan})
}

func (lh *LessonHandler) List(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	plans, err := lh.lessonService.List(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"lessonPlans": plans})
}

func (lh *LessonHandler) Get(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_id", err)
		return
	}
	userID := requestdata.UserID(c.Request.Context())
	plan, err := lh.lessonService.Get(c.Request.Context(), userID, planID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"lessonPlan": plan})
}

func (lh *LessonHandler) Delete(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_id", err)
		return
	}
	userID := requestdata.UserID(c.Request.Context())
	if err := lh.lessonService.Delete(c.Request.Context(), userID, planID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": planID})
}

func (lh *LessonHandler) ExportPDF(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_id", err)
		return
	}
	userID := requestdata.UserID(c.Request.Context())
	out, name, err := lh.exportService.LessonPDF(c.Request.Context(), userID, planID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/pdf", out)
}

func (lh *LessonHandler) ExportSlides(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_id", err)
		return
	}
	userID := requestdata.UserID(c.Request.Context())
	out, name, err := lh.exportService.SlideDeck(c.Request.Context(), userID, planID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/pdf", out)
}

type renderExportRequest struct {
	Content string `json:"content"`
	Topic   string `json:"topic"`
	Level   string `json:"level"`
	Kind    string `json:"kind"`
}

// RenderPDF exports content posted by the client without a saved plan.
func (lh *LessonHandler) RenderPDF(c *gin.Context) {
	var req renderExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_json", err)
		return
	}
	out, name, err := lh.exportService.RenderPDF(c.Request.Context(), req.Content, req.Topic, req.Level, req.Kind)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/pdf", out)
}

func (lh *LessonHandler) RenderSlides(c *gin.Context) {
	var req renderExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_json", err)
		return
	}
	out, name, err := lh.exportService.RenderSlides(c.Request.Context(), req.Content, req.Topic)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/pdf", out)
}
