package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamamath/mothermath-backend/internal/services"
	"github.com/mamamath/mothermath-backend/internal/types"
)

type ChatHandler struct {
	chatService services.ChatService
}

func NewChatHandler(chatService services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type chatRequest struct {
	Grade   string              `json:"grade"`
	History []types.ChatMessage `json:"history"`
	Message string              `json:"message"`
}

func (ch *ChatHandler) Respond(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_json", err)
		return
	}
	reply, err := ch.chatService.Respond(c.Request.Context(), req.Grade, req.History, req.Message)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"reply": reply})
}

func (ch *ChatHandler) Starters(c *gin.Context) {
	RespondOK(c, gin.H{"starters": ch.chatService.Starters(c.Query("grade"))})
}
