package handlers

import (
	"crypto/subtle"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamamath/mothermath-backend/internal/agent"
	"github.com/mamamath/mothermath-backend/internal/clients/vapi"
	"github.com/mamamath/mothermath-backend/internal/logger"
)

// VoiceHandler receives call webhooks from the voice platform and feeds them
// into the agent manager. It sits on a public route authenticated by a
// shared secret header instead of user JWTs.
type VoiceHandler struct {
	agentManager *agent.Manager
	secret       string
	log          *logger.Logger
}

func NewVoiceHandler(agentManager *agent.Manager, secret string, log *logger.Logger) *VoiceHandler {
	return &VoiceHandler{
		agentManager: agentManager,
		secret:       secret,
		log:          log.With("handler", "VoiceHandler"),
	}
}

func (vh *VoiceHandler) Events(c *gin.Context) {
	if vh.secret != "" {
		got := c.GetHeader("X-Vapi-Secret")
		if subtle.ConstantTimeCompare([]byte(got), []byte(vh.secret)) != 1 {
			RespondError(c, http.StatusUnauthorized, "bad_webhook_secret", nil)
			return
		}
	}
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_body", err)
		return
	}
	ev, err := vapi.ParseWebhook(body)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_event", err)
		return
	}
	vh.agentManager.HandleEvent(ev)
	RespondOK(c, gin.H{"received": true})
}
