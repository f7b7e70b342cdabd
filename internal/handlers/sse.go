package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mamamath/mothermath-backend/internal/agent"
	"github.com/mamamath/mothermath-backend/internal/requestdata"
	"github.com/mamamath/mothermath-backend/internal/sse"
)

type SSEHandler struct {
	hub          *sse.Hub
	agentManager *agent.Manager
}

func NewSSEHandler(hub *sse.Hub, agentManager *agent.Manager) *SSEHandler {
	return &SSEHandler{hub: hub, agentManager: agentManager}
}

// Stream opens the event stream. Every client gets its user channel; a
// session query parameter additionally subscribes it to one interview
// session, provided the session belongs to the caller.
func (sh *SSEHandler) Stream(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	client := sh.hub.NewClient(userID)
	sh.hub.Subscribe(client, sse.UserChannel(userID))

	if raw := c.Query("session"); raw != "" {
		sessionID, err := uuid.Parse(raw)
		if err != nil {
			sh.hub.CloseClient(client)
			RespondError(c, http.StatusBadRequest, "bad_session_id", err)
			return
		}
		session, ok := sh.agentManager.Get(sessionID)
		if !ok || session.UserID != userID {
			sh.hub.CloseClient(client)
			RespondError(c, http.StatusNotFound, "not_found", agent.ErrSessionNotFound)
			return
		}
		sh.hub.Subscribe(client, sse.SessionChannel(sessionID))
	}

	defer sh.hub.CloseClient(client)
	sh.hub.ServeHTTP(c.Writer, c.Request, client)
}
