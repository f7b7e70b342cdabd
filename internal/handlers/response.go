package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamamath/mothermath-backend/internal/agent"
	"github.com/mamamath/mothermath-backend/internal/clients/openrouter"
	"github.com/mamamath/mothermath-backend/internal/services"
	"github.com/mamamath/mothermath-backend/internal/types"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondServiceError maps domain errors to HTTP statuses: validation
// failures are 400, missing records 404, configuration and gateway failures
// 500.
func RespondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, types.ErrEmptyTopic),
		errors.Is(err, types.ErrEmptyLevel),
		errors.Is(err, types.ErrEmptyTranscript),
		errors.Is(err, types.ErrEmptySectionTitle),
		errors.Is(err, types.ErrDuplicateSectionID),
		errors.Is(err, types.ErrNoQuestions),
		errors.Is(err, services.ErrNotMathTopic),
		errors.Is(err, services.ErrGradeRequired),
		errors.Is(err, services.ErrMessageRequired),
		errors.Is(err, services.ErrImageRequired),
		errors.Is(err, agent.ErrNotConnected):
		RespondError(c, http.StatusBadRequest, "invalid_request", err)

	case errors.Is(err, services.ErrPlanNotFound),
		errors.Is(err, services.ErrInterviewNotFound),
		errors.Is(err, agent.ErrSessionNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)

	case errors.Is(err, services.ErrSlidesUnavailable):
		RespondError(c, http.StatusServiceUnavailable, "export_unavailable", err)

	case errors.Is(err, openrouter.ErrMissingCredentials):
		RespondError(c, http.StatusInternalServerError, "gateway_unconfigured", err)

	case errors.Is(err, openrouter.ErrInvalidJSON):
		RespondError(c, http.StatusBadGateway, "invalid_model_output", err)

	default:
		var gwErr *openrouter.GatewayError
		if errors.As(err, &gwErr) {
			RespondError(c, http.StatusInternalServerError, "gateway_error", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "internal", err)
	}
}
