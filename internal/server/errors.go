package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	activitydomain "github.com/careertrail/careertrail/internal/activity/domain"
	analyticsdomain "github.com/careertrail/careertrail/internal/analytics/domain"
	obscontext "github.com/careertrail/careertrail/internal/observability/context"
	"github.com/careertrail/careertrail/internal/period"
	researchdomain "github.com/careertrail/careertrail/internal/research/domain"
	teamdomain "github.com/careertrail/careertrail/internal/team/domain"
)

var ErrNotFound = errors.New("not_found")

// APIError is the wire shape for all error responses.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *APIError) Error() string { return e.Code }

func invalidRequestError() *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "invalid_request",
		Message: "invalid request body",
	}
}

func newValidationError(field, code, message string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    code,
		Field:   field,
		Message: message,
	}
}

// AbortWithError maps domain sentinel errors onto HTTP responses. Unknown
// errors become an opaque 500 so internals never leak.
func AbortWithError(c *gin.Context, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.Status, apiErr)
		return
	}

	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, analyticsdomain.ErrSnapshotNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, &APIError{
			Code:    "not_found",
			Message: "resource not found",
		})
	case errors.Is(err, period.ErrInvalidType),
		errors.Is(err, analyticsdomain.ErrInvalidMember),
		errors.Is(err, researchdomain.ErrInvalidMember),
		errors.Is(err, researchdomain.ErrInvalidCompany),
		errors.Is(err, teamdomain.ErrInvalidTeam):
		c.AbortWithStatusJSON(http.StatusBadRequest, &APIError{
			Code:    err.Error(),
			Message: "invalid request parameter",
		})
	case errors.Is(err, activitydomain.ErrSourceUnavailable):
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, &APIError{
			Code:    "source_unavailable",
			Message: "activity source temporarily unavailable",
		})
	default:
		// The response is opaque, so keep the cause and correlation ids in
		// the log.
		zap.L().Error("unhandled request error",
			zap.String("request_id", obscontext.RequestIDFromGin(c)),
			zap.String("team_id", obscontext.TeamIDFromGin(c)),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, &APIError{
			Code:    "internal_error",
			Message: "internal server error",
		})
	}
}
