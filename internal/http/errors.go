package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"gtech/internal/domain"
	"gtech/internal/pincode"
	"gtech/internal/remote"
	"gtech/internal/repository"
	"gtech/internal/service"
)

func mapErrorToStatus(err error) int {
	var apiErr *remote.APIError
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, pincode.ErrInvalidPincode):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, remote.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, repository.ErrPaymentRejected):
		return http.StatusPaymentRequired
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, pincode.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrNotCancellable),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, repository.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, repository.ErrNotSupported):
		return http.StatusNotImplemented
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorResponse тело ответа с ошибкой
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (s *Server) fail(c *gin.Context, err error) {
	status := mapErrorToStatus(err)
	body := errorResponse{Error: err.Error()}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		body.Error = "validation failed"
		body.Fields = verr.Fields
	}
	if status == http.StatusInternalServerError {
		// internal details stay in the log
		_ = c.Error(err)
		body.Error = "internal error"
	}
	c.JSON(status, body)
}

func badJSON(c *gin.Context) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid json"})
}

// bindOptionalJSON разбирает необязательное тело. Пустое тело (в том числе
// chunked без данных) оставляет obj без изменений.
func bindOptionalJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
