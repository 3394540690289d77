package handler

import (
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"

	"github.com/rl1809/pedidos-client/internal/core/domain"
	"github.com/rl1809/pedidos-client/internal/core/service"
)

// classify maps service errors to the HTTP and gRPC status reported to
// session clients.
func classify(err error) (int, codes.Code) {
	var validation *domain.ValidationError

	switch {
	case errors.As(err, &validation),
		errors.Is(err, service.ErrUnknownRestaurant),
		errors.Is(err, service.ErrUnknownItem),
		errors.Is(err, service.ErrUnknownOrder),
		errors.Is(err, service.ErrUnknownAction):
		return http.StatusBadRequest, codes.InvalidArgument
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound, codes.NotFound
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrSubmitInProgress):
		return http.StatusConflict, codes.FailedPrecondition
	default:
		return http.StatusInternalServerError, codes.Internal
	}
}
