package handler

import (
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"

	"github.com/rl1809/order-fulfillment/internal/core/service"
)

// Reasons reported to callers. Each failure kind keeps its own reason so a
// business rejection is never confused with a failed save or an outage.
const (
	ReasonInvalidRequest        = "InvalidRequest"
	ReasonOutOfStock            = "OutOfStock"
	ReasonDependencyUnavailable = "DependencyUnavailable"
	ReasonPersistenceFailure    = "PersistenceFailure"
	ReasonDuplicateRequest      = "DuplicateRequest"
	ReasonNotFound              = "NotFound"
	ReasonInternal              = "Internal"
)

type failure struct {
	reason     string
	httpStatus int
	grpcCode   codes.Code
}

func classify(err error) failure {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		return failure{ReasonInvalidRequest, http.StatusBadRequest, codes.InvalidArgument}
	case errors.Is(err, service.ErrOutOfStock):
		return failure{ReasonOutOfStock, http.StatusConflict, codes.FailedPrecondition}
	case errors.Is(err, service.ErrDependencyUnavailable):
		return failure{ReasonDependencyUnavailable, http.StatusServiceUnavailable, codes.Unavailable}
	case errors.Is(err, service.ErrOrderNotSaved):
		return failure{ReasonPersistenceFailure, http.StatusInternalServerError, codes.Internal}
	case errors.Is(err, service.ErrDuplicateRequest):
		return failure{ReasonDuplicateRequest, http.StatusConflict, codes.AlreadyExists}
	case errors.Is(err, service.ErrOrderNotFound):
		return failure{ReasonNotFound, http.StatusNotFound, codes.NotFound}
	default:
		return failure{ReasonInternal, http.StatusInternalServerError, codes.Internal}
	}
}
