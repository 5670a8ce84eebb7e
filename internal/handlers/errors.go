package handlers

import (
	"errors"
	"net/http"

	"borla-backend/internal/services"
	"borla-backend/pkg/utils"
)

// writeDomainError maps routing-core errors to HTTP responses. Anything
// unrecognized is a 500.
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		outOfZone  *services.OutOfZoneError
		emptyZone  *services.EmptyZoneError
		transition *services.InvalidTransitionError
		unfinished *services.UnfinishedStopsError
		state      *services.InvalidStateError
		tooFar     *services.TooFarError
	)

	switch {
	case errors.Is(err, services.ErrDuplicateRoute):
		utils.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrDirectoryUnavailable):
		utils.Error(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &outOfZone),
		errors.As(err, &emptyZone),
		errors.As(err, &tooFar):
		utils.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &transition),
		errors.As(err, &unfinished),
		errors.As(err, &state):
		utils.Error(w, http.StatusConflict, err.Error())
	default:
		utils.Error(w, http.StatusInternalServerError, err.Error())
	}
}
