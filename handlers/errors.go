package handlers

import (
	"errors"
	"net/http"

	"recruitd/services/negotiation"
	"recruitd/services/scheduling"
	"recruitd/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps service error types onto HTTP statuses. Anything
// unrecognized is a 500 with a generic message.
func respondError(c *gin.Context, err error) {
	var (
		negNotFound   *negotiation.NotFoundError
		negInvalid    *negotiation.InvalidStateError
		negRoundLimit *negotiation.RoundLimitError
		negValidation *negotiation.ValidationError
		negConflict   *negotiation.ConflictError

		schedNotFound   *scheduling.NotFoundError
		schedInvalid    *scheduling.InvalidStateError
		schedValidation *scheduling.ValidationError
	)

	switch {
	case errors.As(err, &negNotFound):
		utils.JSONError(c, http.StatusNotFound, negNotFound.Error(), "")
	case errors.As(err, &schedNotFound):
		utils.JSONError(c, http.StatusNotFound, schedNotFound.Error(), "")
	case errors.As(err, &negValidation):
		utils.JSONError(c, http.StatusBadRequest, negValidation.Error(), "")
	case errors.As(err, &schedValidation):
		utils.JSONError(c, http.StatusBadRequest, schedValidation.Error(), "")
	case errors.As(err, &negInvalid):
		utils.JSONError(c, http.StatusConflict, negInvalid.Error(), "")
	case errors.As(err, &schedInvalid):
		utils.JSONError(c, http.StatusConflict, schedInvalid.Error(), "")
	case errors.As(err, &negConflict):
		utils.JSONError(c, http.StatusConflict, negConflict.Error(), "")
	case errors.As(err, &negRoundLimit):
		utils.JSONError(c, http.StatusUnprocessableEntity, negRoundLimit.Error(), "")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal server error", err.Error())
	}
}
