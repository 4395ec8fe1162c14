package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/todoapi/internal/common"
)

// Error codes returned in JSON error bodies.
const (
	codeValidation    = "VALIDATION_ERROR"
	codeAlreadyExists = "ALREADY_EXISTS"
	codeInternal      = "INTERNAL_ERROR"
)

// respondWithError is the single mapping from service errors to responses.
// Authentication and not-found failures carry no body; internal errors never
// carry details.
func (h *Handler) respondWithError(c *gin.Context, err error) {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"code":    codeValidation,
			"field":   ve.Field,
			"message": ve.Message,
		})
	case errors.Is(err, common.ErrAlreadyExists):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"code": codeAlreadyExists})
	case errors.Is(err, common.ErrUnauthorized):
		c.AbortWithStatus(http.StatusUnauthorized)
	case errors.Is(err, common.ErrNotFound):
		c.AbortWithStatus(http.StatusNotFound)
	default:
		h.Logger.Error(c.Request.Context(), "request failed", "error", err, "path", c.FullPath())
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"code": codeInternal})
	}
}

// bindingError converts a ShouldBindJSON failure into a ValidationError
// naming the offending field where one is known.
func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		msg := "is invalid"
		if fe.Tag() == "required" {
			msg = "is required"
		}
		return common.NewValidationError(fe.Field(), msg)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return common.NewValidationError(typeErr.Field, "has the wrong type")
	}

	if errors.Is(err, io.EOF) {
		return common.NewValidationError("body", "is required")
	}
	return common.NewValidationError("body", "must be a JSON object")
}
