package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BindJSON decodes the request body into out and writes the 400 itself
// on failure. Binding-tag failures (only `required` is used here) mean
// a field is missing; anything else is a body that did not parse.
func BindJSON(ctx *gin.Context, out interface{}) bool {
	err := ctx.ShouldBindJSON(out)

	if err != nil {
		var validationErrs validator.ValidationErrors

		if errors.As(err, &validationErrs) {
			RespondBadRequest(ctx, "Missing required fields")
			return false
		}

		RespondBadRequest(ctx, "Invalid request body")
		return false
	}

	return true
}
