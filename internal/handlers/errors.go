// school-control/internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/clebrsonn/school-control-sub000/internal/billing"
	"github.com/gin-gonic/gin"
)

// abortWithError maps the billing sentinel errors onto HTTP statuses.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, billing.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, billing.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, billing.ErrConflict):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
