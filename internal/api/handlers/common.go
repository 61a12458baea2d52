package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/castellan-dev/castellan/internal/service"
)

// ErrorResponse is the JSON error envelope used by all handlers
type ErrorResponse struct {
	Error string `json:"error"`
}

// Version is set at build time via -ldflags
var Version = "dev"

// uintParam parses a numeric path parameter. A second return of false means
// the 400 response has already been written.
func uintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// idLink builds a detail-view link for a table row from its ID field
func idLink(prefix string, row any) string {
	v := reflect.ValueOf(row)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return ""
	}
	id := v.FieldByName("ID")
	if !id.IsValid() {
		return ""
	}
	return fmt.Sprintf("%s%v", prefix, id.Interface())
}

// respondServiceError maps service-layer errors to HTTP status codes
func respondServiceError(c *gin.Context, err error) {
	var ve *service.ValidationError
	var ce *service.ConflictError
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: ve.Message})
	case errors.As(err, &ce):
		c.JSON(http.StatusConflict, ErrorResponse{Error: ce.Message})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}
