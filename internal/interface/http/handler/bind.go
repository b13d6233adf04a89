package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/fabric-inventory/internal/interface/http/dto"
	apperrors "github.com/xiebiao/fabric-inventory/pkg/errors"
	"github.com/xiebiao/fabric-inventory/pkg/validation"
)

// bindJSON decodes the body into req, trims it and runs the validate tags.
// On failure it returns the 400 error to send; nothing reaches the store.
func bindJSON(c *gin.Context, req dto.Normalizer) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return bindError(err)
	}

	req.Normalize()

	if details := validation.Struct(req); details != nil {
		return apperrors.ErrInvalidParams.WithDetails(details)
	}
	return nil
}

// bindQuery decodes the query string into req.
func bindQuery(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindQuery(req); err != nil {
		return apperrors.ErrBindError.WithDetails(map[string]string{"query": err.Error()})
	}
	return nil
}

func bindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperrors.ErrInvalidParams.WithDetails(map[string]string{
			typeErr.Field: fmt.Sprintf("%s must be a %s", typeErr.Field, jsonKind(typeErr.Type)),
		})
	}

	if errors.Is(err, io.EOF) {
		return apperrors.ErrBindError.WithDetails(map[string]string{"body": "request body is empty"})
	}

	return apperrors.ErrBindError
}

// jsonKind names the JSON type a Go field decodes from.
func jsonKind(t reflect.Type) string {
	if t == nil {
		return "valid value"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.String:
		return "string"
	default:
		return "valid value"
	}
}

// dateError reports a date that passed the format check but is not a real day.
func dateError(field string) error {
	return apperrors.ErrInvalidParams.WithDetails(map[string]string{
		field: field + " must be a valid date (YYYY-MM-DD)",
	})
}
