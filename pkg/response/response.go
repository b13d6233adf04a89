package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/xiebiao/fabric-inventory/pkg/errors"
)

// Response is the envelope shared by every endpoint.
// Notes:
// 1. Success tells the client at a glance whether the request was applied
// 2. Message is a short human readable summary (creation/registration)
// 3. Data is present on success, Error on failure
// 4. Details maps a JSON field name to its validation message
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// Success writes a 200 response.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// Created writes a 201 response for a newly stored resource.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error writes the failure envelope using the AppError code as HTTP status.
// Usage:
//
//	result, err := h.registerSale.Execute(ctx, req)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
//
// Internal errors are attached to the gin context so the logger middleware
// records the cause; the client only sees "internal server error".
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	if appErr.IsInternal() {
		_ = c.Error(err)
		c.AbortWithStatusJSON(appErr.Code, Response{
			Success: false,
			Error:   apperrors.ErrInternal.Message,
		})
		return
	}

	c.AbortWithStatusJSON(appErr.Code, Response{
		Success: false,
		Error:   appErr.Message,
		Details: appErr.Details,
	})
}
