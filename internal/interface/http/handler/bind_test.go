package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/fabric-inventory/internal/interface/http/dto"
	apperrors "github.com/xiebiao/fabric-inventory/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newContext(method, target, body string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c
}

func TestBindQuery(t *testing.T) {
	var inv dto.InventoryRequest
	c := newContext(http.MethodGet, "/api/v1/inventory?color=blu&min_stock=10&order_dir=asc", "")

	require.NoError(t, bindQuery(c, &inv))
	assert.Equal(t, "blu", inv.Color)
	assert.Equal(t, "10", inv.MinStock)
	assert.Equal(t, "asc", inv.OrderDir)

	var typed struct {
		Limit int `form:"limit"`
	}
	c = newContext(http.MethodGet, "/?limit=ten", "")

	err := bindQuery(c, &typed)
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, "invalid request body", appErr.Message)
	assert.Contains(t, appErr.Details, "query")
}

func TestBindJSON_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		field   string
		message string
	}{
		{"wrong type", `{"fabric_type":1}`, "fabric_type", "fabric_type must be a string"},
		{"empty body", ``, "body", "request body is empty"},
		{"three decimals", `{"fabric_type":"Cotton","color":"White","length":0.001,"entry_date":"2024-06-15"}`, "length", "length must have at most 2 decimals"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req dto.AddRollRequest
			err := bindJSON(newContext(http.MethodPost, "/api/v1/rolls", tt.body), &req)

			require.Error(t, err)
			appErr := apperrors.GetAppError(err)
			assert.Equal(t, http.StatusBadRequest, appErr.Code)
			assert.Equal(t, tt.message, appErr.Details[tt.field])
		})
	}
}
