// Package integration drives a running server over HTTP.
//
// Start the API (go run ./cmd/api) and run:
//
//	FABRIC_BASE_URL=http://localhost:8080/api/v1 go test ./test/integration/...
//
// Every test is skipped when the server is not reachable.
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Timeout per HTTP request.
const Timeout = 10 * time.Second

// BaseURL of the API under test.
var BaseURL = baseURL()

func baseURL() string {
	if u := os.Getenv("FABRIC_BASE_URL"); u != "" {
		return strings.TrimRight(u, "/")
	}
	return "http://localhost:8080/api/v1"
}

var client = &http.Client{Timeout: Timeout}

// Response mirrors the API envelope.
type Response struct {
	Status  int               `json:"-"`
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
	Header  http.Header       `json:"-"`
}

// RollData is a roll as returned by the API.
type RollData struct {
	ID              uint    `json:"id"`
	FabricType      string  `json:"fabric_type"`
	Color           string  `json:"color"`
	OriginalLength  float64 `json:"original_length"`
	CurrentLength   float64 `json:"current_length"`
	StockPercentage float64 `json:"stock_percentage"`
	EntryDate       string  `json:"entry_date"`
}

// SaleData is the register-sale result.
type SaleData struct {
	SaleID         uint     `json:"sale_id"`
	UpdatedRoll    RollData `json:"updated_roll"`
	MetersSold     float64  `json:"meters_sold"`
	RemainingStock float64  `json:"remaining_stock"`
}

// InventoryData is the inventory query result.
type InventoryData struct {
	Rolls []RollData `json:"rolls"`
	Stats struct {
		TotalRolls       int64   `json:"total_rolls"`
		TotalMeters      float64 `json:"total_meters"`
		AvgMetersPerRoll float64 `json:"avg_meters_per_roll"`
		FabricTypesCount int64   `json:"fabric_types_count"`
		ColorsCount      int64   `json:"colors_count"`
	} `json:"stats"`
	Filters struct {
		FabricTypes []string `json:"fabric_types"`
		Colors      []string `json:"colors"`
	} `json:"filters"`
	Sort struct {
		Total    int    `json:"total"`
		OrderBy  string `json:"order_by"`
		OrderDir string `json:"order_dir"`
	} `json:"sort"`
}

// RequireServer skips the test when nothing answers at BaseURL.
func RequireServer(t *testing.T) {
	t.Helper()

	ping := strings.TrimSuffix(BaseURL, "/api/v1") + "/ping"
	resp, err := client.Get(ping)
	if err != nil {
		t.Skipf("API not reachable at %s: %v", ping, err)
	}
	resp.Body.Close()
}

// PostJSON sends data as JSON. headers are optional key/value pairs.
func PostJSON(t *testing.T, url string, data interface{}, headers ...string) *Response {
	t.Helper()

	body, err := json.Marshal(data)
	require.NoError(t, err, "encode request")

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	require.NoError(t, err, "build request")
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	return do(t, req)
}

// GetJSON sends a GET request.
func GetJSON(t *testing.T, url string) *Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err, "build request")
	return do(t, req)
}

func do(t *testing.T, req *http.Request) *Response {
	t.Helper()

	resp, err := client.Do(req)
	require.NoError(t, err, "send request")
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "read response")

	var result Response
	require.NoError(t, json.Unmarshal(body, &result), "decode response: %s", body)
	result.Status = resp.StatusCode
	result.Header = resp.Header
	return &result
}

// UniqueFabric returns a fabric type no other run has used, so filters only
// see the rolls of the calling test.
func UniqueFabric(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString()[:8])
}

// AddTestRoll stores a roll and returns it.
func AddTestRoll(t *testing.T, fabric, color string, length float64, entryDate string) RollData {
	t.Helper()

	resp := PostJSON(t, BaseURL+"/rolls", map[string]interface{}{
		"fabric_type": fabric,
		"color":       color,
		"length":      length,
		"entry_date":  entryDate,
	})
	require.Equal(t, http.StatusCreated, resp.Status, "add roll failed: %s", resp.Error)

	var roll RollData
	require.NoError(t, json.Unmarshal(resp.Data, &roll))
	return roll
}

// Decode unmarshals the response data.
func Decode[T any](t *testing.T, resp *Response) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(resp.Data, &v), "decode data: %s", resp.Data)
	return v
}
