package integration

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRoll(t *testing.T) {
	RequireServer(t)

	t.Run("stores a full roll", func(t *testing.T) {
		fabric := UniqueFabric("Linen")
		roll := AddTestRoll(t, fabric, "Natural", 42.5, "2024-03-01")

		assert.NotZero(t, roll.ID)
		assert.Equal(t, fabric, roll.FabricType)
		assert.Equal(t, 42.5, roll.OriginalLength)
		assert.Equal(t, 42.5, roll.CurrentLength)
		assert.Equal(t, 100.0, roll.StockPercentage)
		assert.Equal(t, "2024-03-01", roll.EntryDate)
	})

	t.Run("reports every invalid field", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/rolls", map[string]interface{}{
			"fabric_type": "C",
			"length":      -1,
			"entry_date":  "01/03/2024",
		})

		assert.Equal(t, http.StatusBadRequest, resp.Status)
		assert.False(t, resp.Success)
		assert.Contains(t, resp.Details, "fabric_type")
		assert.Contains(t, resp.Details, "color")
		assert.Contains(t, resp.Details, "length")
		assert.Contains(t, resp.Details, "entry_date")
	})

	t.Run("rejects a future entry date", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/rolls", map[string]interface{}{
			"fabric_type": UniqueFabric("Silk"),
			"color":       "Red",
			"length":      10,
			"entry_date":  "2999-01-01",
		})

		assert.Equal(t, http.StatusBadRequest, resp.Status)
	})
}

func TestListInventory(t *testing.T) {
	RequireServer(t)

	fabric := UniqueFabric("Denim")
	AddTestRoll(t, fabric, "Blue", 50, "2024-01-10")
	AddTestRoll(t, fabric, "Black", 20, "2024-02-10")
	AddTestRoll(t, fabric, "Blue", 75, "2024-03-10")

	list := func(t *testing.T, q url.Values) InventoryData {
		t.Helper()
		resp := GetJSON(t, BaseURL+"/inventory?"+q.Encode())
		require.Equal(t, http.StatusOK, resp.Status, resp.Error)
		return Decode[InventoryData](t, resp)
	}

	t.Run("default sort is newest entry first", func(t *testing.T) {
		data := list(t, url.Values{"fabric_type": {fabric}})

		require.Len(t, data.Rolls, 3)
		assert.Equal(t, "2024-03-10", data.Rolls[0].EntryDate)
		assert.Equal(t, "2024-01-10", data.Rolls[2].EntryDate)
		assert.Equal(t, "entry_date", data.Sort.OrderBy)
		assert.Equal(t, "DESC", data.Sort.OrderDir)
		assert.Contains(t, data.Filters.FabricTypes, fabric)
		assert.GreaterOrEqual(t, data.Stats.TotalRolls, int64(3))
	})

	t.Run("filters and sorts", func(t *testing.T) {
		data := list(t, url.Values{
			"fabric_type": {fabric},
			"color":       {"blu"},
			"min_stock":   {"60"},
			"order_by":    {"current_length"},
			"order_dir":   {"asc"},
		})

		require.Len(t, data.Rolls, 1)
		assert.Equal(t, 75.0, data.Rolls[0].CurrentLength)
	})

	t.Run("unknown sort falls back to default", func(t *testing.T) {
		data := list(t, url.Values{
			"fabric_type": {fabric},
			"order_by":    {"id; DROP TABLE fabric_rolls"},
			"order_dir":   {"sideways"},
		})

		require.Len(t, data.Rolls, 3)
		assert.Equal(t, "entry_date", data.Sort.OrderBy)
		assert.Equal(t, "DESC", data.Sort.OrderDir)
	})
}
