package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/fabric-inventory/internal/domain/roll"
	"github.com/xiebiao/fabric-inventory/internal/domain/sale"
	"github.com/xiebiao/fabric-inventory/internal/domain/shared"
)

var day = shared.NewDate(2024, time.June, 1)

func addRoll(t *testing.T, s *Store, fabric, color, length string) *roll.Roll {
	t.Helper()
	l := decimal.RequireFromString(length)
	r := &roll.Roll{FabricType: fabric, Color: color, OriginalLength: l, CurrentLength: l, EntryDate: day}
	require.NoError(t, s.Rolls().Create(context.Background(), r))
	return r
}

func TestStore_DistinctAndStatsAgreeOnCase(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	addRoll(t, s, "Cotton", "White", "10")
	addRoll(t, s, "cotton", "WHITE", "20")
	addRoll(t, s, "Linen", "blue", "5")

	types, err := s.Rolls().DistinctFabricTypes(ctx)
	require.NoError(t, err)
	colors, err := s.Rolls().DistinctColors(ctx)
	require.NoError(t, err)
	stats, err := s.Rolls().Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"Cotton", "Linen"}, types)
	assert.Equal(t, []string{"blue", "White"}, colors)
	assert.Equal(t, int64(len(types)), stats.FabricTypesCount)
	assert.Equal(t, int64(len(colors)), stats.ColorsCount)
}

func TestStore_TransactionRollsBackSales(t *testing.T) {
	s := NewStore()
	r := addRoll(t, s, "Cotton", "White", "100")
	boom := errors.New("stock update failed")

	err := s.Transaction(context.Background(), func(ctx context.Context) error {
		require.NoError(t, s.Sales().Create(ctx, &sale.Sale{RollID: r.ID, MetersSold: decimal.NewFromInt(30), SaleDate: day}))
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.SalesOf(r.ID))
}

func TestStore_SalesOf(t *testing.T) {
	s := NewStore()
	a := addRoll(t, s, "Cotton", "White", "100")
	b := addRoll(t, s, "Linen", "Blue", "100")
	ctx := context.Background()

	require.NoError(t, s.Sales().Create(ctx, &sale.Sale{RollID: a.ID, MetersSold: decimal.RequireFromString("12.5"), SaleDate: day}))
	require.NoError(t, s.Sales().Create(ctx, &sale.Sale{RollID: b.ID, MetersSold: decimal.NewFromInt(1), SaleDate: day}))

	sales := s.SalesOf(a.ID)
	require.Len(t, sales, 1)
	assert.Equal(t, "12.5", sales[0].MetersSold.String())
	assert.Equal(t, 1, s.SaleCount(b.ID))
}
