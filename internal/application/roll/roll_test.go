package roll

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xiebiao/fabric-inventory/internal/domain/event"
	"github.com/xiebiao/fabric-inventory/internal/domain/roll"
	"github.com/xiebiao/fabric-inventory/internal/domain/shared"
	"github.com/xiebiao/fabric-inventory/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/fabric-inventory/pkg/metrics"
)

var today = shared.NewDate(2024, time.March, 10)

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newAddRoll(t *testing.T, store *memory.Store, pub event.Publisher) *AddRollUseCase {
	svc := roll.NewService(store.Rolls(), shared.FixedClock(today))
	return NewAddRollUseCase(svc, pub, zaptest.NewLogger(t))
}

func TestAddRoll_StoresFullRollAndPublishes(t *testing.T) {
	store := memory.NewStore()
	pub := &recordingPublisher{}
	uc := newAddRoll(t, store, pub)
	before := counterValue(t, metrics.RollsCreatedTotal)

	resp, err := uc.Execute(context.Background(), AddRollRequest{
		FabricType: "Cotton",
		Color:      "White",
		Length:     d("100"),
		EntryDate:  today,
	})
	require.NoError(t, err)

	assert.NotZero(t, resp.Roll.ID)
	assert.True(t, resp.Roll.OriginalLength.Equal(d("100")))
	assert.True(t, resp.Roll.CurrentLength.Equal(d("100")))
	assert.Equal(t, before+1, counterValue(t, metrics.RollsCreatedTotal))

	require.Len(t, pub.events, 1)
	created, ok := pub.events[0].(event.RollCreated)
	require.True(t, ok)
	assert.Equal(t, resp.Roll.ID, created.Roll.ID)
	assert.Equal(t, "2024-03-10", created.Roll.EntryDate)
}

func TestAddRoll_PublishFailureDoesNotFail(t *testing.T) {
	store := memory.NewStore()
	uc := newAddRoll(t, store, &recordingPublisher{err: errors.New("broker down")})

	resp, err := uc.Execute(context.Background(), AddRollRequest{
		FabricType: "Linen", Color: "Beige", Length: d("12.5"), EntryDate: today,
	})
	require.NoError(t, err)

	_, err = store.Rolls().FindByID(context.Background(), resp.Roll.ID)
	assert.NoError(t, err)
}

func TestAddRoll_FutureEntryDate(t *testing.T) {
	store := memory.NewStore()
	pub := &recordingPublisher{}
	uc := newAddRoll(t, store, pub)

	_, err := uc.Execute(context.Background(), AddRollRequest{
		FabricType: "Silk", Color: "Red", Length: d("10"), EntryDate: shared.NewDate(2024, time.March, 11),
	})

	assert.ErrorIs(t, err, roll.ErrFutureEntryDate)
	assert.Empty(t, pub.events)
}

func seedInventory(t *testing.T, store *memory.Store) {
	t.Helper()
	uc := newAddRoll(t, store, &recordingPublisher{})
	for _, r := range []AddRollRequest{
		{FabricType: "Cotton", Color: "White", Length: d("100"), EntryDate: shared.NewDate(2024, time.January, 10)},
		{FabricType: "Cotton Poplin", Color: "Blue", Length: d("40"), EntryDate: shared.NewDate(2024, time.February, 1)},
		{FabricType: "Silk", Color: "Red", Length: d("5"), EntryDate: shared.NewDate(2023, time.December, 5)},
	} {
		_, err := uc.Execute(context.Background(), r)
		require.NoError(t, err)
	}
}

func fabricTypes(rolls []*roll.Roll) []string {
	out := make([]string, len(rolls))
	for i, r := range rolls {
		out[i] = r.FabricType
	}
	return out
}

func TestListInventory_Defaults(t *testing.T) {
	store := memory.NewStore()
	seedInventory(t, store)
	uc := NewListInventoryUseCase(roll.NewService(store.Rolls(), shared.FixedClock(today)))

	resp, err := uc.Execute(context.Background(), ListInventoryRequest{})
	require.NoError(t, err)

	assert.Equal(t, roll.SortByEntryDate, resp.OrderBy)
	assert.Equal(t, roll.SortDesc, resp.OrderDir)
	assert.Equal(t, []string{"Cotton Poplin", "Cotton", "Silk"}, fabricTypes(resp.Rolls))

	assert.Equal(t, int64(3), resp.Stats.TotalRolls)
	assert.Equal(t, "145", resp.Stats.TotalMeters.String())
	assert.Equal(t, "48.33", resp.Stats.AvgMetersPerRoll.String())
	assert.Equal(t, []string{"Cotton", "Cotton Poplin", "Silk"}, resp.Filters.FabricTypes)
	assert.Equal(t, []string{"Blue", "Red", "White"}, resp.Filters.Colors)
}

func TestListInventory_UnknownSortFallsBack(t *testing.T) {
	store := memory.NewStore()
	seedInventory(t, store)
	uc := NewListInventoryUseCase(roll.NewService(store.Rolls(), shared.FixedClock(today)))

	resp, err := uc.Execute(context.Background(), ListInventoryRequest{
		OrderBy:  "id; DROP TABLE fabric_rolls",
		OrderDir: "sideways",
	})
	require.NoError(t, err)

	assert.Equal(t, roll.SortByEntryDate, resp.OrderBy)
	assert.Equal(t, roll.SortDesc, resp.OrderDir)
	assert.Equal(t, []string{"Cotton Poplin", "Cotton", "Silk"}, fabricTypes(resp.Rolls))
}

func TestListInventory_FiltersAndSort(t *testing.T) {
	store := memory.NewStore()
	seedInventory(t, store)
	uc := NewListInventoryUseCase(roll.NewService(store.Rolls(), shared.FixedClock(today)))

	resp, err := uc.Execute(context.Background(), ListInventoryRequest{
		FabricType: " cotton ",
		MinStock:   "50",
		OrderBy:    "current_length",
		OrderDir:   "asc",
	})
	require.NoError(t, err)

	assert.Equal(t, roll.SortAsc, resp.OrderDir)
	assert.Equal(t, []string{"Cotton"}, fabricTypes(resp.Rolls))
}

func TestParseMinStock(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "0"},
		{"abc", "0"},
		{"-5", "0"},
		{"12.5", "12.5"},
		{" 3 ", "3"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseMinStock(tt.in).String())
		})
	}
}

func TestListInventory_StoreFailure(t *testing.T) {
	store := memory.NewStore()
	store.FailOn(memory.OpList, errors.New("too many connections"))
	uc := NewListInventoryUseCase(roll.NewService(store.Rolls(), shared.FixedClock(today)))

	_, err := uc.Execute(context.Background(), ListInventoryRequest{})

	assert.EqualError(t, err, "too many connections")
}
