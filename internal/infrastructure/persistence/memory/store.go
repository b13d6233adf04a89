// Package memory is an in-process implementation of the roll and sale
// repositories with snapshot/rollback transactions. It backs unit and handler
// tests that must observe commit and rollback without a MySQL server.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xiebiao/fabric-inventory/internal/domain/roll"
	"github.com/xiebiao/fabric-inventory/internal/domain/sale"
)

// Operations that can be told to fail with Store.FailOn.
const (
	OpCreateRoll    = "roll.create"
	OpLockRoll      = "roll.lock"
	OpDecreaseStock = "roll.decrease_stock"
	OpCreateSale    = "sale.create"
	OpList          = "roll.list"
)

// Store keeps rolls and sales in maps guarded by a mutex.
type Store struct {
	txMu sync.Mutex // one transaction at a time, like a row lock on every roll

	mu       sync.Mutex
	rolls    map[uint]roll.Roll
	sales    []sale.Sale
	nextRoll uint
	nextSale uint
	failures map[string]error
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		rolls:    make(map[uint]roll.Roll),
		nextRoll: 1,
		nextSale: 1,
		failures: make(map[string]error),
	}
}

// FailOn makes every later call of op return err. A nil err clears it.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// Rolls returns the roll repository view of the store.
func (s *Store) Rolls() roll.Repository { return rollRepo{s} }

// Sales returns the sale repository view of the store.
func (s *Store) Sales() sale.Repository { return saleRepo{s} }

// SaleCount returns the number of committed sales for rollID.
func (s *Store) SaleCount(rollID uint) int {
	return len(s.SalesOf(rollID))
}

// SalesOf returns copies of the committed sales for rollID in insertion order.
func (s *Store) SalesOf(rollID uint) []sale.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []sale.Sale
	for _, sl := range s.sales {
		if sl.RollID == rollID {
			out = append(out, sl)
		}
	}
	return out
}

// Transaction snapshots the store, runs fn and restores the snapshot when fn
// fails or panics.
func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snapshot := s.snapshot()
	defer func() {
		if r := recover(); r != nil {
			s.restore(snapshot)
			panic(r)
		}
		if err != nil {
			s.restore(snapshot)
		}
	}()

	return fn(ctx)
}

type state struct {
	rolls    map[uint]roll.Roll
	sales    []sale.Sale
	nextRoll uint
	nextSale uint
}

func (s *Store) snapshot() state {
	s.mu.Lock()
	defer s.mu.Unlock()
	rolls := make(map[uint]roll.Roll, len(s.rolls))
	for id, r := range s.rolls {
		rolls[id] = r
	}
	return state{
		rolls:    rolls,
		sales:    append([]sale.Sale(nil), s.sales...),
		nextRoll: s.nextRoll,
		nextSale: s.nextSale,
	}
}

func (s *Store) restore(st state) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rolls = st.rolls
	s.sales = st.sales
	s.nextRoll = st.nextRoll
	s.nextSale = st.nextSale
}

func (s *Store) fail(op string) error {
	return s.failures[op]
}

type rollRepo struct{ s *Store }

func (r rollRepo) Create(ctx context.Context, rl *roll.Roll) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(OpCreateRoll); err != nil {
		return err
	}

	now := time.Now()
	rl.ID = r.s.nextRoll
	rl.CreatedAt, rl.UpdatedAt = now, now
	r.s.nextRoll++
	r.s.rolls[rl.ID] = *rl
	return nil
}

func (r rollRepo) FindByID(ctx context.Context, id uint) (*roll.Roll, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rl, ok := r.s.rolls[id]
	if !ok {
		return nil, roll.ErrRollNotFound
	}
	return &rl, nil
}

func (r rollRepo) LockByID(ctx context.Context, id uint) (*roll.Roll, error) {
	r.s.mu.Lock()
	err := r.s.fail(OpLockRoll)
	r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r rollRepo) DecreaseStock(ctx context.Context, id uint, meters decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(OpDecreaseStock); err != nil {
		return err
	}

	rl, ok := r.s.rolls[id]
	if !ok {
		return roll.ErrRollNotFound
	}
	if err := rl.EnsureAvailable(meters); err != nil {
		return err
	}
	rl.CurrentLength = rl.CurrentLength.Sub(meters)
	rl.UpdatedAt = time.Now()
	r.s.rolls[id] = rl
	return nil
}

func (r rollRepo) List(ctx context.Context, params roll.ListParams) ([]*roll.Roll, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(OpList); err != nil {
		return nil, err
	}

	result := make([]*roll.Roll, 0, len(r.s.rolls))
	for _, rl := range r.s.rolls {
		if rl.CurrentLength.LessThan(params.MinStock) {
			continue
		}
		if !containsFold(rl.FabricType, params.FabricType) || !containsFold(rl.Color, params.Color) {
			continue
		}
		result = append(result, &rl)
	}

	desc := params.OrderDir != roll.SortAsc
	sort.SliceStable(result, func(i, j int) bool {
		c := compare(result[i], result[j], params.OrderBy)
		if c == 0 {
			c = cmpID(result[i].ID, result[j].ID)
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
	return result, nil
}

func (r rollRepo) Stats(ctx context.Context) (*roll.Stats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stats := &roll.Stats{TotalMeters: decimal.Zero, AvgMetersPerRoll: decimal.Zero}
	types := map[string]struct{}{}
	colors := map[string]struct{}{}
	for _, rl := range r.s.rolls {
		if !rl.CurrentLength.IsPositive() {
			continue
		}
		stats.TotalRolls++
		stats.TotalMeters = stats.TotalMeters.Add(rl.CurrentLength)
		types[foldKey(rl.FabricType)] = struct{}{}
		colors[foldKey(rl.Color)] = struct{}{}
	}
	if stats.TotalRolls > 0 {
		stats.AvgMetersPerRoll = stats.TotalMeters.Div(decimal.NewFromInt(stats.TotalRolls))
	}
	stats.FabricTypesCount = int64(len(types))
	stats.ColorsCount = int64(len(colors))
	return stats, nil
}

func (r rollRepo) DistinctFabricTypes(ctx context.Context) ([]string, error) {
	return r.distinct(func(rl roll.Roll) string { return rl.FabricType }), nil
}

func (r rollRepo) DistinctColors(ctx context.Context) ([]string, error) {
	return r.distinct(func(rl roll.Roll) string { return rl.Color }), nil
}

// distinct mirrors SELECT DISTINCT under a case-insensitive collation: values
// differing only in case collapse to the first one stored.
func (r rollRepo) distinct(field func(roll.Roll) string) []string {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ids := make([]uint, 0, len(r.s.rolls))
	for id := range r.s.rolls {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	seen := map[string]struct{}{}
	values := []string{}
	for _, id := range ids {
		v := field(r.s.rolls[id])
		if _, ok := seen[foldKey(v)]; ok {
			continue
		}
		seen[foldKey(v)] = struct{}{}
		values = append(values, v)
	}
	sort.SliceStable(values, func(i, j int) bool { return foldKey(values[i]) < foldKey(values[j]) })
	return values
}

type saleRepo struct{ s *Store }

func (r saleRepo) Create(ctx context.Context, sl *sale.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(OpCreateSale); err != nil {
		return err
	}
	if _, ok := r.s.rolls[sl.RollID]; !ok {
		return roll.ErrRollNotFound
	}

	sl.ID = r.s.nextSale
	sl.CreatedAt = time.Now()
	r.s.nextSale++
	r.s.sales = append(r.s.sales, *sl)
	return nil
}

// foldKey is the comparison key of the utf8mb4 *_ci collations for the
// ASCII names rolls carry.
func foldKey(s string) string {
	return strings.ToLower(s)
}

func containsFold(value, substr string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(substr))
}

func compare(a, b *roll.Roll, field roll.SortField) int {
	switch field {
	case roll.SortByCurrentLength:
		return a.CurrentLength.Cmp(b.CurrentLength)
	case roll.SortByFabricType:
		return strings.Compare(strings.ToLower(a.FabricType), strings.ToLower(b.FabricType))
	case roll.SortByColor:
		return strings.Compare(strings.ToLower(a.Color), strings.ToLower(b.Color))
	default:
		return a.EntryDate.Compare(b.EntryDate.Time)
	}
}

func cmpID(a, b uint) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
