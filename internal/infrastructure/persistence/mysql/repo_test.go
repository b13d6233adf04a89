package mysql

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/fabric-inventory/internal/domain/roll"
	"github.com/xiebiao/fabric-inventory/internal/domain/sale"
	"github.com/xiebiao/fabric-inventory/internal/domain/shared"
)

// setupDB connects to MYSQL_DSN and empties both tables.
// Tests are skipped when no MySQL server is reachable.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/fabric_inventory_test?charset=utf8mb4&parseTime=true&loc=Local"
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	if err := sqlDB.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	require.NoError(t, db.Exec("DELETE FROM sales").Error)
	require.NoError(t, db.Exec("DELETE FROM fabric_rolls").Error)
	return db
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func createRoll(t *testing.T, repo roll.Repository, fabric, color, length string, entry shared.Date) *roll.Roll {
	t.Helper()
	r := &roll.Roll{
		FabricType:     fabric,
		Color:          color,
		OriginalLength: d(length),
		CurrentLength:  d(length),
		EntryDate:      entry,
	}
	require.NoError(t, repo.Create(context.Background(), r))
	return r
}

func countSales(t *testing.T, db *gorm.DB, rollID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&SaleModel{}).Where("roll_id = ?", rollID).Count(&n).Error)
	return n
}

func TestRollRepository_CreateAndFind(t *testing.T) {
	db := setupDB(t)
	repo := NewRollRepository(db)
	entry := shared.NewDate(2024, time.March, 1)

	created := createRoll(t, repo, "Cotton", "White", "100.25", entry)
	require.NotZero(t, created.ID)

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cotton", found.FabricType)
	assert.True(t, found.OriginalLength.Equal(d("100.25")))
	assert.True(t, found.CurrentLength.Equal(d("100.25")))
	assert.Equal(t, "2024-03-01", found.EntryDate.String())

	_, err = repo.FindByID(context.Background(), created.ID+1000)
	assert.ErrorIs(t, err, roll.ErrRollNotFound)
}

func TestSaleFlow_CommitAndRollback(t *testing.T) {
	db := setupDB(t)
	rolls := NewRollRepository(db)
	sales := NewSaleRepository(db)
	tx := NewTxManager(db)
	ctx := context.Background()
	today := shared.DateOf(time.Now())

	r := createRoll(t, rolls, "Cotton", "White", "100", today)

	// commit: 30 m sold
	err := tx.Transaction(ctx, func(ctx context.Context) error {
		locked, err := rolls.LockByID(ctx, r.ID)
		if err != nil {
			return err
		}
		if err := sales.Create(ctx, &sale.Sale{RollID: locked.ID, MetersSold: d("30"), SaleDate: today}); err != nil {
			return err
		}
		return rolls.DecreaseStock(ctx, locked.ID, d("30"))
	})
	require.NoError(t, err)

	after, err := rolls.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, after.CurrentLength.Equal(d("70")))
	assert.True(t, after.OriginalLength.Equal(d("100")))
	assert.Equal(t, int64(1), countSales(t, db, r.ID))

	var stored SaleModel
	require.NoError(t, db.Where("roll_id = ?", r.ID).First(&stored).Error)
	assert.True(t, stored.MetersSold.Equal(d("30")), "stored meters_sold %s", stored.MetersSold)
	assert.Equal(t, today.String(), stored.SaleDate.String())

	// rollback: the sale row written before the failed update disappears
	err = tx.Transaction(ctx, func(ctx context.Context) error {
		if err := sales.Create(ctx, &sale.Sale{RollID: r.ID, MetersSold: d("80"), SaleDate: today}); err != nil {
			return err
		}
		return rolls.DecreaseStock(ctx, r.ID, d("80"))
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, roll.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "available 70.00 m, requested 80.00 m")

	after, err = rolls.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, after.CurrentLength.Equal(d("70")))
	assert.Equal(t, int64(1), countSales(t, db, r.ID))
}

func TestTxManager_RollsBackOnPanic(t *testing.T) {
	db := setupDB(t)
	rolls := NewRollRepository(db)
	tx := NewTxManager(db)
	r := createRoll(t, rolls, "Linen", "Beige", "10", shared.DateOf(time.Now()))

	assert.Panics(t, func() {
		_ = tx.Transaction(context.Background(), func(ctx context.Context) error {
			if err := rolls.DecreaseStock(ctx, r.ID, d("4")); err != nil {
				return err
			}
			panic("boom")
		})
	})

	after, err := rolls.FindByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.True(t, after.CurrentLength.Equal(d("10")))
}

func TestSaleRepository_UnknownRoll(t *testing.T) {
	db := setupDB(t)

	err := NewSaleRepository(db).Create(context.Background(), &sale.Sale{
		RollID:     999999,
		MetersSold: d("1"),
		SaleDate:   shared.DateOf(time.Now()),
	})

	assert.ErrorIs(t, err, roll.ErrRollNotFound)
}

func TestRollRepository_DecreaseStock_UnknownRoll(t *testing.T) {
	db := setupDB(t)

	err := NewRollRepository(db).DecreaseStock(context.Background(), 999999, d("1"))

	assert.ErrorIs(t, err, roll.ErrRollNotFound)
}

func TestRollRepository_ConcurrentSalesNeverOversell(t *testing.T) {
	db := setupDB(t)
	rolls := NewRollRepository(db)
	sales := NewSaleRepository(db)
	tx := NewTxManager(db)
	today := shared.DateOf(time.Now())
	r := createRoll(t, rolls, "Denim", "Indigo", "100", today)

	var wg sync.WaitGroup
	var ok, rejected int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := tx.Transaction(context.Background(), func(ctx context.Context) error {
				locked, err := rolls.LockByID(ctx, r.ID)
				if err != nil {
					return err
				}
				if err := locked.EnsureAvailable(d("15")); err != nil {
					return err
				}
				if err := sales.Create(ctx, &sale.Sale{RollID: r.ID, MetersSold: d("15"), SaleDate: today}); err != nil {
					return err
				}
				return rolls.DecreaseStock(ctx, r.ID, d("15"))
			})
			switch {
			case err == nil:
				atomic.AddInt32(&ok, 1)
			case errors.Is(err, roll.ErrInsufficientStock):
				atomic.AddInt32(&rejected, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(6), ok)
	assert.Equal(t, int32(4), rejected)

	after, err := rolls.FindByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.True(t, after.CurrentLength.Equal(d("10")), after.CurrentLength.String())
	assert.Equal(t, int64(6), countSales(t, db, r.ID))
}

func TestRollRepository_ListStatsDistinct(t *testing.T) {
	db := setupDB(t)
	repo := NewRollRepository(db)
	ctx := context.Background()

	a := createRoll(t, repo, "Cotton", "White", "100", shared.NewDate(2024, time.January, 10))
	b := createRoll(t, repo, "Cotton Poplin", "Blue", "40", shared.NewDate(2024, time.February, 1))
	c := createRoll(t, repo, "Silk", "Red", "5", shared.NewDate(2023, time.December, 5))
	empty := createRoll(t, repo, "Wool_Blend", "Grey", "12", shared.NewDate(2024, time.March, 1))
	require.NoError(t, repo.DecreaseStock(ctx, empty.ID, d("12")))

	ids := func(rs []*roll.Roll) []uint {
		out := make([]uint, len(rs))
		for i, r := range rs {
			out[i] = r.ID
		}
		return out
	}

	// default ordering: entry_date DESC
	all, err := repo.List(ctx, roll.ListParams{OrderBy: roll.DefaultSortField, OrderDir: roll.DefaultSortDirection})
	require.NoError(t, err)
	assert.Equal(t, []uint{empty.ID, b.ID, a.ID, c.ID}, ids(all))

	// substring filter, case-insensitive collation, ascending length
	cotton, err := repo.List(ctx, roll.ListParams{FabricType: "cotton", OrderBy: roll.SortByCurrentLength, OrderDir: roll.SortAsc})
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID, a.ID}, ids(cotton))

	// min stock excludes the empty and the short roll
	stocked, err := repo.List(ctx, roll.ListParams{MinStock: d("10"), OrderBy: roll.SortByColor, OrderDir: roll.SortAsc})
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID, a.ID}, ids(stocked))

	// "_" is literal, not a wildcard
	underscore, err := repo.List(ctx, roll.ListParams{FabricType: "l_b"})
	require.NoError(t, err)
	assert.Empty(t, underscore)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalRolls)
	assert.True(t, stats.TotalMeters.Equal(d("145")), stats.TotalMeters.String())
	assert.Equal(t, "48.33", stats.AvgMetersPerRoll.Round(2).String())
	assert.Equal(t, int64(3), stats.FabricTypesCount)
	assert.Equal(t, int64(3), stats.ColorsCount)

	types, err := repo.DistinctFabricTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cotton", "Cotton Poplin", "Silk", "Wool_Blend"}, types)

	colors, err := repo.DistinctColors(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Blue", "Grey", "Red", "White"}, colors)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%cotton%", likePattern("cotton"))
	assert.Equal(t, `%50\% off%`, likePattern("50% off"))
	assert.Equal(t, `%a\_b%`, likePattern("a_b"))
}
