package mysql

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/fabric-inventory/internal/domain/roll"
	apperrors "github.com/xiebiao/fabric-inventory/pkg/errors"
)

// rollRepository is the MySQL roll repository.
// Design notes:
// 1. Implements domain/roll.Repository
// 2. Converts between roll.Roll and RollModel
// 3. Translates driver errors into domain errors
type rollRepository struct {
	db *gorm.DB
}

// NewRollRepository creates the roll repository.
func NewRollRepository(db *gorm.DB) roll.Repository {
	return &rollRepository{db: db}
}

// Create inserts a roll.
func (r *rollRepository) Create(ctx context.Context, rl *roll.Roll) error {
	// 1. entity → model
	model := &RollModel{
		FabricType:     rl.FabricType,
		Color:          rl.Color,
		OriginalLength: rl.OriginalLength,
		CurrentLength:  rl.CurrentLength,
		EntryDate:      rl.EntryDate,
	}

	// 2. insert
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "create roll failed")
	}

	// 3. copy back generated columns
	rl.ID = model.ID
	rl.CreatedAt = model.CreatedAt
	rl.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID loads one roll.
func (r *rollRepository) FindByID(ctx context.Context, id uint) (*roll.Roll, error) {
	var model RollModel
	if err := dbFrom(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, roll.ErrRollNotFound
		}
		return nil, apperrors.Wrap(err, "query roll failed")
	}

	return toRollEntity(&model), nil
}

// LockByID loads one roll with SELECT ... FOR UPDATE.
// Only meaningful inside TxManager.Transaction; the lock is held until commit.
func (r *rollRepository) LockByID(ctx context.Context, id uint) (*roll.Roll, error) {
	var model RollModel
	err := dbFrom(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, roll.ErrRollNotFound
		}
		return nil, apperrors.Wrap(err, "lock roll failed")
	}

	return toRollEntity(&model), nil
}

// DecreaseStock subtracts meters in a single guarded statement:
//
//	UPDATE fabric_rolls SET current_length = current_length - ?, updated_at = ?
//	WHERE id = ? AND current_length >= ?
func (r *rollRepository) DecreaseStock(ctx context.Context, id uint, meters decimal.Decimal) error {
	db := dbFrom(ctx, r.db)
	result := db.Model(&RollModel{}).
		Where("id = ?", id).
		Where("current_length >= ?", meters).
		Update("current_length", gorm.Expr("current_length - ?", meters))

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "update stock failed")
	}

	if result.RowsAffected == 0 {
		// Either the roll is gone or the guard rejected the update.
		current, err := r.FindByID(ctx, id)
		if err != nil {
			return err
		}
		return roll.NewInsufficientStockError(current.CurrentLength, meters)
	}

	return nil
}

// List returns rolls with current_length >= MinStock matching the substring
// filters, ordered by an allow-listed column.
func (r *rollRepository) List(ctx context.Context, params roll.ListParams) ([]*roll.Roll, error) {
	query := dbFrom(ctx, r.db).Model(&RollModel{}).
		Where("current_length >= ?", params.MinStock)

	if params.FabricType != "" {
		query = query.Where("fabric_type LIKE ?", likePattern(params.FabricType))
	}
	if params.Color != "" {
		query = query.Where("color LIKE ?", likePattern(params.Color))
	}

	// OrderBy/OrderDir come from roll.ParseSortField/ParseSortDirection, so
	// only allow-listed identifiers ever reach the ORDER BY clause.
	desc := params.OrderDir != roll.SortAsc
	query = query.Order(clause.OrderByColumn{
		Column: clause.Column{Name: string(sortColumn(params.OrderBy))},
		Desc:   desc,
	}).Order(clause.OrderByColumn{
		Column: clause.Column{Name: "id"},
		Desc:   desc,
	})

	var models []RollModel
	if err := query.Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "list rolls failed")
	}

	rolls := make([]*roll.Roll, len(models))
	for i := range models {
		rolls[i] = toRollEntity(&models[i])
	}
	return rolls, nil
}

// statsRow receives the aggregate query.
type statsRow struct {
	TotalRolls       int64
	TotalMeters      decimal.Decimal
	AvgMetersPerRoll decimal.Decimal
	FabricTypesCount int64
	ColorsCount      int64
}

// Stats aggregates rolls that still have stock.
func (r *rollRepository) Stats(ctx context.Context) (*roll.Stats, error) {
	var row statsRow
	err := dbFrom(ctx, r.db).Model(&RollModel{}).
		Select(`COUNT(*) AS total_rolls,
			COALESCE(SUM(current_length), 0) AS total_meters,
			COALESCE(AVG(current_length), 0) AS avg_meters_per_roll,
			COUNT(DISTINCT fabric_type) AS fabric_types_count,
			COUNT(DISTINCT color) AS colors_count`).
		Where("current_length > 0").
		Scan(&row).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "query inventory stats failed")
	}

	return &roll.Stats{
		TotalRolls:       row.TotalRolls,
		TotalMeters:      row.TotalMeters,
		AvgMetersPerRoll: row.AvgMetersPerRoll,
		FabricTypesCount: row.FabricTypesCount,
		ColorsCount:      row.ColorsCount,
	}, nil
}

// DistinctFabricTypes lists fabric types in ascending order.
func (r *rollRepository) DistinctFabricTypes(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "fabric_type")
}

// DistinctColors lists colors in ascending order.
func (r *rollRepository) DistinctColors(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "color")
}

func (r *rollRepository) distinct(ctx context.Context, column string) ([]string, error) {
	values := []string{}
	err := dbFrom(ctx, r.db).Model(&RollModel{}).
		Distinct().
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}}).
		Pluck(column, &values).Error
	if err != nil {
		return nil, apperrors.Wrapf(err, "query distinct %s failed", column)
	}
	return values, nil
}

// =========================================
// Helpers: model conversion
// =========================================

// sortColumn maps a sort field to its column name.
func sortColumn(f roll.SortField) roll.SortField {
	switch f {
	case roll.SortByEntryDate, roll.SortByCurrentLength, roll.SortByFabricType, roll.SortByColor:
		return f
	default:
		return roll.DefaultSortField
	}
}

// toRollEntity model → entity
func toRollEntity(model *RollModel) *roll.Roll {
	return &roll.Roll{
		ID:             model.ID,
		FabricType:     model.FabricType,
		Color:          model.Color,
		OriginalLength: model.OriginalLength,
		CurrentLength:  model.CurrentLength,
		EntryDate:      model.EntryDate,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}
