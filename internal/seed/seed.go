package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/doorquote/internal/pricing"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

type unitSeed struct {
	name string
	kind pricing.UnitKind
}

type thicknessSeed struct {
	value string
	rate  string
}

type doorTypeSeed struct {
	name      string
	thickness []thicknessSeed
}

type optionSeed struct {
	name        string
	cost        string
	costPerUnit string
}

type attributeSeed struct {
	name        string
	kind        pricing.CostKind
	fixedCost   string
	costPerUnit string
	unit        string
	doubleSide  bool
	options     []optionSeed
	children    []string
}

var units = []unitSeed{
	{name: "Piece", kind: pricing.UnitLinear},
	{name: "Square Foot", kind: pricing.UnitVector},
	{name: "Linear Foot", kind: pricing.UnitLinear},
}

var doorTypes = []doorTypeSeed{
	{name: "Solid Wood", thickness: []thicknessSeed{{"35", "25.00"}, {"45", "35.00"}, {"55", "45.00"}}},
	{name: "Hollow Core", thickness: []thicknessSeed{{"35", "15.00"}, {"45", "20.00"}}},
}

// Children must be listed before the nested attribute that references them.
var attributes = []attributeSeed{
	{
		name: "Premium Finish", kind: pricing.CostConstant, fixedCost: "50.00", doubleSide: true,
		options: []optionSeed{{name: "Standard", cost: "50.00"}, {name: "Deluxe", cost: "75.00"}, {name: "Luxury", cost: "100.00"}},
	},
	{name: "Custom Size", kind: pricing.CostVariable, costPerUnit: "2.50", unit: "Square Foot"},
	{name: "Special Handling", kind: pricing.CostDirect},
	{
		name: "Hardware Package", kind: pricing.CostConstant, fixedCost: "75.00",
		options: []optionSeed{{name: "Basic", cost: "75.00"}, {name: "Premium", cost: "120.00"}, {name: "Luxury", cost: "200.00"}},
	},
	{
		name: "Hinge Set", kind: pricing.CostConstant, fixedCost: "15.00",
		options: []optionSeed{{name: "Steel", cost: "15.00"}, {name: "Brass", cost: "25.00"}},
	},
	{name: "Door Handle", kind: pricing.CostConstant, fixedCost: "30.00"},
	{name: "Weatherstrip", kind: pricing.CostVariable, costPerUnit: "1.50", unit: "Linear Foot"},
	{name: "Hardware Kit", kind: pricing.CostNested, unit: "Piece", children: []string{"Hinge Set", "Door Handle", "Weatherstrip"}},
}

// Run executes the catalog seed in an idempotent way inside one transaction.
func Run(ctx context.Context, db *sql.DB) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	if err := seedAll(ctx, tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}
	return stats, nil
}

func seedAll(ctx context.Context, tx *sql.Tx, stats *Stats) error {
	unitIDs := map[string]int64{}
	for _, u := range units {
		id, err := ensureUnit(ctx, tx, u, stats)
		if err != nil {
			return err
		}
		unitIDs[u.name] = id
	}

	for _, dt := range doorTypes {
		doorTypeID, err := ensureDoorType(ctx, tx, dt.name, stats)
		if err != nil {
			return err
		}
		for _, th := range dt.thickness {
			if err := ensureThickness(ctx, tx, doorTypeID, th, stats); err != nil {
				return err
			}
		}
	}

	attributeIDs := map[string]int64{}
	for _, a := range attributes {
		id, err := ensureAttribute(ctx, tx, a, unitIDs, stats)
		if err != nil {
			return err
		}
		attributeIDs[a.name] = id

		for _, o := range a.options {
			if err := ensureOption(ctx, tx, id, o, stats); err != nil {
				return err
			}
		}
		for position, childName := range a.children {
			childID, ok := attributeIDs[childName]
			if !ok {
				return fmt.Errorf("seed attribute %q references unseeded child %q", a.name, childName)
			}
			if err := ensureChild(ctx, tx, id, childID, position, stats); err != nil {
				return err
			}
		}
	}
	return nil
}

// lookupID returns the id for query, or 0 when no row matches.
func lookupID(ctx context.Context, tx *sql.Tx, query string, args ...any) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return id, err
}

func insertID(ctx context.Context, tx *sql.Tx, stats *Stats, query string, args ...any) (int64, error) {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	stats.Inserts++
	return res.LastInsertId()
}

func ensureUnit(ctx context.Context, tx *sql.Tx, u unitSeed, stats *Stats) (int64, error) {
	id, err := lookupID(ctx, tx, `SELECT id FROM units WHERE name = ?`, u.name)
	if err != nil {
		return 0, fmt.Errorf("check unit %q existence: %w", u.name, err)
	}
	if id != 0 {
		return id, nil
	}
	id, err = insertID(ctx, tx, stats, `INSERT INTO units (name, kind) VALUES (?, ?)`, u.name, string(u.kind))
	if err != nil {
		return 0, fmt.Errorf("insert unit %q: %w", u.name, err)
	}
	return id, nil
}

func ensureDoorType(ctx context.Context, tx *sql.Tx, name string, stats *Stats) (int64, error) {
	id, err := lookupID(ctx, tx, `SELECT id FROM door_types WHERE name = ?`, name)
	if err != nil {
		return 0, fmt.Errorf("check door type %q existence: %w", name, err)
	}
	if id != 0 {
		return id, nil
	}
	id, err = insertID(ctx, tx, stats, `INSERT INTO door_types (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("insert door type %q: %w", name, err)
	}
	return id, nil
}

func ensureThickness(ctx context.Context, tx *sql.Tx, doorTypeID int64, th thicknessSeed, stats *Stats) error {
	id, err := lookupID(ctx, tx, `
		SELECT id FROM thickness_options
		WHERE door_type_id = ? AND thickness_value = ?
	`, doorTypeID, th.value)
	if err != nil {
		return fmt.Errorf("check thickness %s existence: %w", th.value, err)
	}
	if id != 0 {
		return nil
	}
	if _, err := insertID(ctx, tx, stats, `
		INSERT INTO thickness_options (door_type_id, thickness_value, cost_per_sqft)
		VALUES (?, ?, ?)
	`, doorTypeID, th.value, decimal.RequireFromString(th.rate)); err != nil {
		return fmt.Errorf("insert thickness %s: %w", th.value, err)
	}
	return nil
}

func ensureAttribute(ctx context.Context, tx *sql.Tx, a attributeSeed, unitIDs map[string]int64, stats *Stats) (int64, error) {
	id, err := lookupID(ctx, tx, `SELECT id FROM attributes WHERE name = ?`, a.name)
	if err != nil {
		return 0, fmt.Errorf("check attribute %q existence: %w", a.name, err)
	}
	if id != 0 {
		return id, nil
	}

	var unitID sql.NullInt64
	if a.unit != "" {
		unitID = sql.NullInt64{Int64: unitIDs[a.unit], Valid: true}
	}
	id, err = insertID(ctx, tx, stats, `
		INSERT INTO attributes (name, cost_kind, fixed_cost, cost_per_unit, unit_id, supports_double_side)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.name, string(a.kind), nullDecimal(a.fixedCost), nullDecimal(a.costPerUnit), unitID, a.doubleSide)
	if err != nil {
		return 0, fmt.Errorf("insert attribute %q: %w", a.name, err)
	}
	return id, nil
}

func ensureOption(ctx context.Context, tx *sql.Tx, attributeID int64, o optionSeed, stats *Stats) error {
	id, err := lookupID(ctx, tx, `SELECT id FROM attribute_options WHERE attribute_id = ? AND name = ?`, attributeID, o.name)
	if err != nil {
		return fmt.Errorf("check option %q existence: %w", o.name, err)
	}
	if id != 0 {
		return nil
	}
	if _, err := insertID(ctx, tx, stats, `
		INSERT INTO attribute_options (attribute_id, name, cost, cost_per_unit)
		VALUES (?, ?, ?, ?)
	`, attributeID, o.name, nullDecimal(o.cost), nullDecimal(o.costPerUnit)); err != nil {
		return fmt.Errorf("insert option %q: %w", o.name, err)
	}
	return nil
}

func ensureChild(ctx context.Context, tx *sql.Tx, parentID, childID int64, position int, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM attribute_children WHERE parent_id = ? AND child_id = ?)
	`, parentID, childID).Scan(&exists); err != nil {
		return fmt.Errorf("check attribute child existence: %w", err)
	}
	if exists {
		return nil
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO attribute_children (parent_id, child_id, position) VALUES (?, ?, ?)
	`, parentID, childID, position); err != nil {
		return fmt.Errorf("insert attribute child: %w", err)
	}
	stats.Inserts++
	return nil
}

func nullDecimal(s string) decimal.NullDecimal {
	if s == "" {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}
