// Package catalog reads the pricing catalog out of SQLite into an immutable snapshot.
package catalog

import (
	"context"
	"database/sql"
	"fmt"

	pkgerrors "github.com/Simplici0/doorquote/internal/errors"
	"github.com/Simplici0/doorquote/internal/pricing"
)

// Load reads every catalog table and returns a MemoryCatalog. Nested children keep their
// stored position order.
func Load(ctx context.Context, db *sql.DB) (*pricing.MemoryCatalog, error) {
	var snap pricing.Snapshot
	var err error

	if snap.Units, err = loadUnits(ctx, db); err != nil {
		return nil, storageError(err)
	}
	if snap.ThicknessOptions, err = loadThickness(ctx, db); err != nil {
		return nil, storageError(err)
	}
	if snap.Attributes, err = loadAttributes(ctx, db); err != nil {
		return nil, storageError(err)
	}
	if snap.Options, err = loadOptions(ctx, db); err != nil {
		return nil, storageError(err)
	}

	return pricing.NewMemoryCatalog(snap)
}

func storageError(err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog")
}

func loadUnits(ctx context.Context, db *sql.DB) ([]pricing.Unit, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, name, kind FROM units ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query units: %w", err)
	}
	defer rows.Close()

	var out []pricing.Unit
	for rows.Next() {
		var u pricing.Unit
		var kind string
		if err := rows.Scan(&u.ID, &u.Name, &kind); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		u.Kind = pricing.UnitKind(kind)
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate units: %w", err)
	}
	return out, nil
}

func loadThickness(ctx context.Context, db *sql.DB) ([]pricing.ThicknessOption, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, door_type_id, thickness_value, cost_per_sqft
		FROM thickness_options
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query thickness options: %w", err)
	}
	defer rows.Close()

	var out []pricing.ThicknessOption
	for rows.Next() {
		var t pricing.ThicknessOption
		if err := rows.Scan(&t.ID, &t.DoorTypeID, &t.ThicknessValue, &t.CostPerSqFt); err != nil {
			return nil, fmt.Errorf("scan thickness option: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate thickness options: %w", err)
	}
	return out, nil
}

func loadAttributes(ctx context.Context, db *sql.DB) ([]pricing.AttributeDefinition, error) {
	children, err := loadChildren(ctx, db)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, name, cost_kind, fixed_cost, cost_per_unit, unit_id, supports_double_side
		FROM attributes
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query attributes: %w", err)
	}
	defer rows.Close()

	var out []pricing.AttributeDefinition
	for rows.Next() {
		var a pricing.AttributeDefinition
		var kind string
		var unitID sql.NullInt64
		if err := rows.Scan(&a.ID, &a.Name, &kind, &a.FixedCost, &a.CostPerUnit, &unitID, &a.SupportsDoubleSide); err != nil {
			return nil, fmt.Errorf("scan attribute: %w", err)
		}
		a.CostKind = pricing.CostKind(kind)
		if unitID.Valid {
			a.UnitID = unitID.Int64
		}
		a.Children = children[a.ID]
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attributes: %w", err)
	}
	return out, nil
}

func loadChildren(ctx context.Context, db *sql.DB) (map[int64][]int64, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT parent_id, child_id
		FROM attribute_children
		ORDER BY parent_id, position, child_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query attribute children: %w", err)
	}
	defer rows.Close()

	out := map[int64][]int64{}
	for rows.Next() {
		var parentID, childID int64
		if err := rows.Scan(&parentID, &childID); err != nil {
			return nil, fmt.Errorf("scan attribute child: %w", err)
		}
		out[parentID] = append(out[parentID], childID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attribute children: %w", err)
	}
	return out, nil
}

func loadOptions(ctx context.Context, db *sql.DB) ([]pricing.AttributeOption, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, attribute_id, name, cost, cost_per_unit
		FROM attribute_options
		ORDER BY attribute_id, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query attribute options: %w", err)
	}
	defer rows.Close()

	var out []pricing.AttributeOption
	for rows.Next() {
		var o pricing.AttributeOption
		if err := rows.Scan(&o.ID, &o.AttributeID, &o.Name, &o.Cost, &o.CostPerUnit); err != nil {
			return nil, fmt.Errorf("scan attribute option: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attribute options: %w", err)
	}
	return out, nil
}
