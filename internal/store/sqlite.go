package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Simplici0/fabricalc/internal/costmodel"
	"github.com/Simplici0/fabricalc/internal/db"
	"github.com/Simplici0/fabricalc/internal/migrations"
	"github.com/Simplici0/fabricalc/internal/seed"
)

// SQLiteBackend stores the cost model as a singleton row plus a materials table.
type SQLiteBackend struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path, applies the
// schema and seeds the defaults into an empty database.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.Up(database); err != nil {
		database.Close()
		return nil, err
	}
	if _, err := seed.Run(database, costmodel.Defaults()); err != nil {
		database.Close()
		return nil, err
	}
	return &SQLiteBackend{db: database, path: path}, nil
}

// NewSQLiteBackend wraps an already migrated database.
func NewSQLiteBackend(database *sql.DB, path string) *SQLiteBackend {
	return &SQLiteBackend{db: database, path: path}
}

func (b *SQLiteBackend) Location() string { return b.path }

// Close releases the underlying database.
func (b *SQLiteBackend) Close() error { return b.db.Close() }

// Load reads the singleton row and every material.
func (b *SQLiteBackend) Load() (costmodel.CostModel, error) {
	var m costmodel.CostModel
	err := b.db.QueryRow(`
		SELECT
			electricity_rate,
			power_draw_kw,
			printer_price,
			printer_lifetime_hours,
			local_shipping_fee,
			national_shipping_fee,
			labor_rate,
			waste_percent
		FROM cost_model
		WHERE id = 1
	`).Scan(
		&m.ElectricityRate,
		&m.PowerDrawKw,
		&m.PrinterPrice,
		&m.PrinterLifetimeHours,
		&m.LocalShippingFee,
		&m.NationalShippingFee,
		&m.LaborRate,
		&m.WastePercent,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return costmodel.CostModel{}, fmt.Errorf("%s: %w", b.path, ErrNotFound)
		}
		return costmodel.CostModel{}, &ParseError{Source: b.path, Err: fmt.Errorf("query cost_model: %w", err)}
	}

	materials, err := b.loadMaterials()
	if err != nil {
		return costmodel.CostModel{}, &ParseError{Source: b.path, Err: err}
	}
	m.Materials = materials
	return m, nil
}

func (b *SQLiteBackend) loadMaterials() (map[string]float64, error) {
	rows, err := b.db.Query(`SELECT name, price_per_kg FROM materials ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query materials: %w", err)
	}
	defer rows.Close()

	materials := make(map[string]float64)
	for rows.Next() {
		var name string
		var price float64
		if err := rows.Scan(&name, &price); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		materials[name] = price
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate materials: %w", err)
	}
	return materials, nil
}

// Save replaces the singleton and the whole materials table in one transaction.
func (b *SQLiteBackend) Save(model costmodel.CostModel) error {
	if err := b.save(model); err != nil {
		return &IOError{Op: "save", Path: b.path, Err: err}
	}
	return nil
}

func (b *SQLiteBackend) save(model costmodel.CostModel) error {
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO cost_model (
			id,
			electricity_rate,
			power_draw_kw,
			printer_price,
			printer_lifetime_hours,
			local_shipping_fee,
			national_shipping_fee,
			labor_rate,
			waste_percent
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			electricity_rate = excluded.electricity_rate,
			power_draw_kw = excluded.power_draw_kw,
			printer_price = excluded.printer_price,
			printer_lifetime_hours = excluded.printer_lifetime_hours,
			local_shipping_fee = excluded.local_shipping_fee,
			national_shipping_fee = excluded.national_shipping_fee,
			labor_rate = excluded.labor_rate,
			waste_percent = excluded.waste_percent,
			updated_at = CURRENT_TIMESTAMP
	`,
		model.ElectricityRate,
		model.PowerDrawKw,
		model.PrinterPrice,
		model.PrinterLifetimeHours,
		model.LocalShippingFee,
		model.NationalShippingFee,
		model.LaborRate,
		model.WastePercent,
	)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("upsert cost_model: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM materials`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear materials: %w", err)
	}
	for _, name := range model.MaterialNames() {
		if _, err := tx.Exec(`INSERT INTO materials (name, price_per_kg) VALUES (?, ?)`, name, model.Materials[name]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert material %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save transaction: %w", err)
	}
	return nil
}
