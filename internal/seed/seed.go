package seed

import (
	"database/sql"
	"fmt"

	"github.com/Simplici0/fabricalc/internal/costmodel"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run installs model into an empty database in an idempotent way. The cost
// model singleton is inserted only when missing, and materials only when the
// table is empty, so user edits are never overwritten.
func Run(db *sql.DB, model costmodel.CostModel) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := ensureCostModel(tx, model, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureMaterials(tx, model.Materials, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureCostModel(tx *sql.Tx, model costmodel.CostModel, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM cost_model WHERE id = 1)`).Scan(&exists); err != nil {
		return fmt.Errorf("check cost model existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`
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
		)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		model.ElectricityRate,
		model.PowerDrawKw,
		model.PrinterPrice,
		model.PrinterLifetimeHours,
		model.LocalShippingFee,
		model.NationalShippingFee,
		model.LaborRate,
		model.WastePercent,
	); err != nil {
		return fmt.Errorf("insert cost model singleton: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureMaterials(tx *sql.Tx, materials map[string]float64, stats *Stats) error {
	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM materials`).Scan(&count); err != nil {
		return fmt.Errorf("count materials: %w", err)
	}
	if count > 0 {
		return nil
	}

	for name, price := range materials {
		if _, err := tx.Exec(`INSERT INTO materials (name, price_per_kg) VALUES (?, ?)`, name, price); err != nil {
			return fmt.Errorf("insert default material %q: %w", name, err)
		}
		stats.Inserts++
	}
	return nil
}
