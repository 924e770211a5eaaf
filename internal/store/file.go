package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Simplici0/fabricalc/internal/costmodel"
)

// fileDocument is the on-disk shape. Pointer fields let Load tell a missing
// key apart from a zero value.
type fileDocument struct {
	Materials            map[string]float64 `json:"materiales"`
	ElectricityRate      *float64           `json:"electricidad_kwh"`
	PowerDrawKw          *float64           `json:"consumo_kw_por_hora"`
	PrinterPrice         *float64           `json:"precio_impresora"`
	PrinterLifetimeHours *float64           `json:"vida_util_horas"`
	LocalShippingFee     *float64           `json:"envio_local"`
	NationalShippingFee  *float64           `json:"envio_nacional"`
	LaborRate            *float64           `json:"precio_hora_trabajo"`
	WastePercent         *float64           `json:"factor_desperdicio"`
}

// FileBackend stores the cost model as a single JSON object.
type FileBackend struct {
	path string
}

// NewFileBackend returns a backend for the JSON file at path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (b *FileBackend) Location() string { return b.path }

// Load reads and decodes the file. A missing file yields ErrNotFound; anything
// unreadable or incomplete yields a *ParseError.
func (b *FileBackend) Load() (costmodel.CostModel, error) {
	raw, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return costmodel.CostModel{}, fmt.Errorf("%s: %w", b.path, ErrNotFound)
		}
		return costmodel.CostModel{}, &ParseError{Source: b.path, Err: err}
	}

	model, err := decodeDocument(raw)
	if err != nil {
		return costmodel.CostModel{}, &ParseError{Source: b.path, Err: err}
	}
	return model, nil
}

// Save replaces the file with the full model. The write goes to a temporary
// file in the same directory which is then renamed over the destination, so
// readers never observe a partial document.
func (b *FileBackend) Save(model costmodel.CostModel) error {
	data, err := encodeDocument(model)
	if err != nil {
		return &IOError{Op: "encode", Path: b.path, Err: err}
	}
	if err := writeFileAtomic(b.path, data, 0o644); err != nil {
		return &IOError{Op: "write", Path: b.path, Err: err}
	}
	return nil
}

func encodeDocument(model costmodel.CostModel) ([]byte, error) {
	materials := model.Materials
	if materials == nil {
		materials = map[string]float64{}
	}
	doc := fileDocument{
		Materials:            materials,
		ElectricityRate:      &model.ElectricityRate,
		PowerDrawKw:          &model.PowerDrawKw,
		PrinterPrice:         &model.PrinterPrice,
		PrinterLifetimeHours: &model.PrinterLifetimeHours,
		LocalShippingFee:     &model.LocalShippingFee,
		NationalShippingFee:  &model.NationalShippingFee,
		LaborRate:            &model.LaborRate,
		WastePercent:         &model.WastePercent,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeDocument(raw []byte) (costmodel.CostModel, error) {
	var doc fileDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return costmodel.CostModel{}, err
	}

	if doc.Materials == nil {
		return costmodel.CostModel{}, errors.New("missing key materiales")
	}
	fields := []struct {
		key   string
		value *float64
	}{
		{"electricidad_kwh", doc.ElectricityRate},
		{"consumo_kw_por_hora", doc.PowerDrawKw},
		{"precio_impresora", doc.PrinterPrice},
		{"vida_util_horas", doc.PrinterLifetimeHours},
		{"envio_local", doc.LocalShippingFee},
		{"envio_nacional", doc.NationalShippingFee},
		{"precio_hora_trabajo", doc.LaborRate},
		{"factor_desperdicio", doc.WastePercent},
	}
	for _, f := range fields {
		if f.value == nil {
			return costmodel.CostModel{}, fmt.Errorf("missing key %s", f.key)
		}
	}

	return costmodel.CostModel{
		Materials:            doc.Materials,
		ElectricityRate:      *doc.ElectricityRate,
		PowerDrawKw:          *doc.PowerDrawKw,
		PrinterPrice:         *doc.PrinterPrice,
		PrinterLifetimeHours: *doc.PrinterLifetimeHours,
		LocalShippingFee:     *doc.LocalShippingFee,
		NationalShippingFee:  *doc.NationalShippingFee,
		LaborRate:            *doc.LaborRate,
		WastePercent:         *doc.WastePercent,
	}, nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	tmpName = ""
	return nil
}
