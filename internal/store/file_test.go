package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/fabricalc/internal/costmodel"
)

const legacyConfig = `{
  "materiales": {
    "PLA Wood": 150000,
    "PETG": 120000,
    "PLA+": 90000
  },
  "electricidad_kwh": 968,
  "consumo_kw_por_hora": 0.5,
  "precio_impresora": 1200000,
  "vida_util_horas": 7000,
  "envio_local": 6000,
  "envio_nacional": 12000,
  "precio_hora_trabajo": 6471,
  "factor_desperdicio": 100
}`

func TestFileBackendMissingFile(t *testing.T) {
	b := NewFileBackend(filepath.Join(t.TempDir(), "config.json"))

	_, err := b.Load()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileBackendReadsLegacyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(legacyConfig), 0o644))

	model, err := NewFileBackend(path).Load()
	require.NoError(t, err)
	assert.Equal(t, costmodel.Defaults(), model)
}

func TestFileBackendParseErrors(t *testing.T) {
	cases := map[string]string{
		"not json":       `{"materiales": `,
		"wrong type":     `{"materiales": "PLA"}`,
		"missing key":    `{"materiales": {"PLA": 1}, "electricidad_kwh": 968}`,
		"null field":     `{"materiales": {"PLA": 1}, "electricidad_kwh": null}`,
		"empty document": ``,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			_, err := NewFileBackend(path).Load()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse))
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, path, parseErr.Source)
		})
	}
}

func TestFileBackendRoundTripIsByteStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	b := NewFileBackend(path)

	model := costmodel.Defaults().WithMaterial("Fibra de carbono <CF>", 310000.5)
	require.NoError(t, b.Save(model))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	loaded, err := b.Load()
	require.NoError(t, err)
	assert.Equal(t, model, loaded)

	require.NoError(t, b.Save(loaded))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
	assert.Contains(t, string(first), `"Fibra de carbono <CF>": 310000.5`)
}

func TestFileBackendSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	b := NewFileBackend(filepath.Join(dir, "config.json"))

	require.NoError(t, b.Save(costmodel.Defaults()))
	require.NoError(t, b.Save(costmodel.Defaults()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "config.json", entries[0].Name())
}

func TestFileBackendSaveFailureIsIOError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "config.json")

	err := NewFileBackend(path).Save(costmodel.Defaults())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIO))
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, path, ioErr.Path)
}
