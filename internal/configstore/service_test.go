package configstore

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/fabricalc/internal/costmodel"
	"github.com/Simplici0/fabricalc/internal/logging"
	"github.com/Simplici0/fabricalc/internal/store"
)

// flakyBackend wraps a real backend and fails Save on demand.
type flakyBackend struct {
	store.Backend
	failSave bool
	saves    int
}

func (f *flakyBackend) Save(model costmodel.CostModel) error {
	if f.failSave {
		return &store.IOError{Op: "write", Path: f.Location(), Err: errors.New("disk full")}
	}
	f.saves++
	return f.Backend.Save(model)
}

func quietLogger() *logging.Logger {
	return logging.New(logging.LogConfig{Level: logging.ERROR, Output: &bytes.Buffer{}})
}

func newFileService(t *testing.T) (*Service, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	return New(store.NewFileBackend(path), quietLogger()), path
}

func TestLoadMissingFileInstallsDefaults(t *testing.T) {
	svc, path := newFileService(t)

	model, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, costmodel.Defaults(), model)

	persisted, err := store.NewFileBackend(path).Load()
	require.NoError(t, err)
	assert.Equal(t, costmodel.Defaults(), persisted)
}

func TestLoadCorruptFileReportsParseErrorAndSelfHeals(t *testing.T) {
	svc, path := newFileService(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	model, err := svc.Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrParse))
	assert.Equal(t, costmodel.Defaults(), model)
	assert.Equal(t, costmodel.Defaults(), svc.Current())

	persisted, err := store.NewFileBackend(path).Load()
	require.NoError(t, err)
	assert.Equal(t, costmodel.Defaults(), persisted)
}

func TestLoadRestoresEmptyMaterials(t *testing.T) {
	svc, path := newFileService(t)
	empty := costmodel.Defaults()
	empty.Materials = map[string]float64{}
	require.NoError(t, store.NewFileBackend(path).Save(empty))

	model, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, costmodel.DefaultMaterials(), model.Materials)

	persisted, err := store.NewFileBackend(path).Load()
	require.NoError(t, err)
	assert.Equal(t, costmodel.DefaultMaterials(), persisted.Materials)
}

func TestLoadWarnsAboutInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	invalid := costmodel.Defaults()
	invalid.LaborRate = -5
	require.NoError(t, store.NewFileBackend(path).Save(invalid))

	var logs bytes.Buffer
	svc := New(store.NewFileBackend(path), logging.New(logging.LogConfig{Level: logging.WARN, Output: &logs}))

	model, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, -5.0, model.LaborRate)
	assert.Contains(t, logs.String(), "WARN")
	assert.Contains(t, logs.String(), "precio_hora_trabajo")
}

func TestSaveLoadRoundTripIsByteStable(t *testing.T) {
	svc, path := newFileService(t)
	_, err := svc.Load()
	require.NoError(t, err)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	loaded, err := svc.Load()
	require.NoError(t, err)
	_, err = svc.Save(loaded)
	require.NoError(t, err)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestSaveValidatesAndKeepsState(t *testing.T) {
	svc, path := newFileService(t)
	_, err := svc.Load()
	require.NoError(t, err)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	bad := svc.Current()
	bad.PrinterLifetimeHours = 0
	_, err = svc.Save(bad)
	assert.ErrorIs(t, err, costmodel.ErrValidation)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
	assert.Equal(t, costmodel.Defaults(), svc.Current())
}

func TestSaveEmptyMaterialsRestoresDefaults(t *testing.T) {
	svc, _ := newFileService(t)
	_, err := svc.Load()
	require.NoError(t, err)

	edited := svc.Current()
	edited.Materials = nil
	edited.LaborRate = 7000

	saved, err := svc.Save(edited)
	require.NoError(t, err)
	assert.Equal(t, costmodel.DefaultMaterials(), saved.Materials)
	assert.Equal(t, 7000.0, svc.Current().LaborRate)
}

func TestSaveIOErrorLeavesSnapshotUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	backend := &flakyBackend{Backend: store.NewFileBackend(path)}
	svc := New(backend, quietLogger())
	_, err := svc.Load()
	require.NoError(t, err)

	backend.failSave = true
	edited := svc.Current()
	edited.ElectricityRate = 1000
	_, err = svc.Save(edited)
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrIO))
	assert.Equal(t, 968.0, svc.Current().ElectricityRate)

	_, err = svc.ResetToDefaults()
	assert.True(t, errors.Is(err, store.ErrIO))
}

func TestAddMaterialPersists(t *testing.T) {
	svc, path := newFileService(t)
	_, err := svc.Load()
	require.NoError(t, err)

	model, err := svc.AddMaterial("  TPU  ", "210000")
	require.NoError(t, err)
	assert.Equal(t, 210000.0, model.Materials["TPU"])
	assert.Equal(t, 210000.0, svc.Current().Materials["TPU"])

	persisted, err := store.NewFileBackend(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 210000.0, persisted.Materials["TPU"])

	_, err = svc.AddMaterial("TPU", "199000")
	require.NoError(t, err)
	assert.Equal(t, 199000.0, svc.Current().Materials["TPU"])
}

func TestAddMaterialRejectsBadInputWithoutMutation(t *testing.T) {
	svc, path := newFileService(t)
	_, err := svc.Load()
	require.NoError(t, err)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	cases := []struct{ name, price string }{
		{"", "1000"},
		{"   ", "1000"},
		{"Nylon", "mucho"},
		{"Nylon", ""},
		{"Nylon", "NaN"},
		{"Nylon", "-5"},
	}
	for _, c := range cases {
		_, err := svc.AddMaterial(c.name, c.price)
		assert.ErrorIs(t, err, costmodel.ErrValidation, "%q/%q", c.name, c.price)
	}

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
	assert.Equal(t, costmodel.Defaults(), svc.Current())
}

func TestResetToDefaults(t *testing.T) {
	svc, path := newFileService(t)
	_, err := svc.Load()
	require.NoError(t, err)
	_, err = svc.AddMaterial("TPU", "210000")
	require.NoError(t, err)

	model, err := svc.ResetToDefaults()
	require.NoError(t, err)
	assert.Equal(t, costmodel.Defaults(), model)
	assert.Equal(t, costmodel.Defaults(), svc.Current())

	persisted, err := store.NewFileBackend(path).Load()
	require.NoError(t, err)
	assert.Equal(t, costmodel.Defaults(), persisted)
}

func TestCurrentReturnsCopy(t *testing.T) {
	svc, _ := newFileService(t)
	_, err := svc.Load()
	require.NoError(t, err)

	m := svc.Current()
	m.Materials["PETG"] = 1

	assert.Equal(t, 120000.0, svc.Current().Materials["PETG"])
}

func TestServiceOverSQLite(t *testing.T) {
	backend, err := store.OpenSQLite(filepath.Join(t.TempDir(), "fabricalc.db"))
	require.NoError(t, err)
	defer backend.Close()

	svc := New(backend, quietLogger())
	_, err = svc.Load()
	require.NoError(t, err)

	_, err = svc.AddMaterial("ASA", "140000")
	require.NoError(t, err)

	reloaded, err := New(backend, quietLogger()).Load()
	require.NoError(t, err)
	assert.Equal(t, 140000.0, reloaded.Materials["ASA"])
}
