package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mazenwkamel/StackTics/internal/model"
)

func testPlan(name string) model.Plan {
	bed := model.Bed{Length: 200, Width: 150, Height: 40}
	boxes := []model.Box{model.NewBox("crate", 50, 40, 30, 10)}
	return model.NewPlan(name, bed, boxes, model.DefaultSettings(), model.OptimizeResult{})
}

func TestStoreSaveAndLoadRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	plan := testPlan("weekend trip")
	require.NoError(t, store.Save(plan))

	loaded, err := store.Load(plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan, loaded)
}

func TestStoreLoadMissingPlan(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("nope1234")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStoreListSortsByName(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(testPlan("zulu")))
	require.NoError(t, store.Save(testPlan("alpha")))
	require.NoError(t, store.Save(testPlan("mike")))

	plans, err := store.List()
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, "alpha", plans[0].Name)
	assert.Equal(t, "mike", plans[1].Name)
	assert.Equal(t, "zulu", plans[2].Name)
}

func TestStoreListSkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save(testPlan("good")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken12.json"), []byte("{not json"), 0644))

	plans, err := store.List()
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "good", plans[0].Name)
}

func TestStoreDelete(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	plan := testPlan("short lived")
	require.NoError(t, store.Save(plan))
	require.NoError(t, store.Delete(plan.ID))

	_, err = store.Load(plan.ID)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorIs(t, store.Delete(plan.ID), os.ErrNotExist)
}

func TestStoreRejectsPathEscapingIDs(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	err = store.Save(model.Plan{ID: "../escape", Name: "bad"})
	assert.Error(t, err)

	_, err = store.Load("../../etc/passwd")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
