package repository

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shenikar/emergency_action_plan/internal/models"
	"github.com/shenikar/emergency_action_plan/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var storeNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.Local)

// newTestFileStore — хранилище во временном каталоге с фиксированным временем
func newTestFileStore(t *testing.T) (*FilePlanStore, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "plans")
	store := NewFilePlanStore(dir, "last_routing.json").(*FilePlanStore)
	store.now = func() time.Time { return storeNow }
	return store, dir
}

func testRecord() models.EnrichedRecord {
	return models.EnrichedRecord{
		"incident_location": "Main St <North>",
		"total_critical":    json.Number("5"),
		"action_plan": &models.ActionPlan{
			IncidentLocation: "Main St <North>",
			Scenario:         "accident",
			PublicAdvisory:   "Major accident nearby. Please avoid the area and allow ambulances to pass.",
		},
	}
}

func TestFilePlanStore_Persist(t *testing.T) {
	store, dir := newTestFileStore(t)
	ctx := context.Background()

	key, err := store.Persist(ctx, testRecord())

	require.NoError(t, err)
	assert.Equal(t, "2025-03-14_09-26-53", key)

	current, err := os.ReadFile(filepath.Join(dir, "last_routing.json"))
	require.NoError(t, err)
	history, err := os.ReadFile(filepath.Join(dir, "routing_2025-03-14_09-26-53.json"))
	require.NoError(t, err)
	assert.Equal(t, current, history)

	// HTML не экранируется, документ записан с отступами
	assert.Contains(t, string(current), `"incident_location": "Main St <North>"`)
	assert.Contains(t, string(current), `"total_critical": 5`)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(current, &decoded))
	assert.Contains(t, decoded, "action_plan")
}

func TestFilePlanStore_CurrentAndHistory(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	_, err := store.Current(ctx)
	assert.ErrorIs(t, err, service.ErrPlanNotFound)

	key, err := store.Persist(ctx, testRecord())
	require.NoError(t, err)

	current, err := store.Current(ctx)
	require.NoError(t, err)
	history, err := store.History(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, string(current), string(history))

	_, err = store.History(ctx, "2020-01-01_00-00-00")
	assert.ErrorIs(t, err, service.ErrPlanNotFound)
}

func TestFilePlanStore_SameSecondOverwritesHistory(t *testing.T) {
	store, dir := newTestFileStore(t)
	ctx := context.Background()

	first := testRecord()
	second := testRecord()
	second["incident_location"] = "Second"

	_, err := store.Persist(ctx, first)
	require.NoError(t, err)
	_, err = store.Persist(ctx, second)
	require.NoError(t, err)

	keys, err := store.ListHistory(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-14_09-26-53"}, keys)

	data, err := os.ReadFile(filepath.Join(dir, "routing_2025-03-14_09-26-53.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Second"`)
}

func TestFilePlanStore_ListHistory(t *testing.T) {
	store, dir := newTestFileStore(t)
	ctx := context.Background()

	keys, err := store.ListHistory(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, keys)

	for i := 0; i < 3; i++ {
		ts := storeNow.Add(time.Duration(i) * time.Minute)
		store.now = func() time.Time { return ts }
		_, err := store.Persist(ctx, testRecord())
		require.NoError(t, err)
	}
	// Посторонние файлы не попадают в историю
	require.NoError(t, os.WriteFile(filepath.Join(dir, "routing_latest.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	keys, err = store.ListHistory(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-14_09-28-53", "2025-03-14_09-27-53"}, keys)
}

func TestFilePlanStore_HistoryWriteFailureKeepsCurrent(t *testing.T) {
	store, dir := newTestFileStore(t)
	ctx := context.Background()

	// Каталог на месте файла истории делает запись истории невозможной
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "routing_2025-03-14_09-26-53.json"), 0o755))

	_, err := store.Persist(ctx, testRecord())

	require.Error(t, err)
	var persistErr *service.PersistError
	require.True(t, errors.As(err, &persistErr))
	assert.True(t, persistErr.CurrentSaved())
	assert.Error(t, persistErr.History)
	assert.ErrorContains(t, err, "history write failed")

	_, err = store.Current(ctx)
	assert.NoError(t, err)
}

func TestFilePlanStore_CurrentWriteFailure(t *testing.T) {
	store, dir := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "last_routing.json"), 0o755))

	_, err := store.Persist(ctx, testRecord())

	var persistErr *service.PersistError
	require.True(t, errors.As(err, &persistErr))
	assert.False(t, persistErr.CurrentSaved())
	assert.NoError(t, persistErr.History)
	assert.ErrorContains(t, err, "current plan write failed")

	_, err = store.History(ctx, "2025-03-14_09-26-53")
	assert.NoError(t, err)
}
