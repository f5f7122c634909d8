package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/shenikar/emergency_action_plan/internal/planner"
)

const artifact = `{
	"incident_location": "Marine Drive",
	"scenario": "accident",
	"total_critical": 3,
	"total_stable": 2,
	"assignments": [
		{"hospital_id": "H1", "hospital_name": "City General", "assigned_critical": 3, "assigned_stable": 2, "distance_km": 2.346, "travel_min": 12}
	]
}`

func derived(t *testing.T) map[string]any {
	t.Helper()
	engine := planner.NewEngineWithClock(func() time.Time {
		return time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	})
	record, err := engine.DeriveDocument([]byte(artifact))
	require.NoError(t, err)
	return record
}

func TestRenderDerived_Text(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, renderDerived(&out, derived(t), formatText))

	assert.Contains(t, out.String(), "Incident at Marine Drive | Scenario: Accident")
	assert.Contains(t, out.String(), "PUBLIC ADVISORY:")
}

func TestRenderDerived_YAML(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, renderDerived(&out, derived(t), formatYAML))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "Marine Drive", doc["incident_location"])

	plan, ok := doc["action_plan"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "accident", plan["scenario"])
}

func TestRenderDerived_UnknownFormat(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, renderDerived(&out, derived(t), "xml"))
}

func TestRenderStored(t *testing.T) {
	stored := []byte(`{"scenario":"normal","action_plan":{"public_advisory":"Stay calm"}}`)

	var jsonOut bytes.Buffer
	require.NoError(t, renderStored(&jsonOut, stored, formatJSON))
	assert.JSONEq(t, string(stored), jsonOut.String())

	var yamlOut bytes.Buffer
	require.NoError(t, renderStored(&yamlOut, stored, formatYAML))
	assert.Contains(t, yamlOut.String(), "public_advisory: Stay calm")

	assert.Error(t, renderStored(&bytes.Buffer{}, stored, formatText))
	assert.Error(t, renderStored(&bytes.Buffer{}, []byte("{"), formatYAML))
}
