package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScenarioFromCode(t *testing.T) {
	tests := map[int]Scenario{1: ScenarioNormal, 2: ScenarioAccident, 3: ScenarioOutbreak, 4: ScenarioFestival}
	for code, want := range tests {
		got, ok := ScenarioFromCode(code)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}

	_, ok := ScenarioFromCode(5)
	assert.False(t, ok)
}

func TestNormalizeScenario(t *testing.T) {
	assert.Equal(t, ScenarioFestival, NormalizeScenario(" Festival_Crowd"))
	assert.Equal(t, ScenarioAccident, NormalizeScenario("ACCIDENT"))
	assert.Equal(t, ScenarioNormal, NormalizeScenario(""))
	assert.Equal(t, ScenarioNormal, NormalizeScenario("tornado"))
}
