package simulator

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/shenikar/emergency_action_plan/internal/models"
	"github.com/shenikar/emergency_action_plan/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return logger
}

var testRequest = models.IncidentRequest{
	Location:         "Main St",
	CriticalPatients: 5,
	StablePatients:   10,
	ScenarioCode:     2,
	Scenario:         models.ScenarioAccident,
}

func TestStdinFor(t *testing.T) {
	assert.Equal(t, "Main St\n5\n10\n2\n", stdinFor(testRequest))
}

func TestCommandSimulator_Success(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "plans"), 0o755))

	// Скрипт копирует stdin в выходной файл
	sim := NewCommandSimulator([]string{"sh", "-c", "cat > plans/last_routing.json"}, dir, "plans/last_routing.json", newTestLogger())

	data, err := sim.Simulate(context.Background(), testRequest)

	require.NoError(t, err)
	assert.Equal(t, "Main St\n5\n10\n2\n", string(data))
}

func TestCommandSimulator_CommandFails(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	sim := NewCommandSimulator([]string{"sh", "-c", "exit 3"}, t.TempDir(), "out.json", newTestLogger())

	_, err := sim.Simulate(context.Background(), testRequest)

	assert.ErrorIs(t, err, service.ErrSimulationFailed)
}

func TestCommandSimulator_MissingCommand(t *testing.T) {
	sim := NewCommandSimulator([]string{"definitely-not-a-real-optimizer"}, t.TempDir(), "out.json", newTestLogger())

	_, err := sim.Simulate(context.Background(), testRequest)

	assert.ErrorIs(t, err, service.ErrSimulationFailed)
}

func TestCommandSimulator_ArtifactMissing(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	sim := NewCommandSimulator([]string{"sh", "-c", "cat > /dev/null"}, t.TempDir(), "plans/last_routing.json", newTestLogger())

	_, err := sim.Simulate(context.Background(), testRequest)

	assert.ErrorIs(t, err, service.ErrArtifactMissing)
	assert.True(t, service.IsUpstreamError(err))
}
