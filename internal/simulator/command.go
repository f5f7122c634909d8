// Package simulator запускает внешний оптимизатор назначений как отдельный процесс.
package simulator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shenikar/emergency_action_plan/internal/models"
	"github.com/shenikar/emergency_action_plan/internal/service"
	"github.com/sirupsen/logrus"
)

// CommandSimulator передает параметры инцидента оптимизатору через stdin
// (по одному значению в строке) и читает документ, который тот записал в output.
type CommandSimulator struct {
	command []string
	workDir string
	output  string
	logger  *logrus.Logger
}

// NewCommandSimulator создает раннер; относительный output считается от workDir
func NewCommandSimulator(command []string, workDir, output string, logger *logrus.Logger) *CommandSimulator {
	if !filepath.IsAbs(output) {
		output = filepath.Join(workDir, output)
	}
	return &CommandSimulator{
		command: command,
		workDir: workDir,
		output:  output,
		logger:  logger,
	}
}

// Simulate запускает оптимизатор и возвращает содержимое его выходного файла
func (s *CommandSimulator) Simulate(ctx context.Context, req models.IncidentRequest) ([]byte, error) {
	log := s.logger.WithFields(logrus.Fields{
		"component": "simulator",
		"command":   strings.Join(s.command, " "),
		"work_dir":  s.workDir,
	})

	cmd := exec.CommandContext(ctx, s.command[0], s.command[1:]...)
	cmd.Dir = s.workDir
	cmd.Stdin = strings.NewReader(stdinFor(req))
	cmd.Env = append(os.Environ(), "PYTHONIOENCODING=utf-8")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug("Running simulation command")
	if err := cmd.Run(); err != nil {
		log.WithError(err).WithField("stderr", stderr.String()).Error("Simulation command failed")
		return nil, fmt.Errorf("%w: %w", service.ErrSimulationFailed, err)
	}
	log.WithField("stdout_bytes", stdout.Len()).Debug("Simulation command finished")

	data, err := os.ReadFile(s.output)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", service.ErrArtifactMissing, s.output)
		}
		return nil, fmt.Errorf("%w: %w", service.ErrArtifactMissing, err)
	}
	return data, nil
}

// stdinFor формирует ответы на вопросы оптимизатора: место, критические, стабильные, код сценария
func stdinFor(req models.IncidentRequest) string {
	lines := []string{
		req.Location,
		strconv.Itoa(req.CriticalPatients),
		strconv.Itoa(req.StablePatients),
		strconv.Itoa(req.ScenarioCode),
	}
	return strings.Join(lines, "\n") + "\n"
}
