package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shenikar/emergency_action_plan/internal/models"
	"github.com/shenikar/emergency_action_plan/internal/service"
)

const (
	historyFilePrefix = "routing_"
	historyFileSuffix = ".json"
)

// FilePlanStore хранит текущий план и историю в каталоге на диске
type FilePlanStore struct {
	dir         string
	currentName string
	now         func() time.Time
}

// NewFilePlanStore создает хранилище в каталоге dir; currentName - имя файла текущего плана
func NewFilePlanStore(dir, currentName string) service.PlanStore {
	return &FilePlanStore{
		dir:         dir,
		currentName: currentName,
		now:         time.Now,
	}
}

// Persist перезаписывает текущий план и создает файл истории routing_<ключ>.json
func (s *FilePlanStore) Persist(ctx context.Context, record models.EnrichedRecord) (string, error) {
	data, err := encodeRecord(record)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", service.NewPersistError(
			fmt.Errorf("failed to create plans directory: %w", err),
			fmt.Errorf("failed to create plans directory: %w", err),
		)
	}

	key := historyKey(s.now())
	err = persistBoth(
		func() error { return writeFile(s.currentPath(), data) },
		func() error { return writeFile(s.historyPath(key), data) },
	)
	return key, err
}

// Current читает текущий план
func (s *FilePlanStore) Current(ctx context.Context) ([]byte, error) {
	return readFile(s.currentPath())
}

// History читает запись истории по ключу
func (s *FilePlanStore) History(ctx context.Context, key string) ([]byte, error) {
	return readFile(s.historyPath(key))
}

// ListHistory возвращает ключи истории, начиная с самого нового
func (s *FilePlanStore) ListHistory(ctx context.Context, limit int) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list plans directory: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if key, ok := historyKeyFromName(e.Name()); ok {
			keys = append(keys, key)
		}
	}
	return newestFirst(keys, limit), nil
}

func (s *FilePlanStore) currentPath() string {
	return filepath.Join(s.dir, s.currentName)
}

func (s *FilePlanStore) historyPath(key string) string {
	return filepath.Join(s.dir, historyFilePrefix+key+historyFileSuffix)
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, service.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
