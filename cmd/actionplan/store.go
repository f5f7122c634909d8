package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/emergency_action_plan/internal/models"
	"github.com/shenikar/emergency_action_plan/internal/service"
)

// loadStored читает текущий план или, если задан ключ, запись истории
func loadStored(ctx context.Context, store service.PlanStore, key string) ([]byte, error) {
	if key == "" {
		return store.Current(ctx)
	}
	if !service.ValidHistoryKey(key) {
		return nil, fmt.Errorf("%w: %q", service.ErrInvalidHistoryKey, key)
	}
	return store.History(ctx, key)
}

// persistDerived сохраняет план. Как и в сервисе, сбой записи только истории не считается ошибкой.
func persistDerived(ctx context.Context, store service.PlanStore, record models.EnrichedRecord, log *logrus.Logger) (string, error) {
	key, err := store.Persist(ctx, record)
	if err != nil {
		var persistErr *service.PersistError
		if !errors.As(err, &persistErr) || !persistErr.CurrentSaved() {
			log.WithError(err).Error("Failed to persist action plan")
			return "", err
		}
		log.WithError(err).WithField("history_key", key).Warn("Current plan saved, history record was not written")
	}
	return key, nil
}
