package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/shenikar/emergency_action_plan/internal/models"
	"github.com/shenikar/emergency_action_plan/internal/service"
)

const objectHistoryPrefix = "history/"

// ObjectPlanStore хранит планы в S3-совместимом бакете:
// <currentName> для текущего плана и history/routing_<ключ>.json для истории
type ObjectPlanStore struct {
	client      *minio.Client
	bucket      string
	currentName string
	now         func() time.Time
}

func NewObjectPlanStore(client *minio.Client, bucket, currentName string) service.PlanStore {
	return &ObjectPlanStore{
		client:      client,
		bucket:      bucket,
		currentName: currentName,
		now:         time.Now,
	}
}

// Persist загружает текущий план и запись истории двумя независимыми объектами
func (s *ObjectPlanStore) Persist(ctx context.Context, record models.EnrichedRecord) (string, error) {
	data, err := encodeRecord(record)
	if err != nil {
		return "", err
	}
	key := historyKey(s.now())

	err = persistBoth(
		func() error { return s.put(ctx, s.currentName, data) },
		func() error { return s.put(ctx, historyObjectName(key), data) },
	)
	return key, err
}

// Current возвращает текущий план
func (s *ObjectPlanStore) Current(ctx context.Context) ([]byte, error) {
	return s.get(ctx, s.currentName)
}

// History возвращает запись истории по ключу
func (s *ObjectPlanStore) History(ctx context.Context, key string) ([]byte, error) {
	return s.get(ctx, historyObjectName(key))
}

// ListHistory возвращает ключи истории, начиная с самого нового
func (s *ObjectPlanStore) ListHistory(ctx context.Context, limit int) ([]string, error) {
	keys := make([]string, 0)
	opts := minio.ListObjectsOptions{Prefix: objectHistoryPrefix + historyFilePrefix}
	for obj := range s.client.ListObjects(ctx, s.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list plan history objects: %w", obj.Err)
		}
		if key, ok := historyKeyFromObject(obj.Key); ok {
			keys = append(keys, key)
		}
	}
	return newestFirst(keys, limit), nil
}

func (s *ObjectPlanStore) put(ctx context.Context, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return nil
}

func (s *ObjectPlanStore) get(ctx context.Context, name string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", name, err)
	}
	defer obj.Close()

	// GetObject не обращается к хранилищу, отсутствие объекта видно только при чтении
	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, service.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to read object %s: %w", name, err)
	}
	return data, nil
}

// historyKeyFromObject извлекает ключ из имени объекта history/routing_<ключ>.json.
// Объекты во вложенных каталогах не считаются записями истории.
func historyKeyFromObject(name string) (string, bool) {
	rest, ok := strings.CutPrefix(name, objectHistoryPrefix)
	if !ok || strings.Contains(rest, "/") {
		return "", false
	}
	return historyKeyFromName(rest)
}

func historyObjectName(key string) string {
	return objectHistoryPrefix + historyFilePrefix + key + historyFileSuffix
}
