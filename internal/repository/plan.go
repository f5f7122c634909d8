package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shenikar/emergency_action_plan/internal/models"
	"github.com/shenikar/emergency_action_plan/internal/service"
)

// encodeRecord сериализует запись так же, как ее читает фронтенд: с отступами и без экранирования HTML
func encodeRecord(record models.EnrichedRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(record); err != nil {
		return nil, fmt.Errorf("failed to marshal plan record: %w", err)
	}
	return buf.Bytes(), nil
}

// historyKey возвращает ключ записи истории. Ключи совпадают в пределах одной секунды,
// более поздняя запись перезаписывает предыдущую.
func historyKey(now time.Time) string {
	return now.Format(service.HistoryKeyLayout)
}

// persistBoth выполняет обе записи независимо и собирает ошибки в service.PersistError
func persistBoth(writeCurrent, writeHistory func() error) error {
	return service.NewPersistError(writeCurrent(), writeHistory())
}

// historyKeyFromName извлекает ключ из имени routing_<ключ>.json; чужие имена отбрасываются
func historyKeyFromName(name string) (string, bool) {
	if !strings.HasPrefix(name, historyFilePrefix) || !strings.HasSuffix(name, historyFileSuffix) {
		return "", false
	}
	key := strings.TrimSuffix(strings.TrimPrefix(name, historyFilePrefix), historyFileSuffix)
	return key, service.ValidHistoryKey(key)
}

// newestFirst сортирует ключи от новых к старым и оставляет не больше limit.
// Формат ключа сортируется лексикографически в хронологическом порядке.
func newestFirst(keys []string, limit int) []string {
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}
