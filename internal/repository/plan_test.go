package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoryKeyFromObject(t *testing.T) {
	tests := []struct {
		name string
		key  string
		ok   bool
	}{
		{name: "history/routing_2025-03-14_09-26-53.json", key: "2025-03-14_09-26-53", ok: true},
		{name: "last_routing.json"},
		{name: "history/routing_latest.json"},
		{name: "history/routing_2025-03-14_09-26-53.json.bak"},
		{name: "history/archive/routing_2025-03-14_09-26-53.json"},
		{name: "history/plan_2025-03-14_09-26-53.json"},
		{name: "routing_2025-03-14_09-26-53.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := historyKeyFromObject(tt.name)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.key, key)
			}
		})
	}
}

func TestHistoryObjectName_RoundTrip(t *testing.T) {
	key, ok := historyKeyFromObject(historyObjectName("2025-03-14_09-26-53"))
	assert.True(t, ok)
	assert.Equal(t, "2025-03-14_09-26-53", key)
}

func TestNewestFirst(t *testing.T) {
	keys := []string{"2025-03-14_09-26-53", "2024-12-31_23-59-59", "2025-03-14_10-00-00"}

	assert.Equal(t, []string{"2025-03-14_10-00-00", "2025-03-14_09-26-53"}, newestFirst(keys, 2))
	assert.Len(t, newestFirst([]string{"2025-03-14_09-26-53"}, 5), 1)
	assert.Empty(t, newestFirst([]string{}, 3))
}
