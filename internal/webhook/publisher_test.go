package webhook

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/emergency_action_plan/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan() *models.ActionPlan {
	return &models.ActionPlan{
		IncidentLocation:      "Main St",
		Scenario:              "accident",
		PublicAdvisory:        "Major accident nearby.",
		ActionPlanGeneratedAt: "2025-03-14T09:26:53",
		HospitalAlerts: []models.HospitalAlert{
			{HospitalID: "H1", HospitalName: "City General", Message: "Notify City General (H1) of incoming patients: 3 critical, 1 stable"},
		},
	}
}

func TestNewPlanEvent_CarriesGenerationTime(t *testing.T) {
	event := NewPlanEvent("req-1", "2025-03-14_09-26-53", testPlan())

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "2025-03-14T09:26:53", decoded["generated_at"])
	assert.Equal(t, "2025-03-14_09-26-53", decoded["history_key"])
	assert.Equal(t, "Main St", decoded["incident_location"])
	assert.NotContains(t, decoded, "timestamp")
}

func TestRedisWebhookPublisher_Publish(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	publisher := NewRedisWebhookPublisher(client)
	ctx := context.Background()

	require.NoError(t, publisher.Publish(ctx, NewPlanEvent("req-1", "", testPlan())))
	require.NoError(t, publisher.Publish(ctx, NewPlanEvent("req-2", "", testPlan())))

	// Воркер забирает события с правого конца: первым уходит самое старое
	raw, err := client.RPop(ctx, webhookQueueKey).Result()
	require.NoError(t, err)

	var event PlanEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &event))
	assert.Equal(t, "req-1", event.RequestID)
	assert.Equal(t, "2025-03-14T09:26:53", event.GeneratedAt)
	assert.Len(t, event.HospitalAlerts, 1)
}
