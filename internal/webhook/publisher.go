package webhook

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/emergency_action_plan/internal/models"
)

//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks

const (
	webhookQueueKey = "plan_events"
)

// PlanEvent - уведомление о новом плане действий для внешних систем оповещения
type PlanEvent struct {
	RequestID        string                 `json:"request_id"`
	HistoryKey       string                 `json:"history_key,omitempty"`
	IncidentLocation string                 `json:"incident_location"`
	Scenario         string                 `json:"scenario"`
	HospitalAlerts   []models.HospitalAlert `json:"hospital_alerts"`
	PublicAdvisory   string                 `json:"public_advisory"`
	GeneratedAt      string                 `json:"generated_at"`
}

// NewPlanEvent собирает событие из плана действий
func NewPlanEvent(requestID, historyKey string, plan *models.ActionPlan) PlanEvent {
	return PlanEvent{
		RequestID:        requestID,
		HistoryKey:       historyKey,
		IncidentLocation: plan.IncidentLocation,
		Scenario:         plan.Scenario,
		HospitalAlerts:   plan.HospitalAlerts,
		PublicAdvisory:   plan.PublicAdvisory,
		GeneratedAt:      plan.ActionPlanGeneratedAt,
	}
}

// WebhookPublisher - интерфейс для публикации вебхуков
type WebhookPublisher interface {
	Publish(ctx context.Context, event PlanEvent) error
}

// RedisWebhookPublisher - реализация WebhookPublisher, использующая Redis
type RedisWebhookPublisher struct {
	redisClient *redis.Client
}

// NewRedisWebhookPublisher создает новый RedisWebhookPublisher
func NewRedisWebhookPublisher(client *redis.Client) *RedisWebhookPublisher {
	return &RedisWebhookPublisher{
		redisClient: client,
	}
}

// Publish публикует событие в очередь Redis
func (p *RedisWebhookPublisher) Publish(ctx context.Context, event PlanEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal plan event: %w", err)
	}

	// LPUSH в паре с BRPOP в воркере дает FIFO-очередь
	if err := p.redisClient.LPush(ctx, webhookQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish plan event to Redis: %w", err)
	}
	return nil
}
