package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shenikar/emergency_action_plan/internal/config"
	"github.com/shenikar/emergency_action_plan/internal/models"
	"github.com/shenikar/emergency_action_plan/internal/planner"
	"github.com/shenikar/emergency_action_plan/internal/webhook"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=plan.go -destination=mocks/mock_plan.go -package=mocks

// PlanStore определяет контракт хранилища планов: текущий план и история
type PlanStore interface {
	Persist(ctx context.Context, record models.EnrichedRecord) (string, error)
	Current(ctx context.Context) ([]byte, error)
	History(ctx context.Context, key string) ([]byte, error)
	ListHistory(ctx context.Context, limit int) ([]string, error)
}

// Simulator запускает внешний оптимизатор и возвращает его документ назначений
type Simulator interface {
	Simulate(ctx context.Context, req models.IncidentRequest) ([]byte, error)
}

// PlanService определяет контракт бизнес-логики генерации планов
type PlanService interface {
	GeneratePlan(ctx context.Context, requestID string, req models.IncidentRequest) (models.EnrichedRecord, error)
	CurrentPlan(ctx context.Context) ([]byte, error)
	HistoryPlan(ctx context.Context, key string) ([]byte, error)
	ListHistory(ctx context.Context, limit int) ([]string, error)
}

type planService struct {
	store     PlanStore
	simulator Simulator
	engine    *planner.Engine
	logger    *logrus.Logger
	cfg       *config.Config
	publisher webhook.WebhookPublisher
}

// NewPlanService создает сервис. publisher может быть nil, тогда уведомления не отправляются.
func NewPlanService(store PlanStore, simulator Simulator, engine *planner.Engine, logger *logrus.Logger, cfg *config.Config, publisher webhook.WebhookPublisher) PlanService {
	return &planService{
		store:     store,
		simulator: simulator,
		engine:    engine,
		logger:    logger,
		cfg:       cfg,
		publisher: publisher,
	}
}

// GeneratePlan запускает оптимизатор, строит план действий и сохраняет его
func (s *planService) GeneratePlan(ctx context.Context, requestID string, req models.IncidentRequest) (models.EnrichedRecord, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "plan",
		"method":     "GeneratePlan",
		"request_id": requestID,
		"location":   req.Location,
		"scenario":   req.Scenario,
	})
	log.Info("Running simulation")

	simCtx := ctx
	if s.cfg.SimulatorTimeout > 0 {
		var cancel context.CancelFunc
		simCtx, cancel = context.WithTimeout(ctx, s.cfg.SimulatorTimeout)
		defer cancel()
	}

	artifact, err := s.simulator.Simulate(simCtx, req)
	if err != nil {
		log.WithError(err).Error("Simulation failed")
		return nil, fmt.Errorf("service: could not run simulation: %w", err)
	}

	record, err := planner.ParseRecord(artifact)
	if err != nil {
		log.WithError(err).Error("Failed to parse simulation output")
		return nil, fmt.Errorf("service: %w: %w", ErrArtifactInvalid, err)
	}

	enriched := s.engine.Derive(record)
	plan, _ := enriched.Plan()
	for _, d := range plan.AmbulanceDispatch {
		log.WithField("hospital_id", d.HospitalID).Debug("Dispatch: " + planner.DescribeDispatch(d))
	}

	historyKey, err := s.store.Persist(ctx, enriched)
	if err != nil {
		var persistErr *PersistError
		if !errors.As(err, &persistErr) || !persistErr.CurrentSaved() {
			log.WithError(err).Error("Failed to persist action plan")
			return nil, fmt.Errorf("service: %w: %w", ErrPersistence, err)
		}
		log.WithError(err).Warn("Current plan saved, history record was not written")
	}

	log.WithFields(logrus.Fields{
		"history_key":    historyKey,
		"hospitals_used": plan.Summary.HospitalsUsed,
		"staff_actions":  len(plan.StaffActions),
	}).Info("Action plan generated successfully")

	s.publish(ctx, log, requestID, historyKey, plan)
	return enriched, nil
}

// publish отправляет событие о новом плане; ошибка публикации не влияет на ответ
func (s *planService) publish(ctx context.Context, log *logrus.Entry, requestID, historyKey string, plan *models.ActionPlan) {
	if s.publisher == nil {
		return
	}
	event := webhook.NewPlanEvent(requestID, historyKey, plan)
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.WithError(err).Warn("Failed to publish plan event")
	}
}

// CurrentPlan возвращает последний сохраненный план
func (s *planService) CurrentPlan(ctx context.Context) ([]byte, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "plan",
		"method":  "CurrentPlan",
	})

	data, err := s.store.Current(ctx)
	if err != nil {
		if !errors.Is(err, ErrPlanNotFound) {
			log.WithError(err).Error("Failed to read current plan")
		}
		return nil, fmt.Errorf("service: could not get current plan: %w", err)
	}
	return data, nil
}

// HistoryPlan возвращает запись истории по ключу
func (s *planService) HistoryPlan(ctx context.Context, key string) ([]byte, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "plan",
		"method":      "HistoryPlan",
		"history_key": key,
	})

	if !ValidHistoryKey(key) {
		return nil, fmt.Errorf("service: %w: %q", ErrInvalidHistoryKey, key)
	}

	data, err := s.store.History(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrPlanNotFound) {
			log.WithError(err).Error("Failed to read history record")
		}
		return nil, fmt.Errorf("service: could not get history record: %w", err)
	}
	return data, nil
}

// ListHistory возвращает ключи истории, начиная с самого нового
func (s *planService) ListHistory(ctx context.Context, limit int) ([]string, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}

	log := s.logger.WithFields(logrus.Fields{
		"service": "plan",
		"method":  "ListHistory",
		"limit":   limit,
	})

	keys, err := s.store.ListHistory(ctx, limit)
	if err != nil {
		log.WithError(err).Error("Failed to list history")
		return nil, fmt.Errorf("service: could not list history: %w", err)
	}

	log.WithField("count", len(keys)).Debug("History listed")
	return keys, nil
}
