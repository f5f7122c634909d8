// Package planner строит план действий из записи назначений оптимизатора.
package planner

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/shenikar/emergency_action_plan/internal/models"
)

// TimestampLayout - формат action_plan_generated_at (ISO-8601 с точностью до секунды)
const TimestampLayout = "2006-01-02T15:04:05"

// Engine выводит план действий. Состояния не хранит, кроме источника времени.
type Engine struct {
	now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// NewEngineWithClock создает Engine с заданным источником времени
func NewEngineWithClock(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// DeriveDocument разбирает документ оптимизатора и прикрепляет к нему план
func (e *Engine) DeriveDocument(data []byte) (models.EnrichedRecord, error) {
	rec, err := ParseRecord(data)
	if err != nil {
		return nil, err
	}
	return e.Derive(rec), nil
}

// Derive возвращает копию исходной записи с планом под ключом action_plan
func (e *Engine) Derive(rec *models.AssignmentRecord) models.EnrichedRecord {
	enriched := make(models.EnrichedRecord, len(rec.Raw)+1)
	maps.Copy(enriched, rec.Raw)
	enriched[models.ActionPlanKey] = e.BuildPlan(rec)
	return enriched
}

// BuildPlan строит план действий для записи
func (e *Engine) BuildPlan(rec *models.AssignmentRecord) *models.ActionPlan {
	n := len(rec.Assignments)
	plan := &models.ActionPlan{
		IncidentLocation: rec.IncidentLocation,
		Scenario:         rec.Scenario,
		Summary: models.PlanSummary{
			TotalPatients: rec.TotalCritical + rec.TotalStable,
			TotalCritical: rec.TotalCritical,
			TotalStable:   rec.TotalStable,
			HospitalsUsed: n,
		},
		AmbulanceDispatch: make([]models.DispatchEntry, 0, n),
		HospitalAlerts:    make([]models.HospitalAlert, 0, n),
		StaffActions:      make([]models.StaffAction, 0, n+1),
		PublicAdvisory:    PublicAdvisory(rec.Scenario),
		GeneratedAt:       rec.GeneratedAt,
	}

	for _, a := range rec.Assignments {
		plan.AmbulanceDispatch = append(plan.AmbulanceDispatch, models.DispatchEntry{
			HospitalID:   a.HospitalID,
			HospitalName: a.HospitalName,
			Critical:     a.AssignedCritical,
			Stable:       a.AssignedStable,
			DistanceKM:   a.DistanceKM,
			TravelMin:    a.TravelMin,
		})
		plan.HospitalAlerts = append(plan.HospitalAlerts, models.HospitalAlert{
			HospitalID:   a.HospitalID,
			HospitalName: a.HospitalName,
			Message: fmt.Sprintf("Notify %s (%s) of incoming patients: %d critical, %d stable",
				a.HospitalName, a.HospitalID, a.AssignedCritical, a.AssignedStable),
		})
		for _, action := range hospitalActions(a) {
			plan.StaffActions = append(plan.StaffActions, models.StaffAction{
				HospitalID:   a.HospitalID,
				HospitalName: a.HospitalName,
				Action:       action,
			})
		}
	}

	if action, ok := ScenarioStaffAction(rec.Scenario); ok {
		plan.StaffActions = append(plan.StaffActions, models.StaffAction{
			HospitalID:   models.AllHospitals,
			HospitalName: models.AllHospitals,
			Action:       action,
		})
	}

	plan.ActionPlanGeneratedAt = e.now().Format(TimestampLayout)
	return plan
}

// hospitalActions возвращает действия персонала для одной больницы.
// Подготовка ER-бригад есть всегда, остальное - только при ненулевых значениях.
func hospitalActions(a models.HospitalAssignment) []string {
	name, rec := a.HospitalName, a.Recommendation
	actions := []string{fmt.Sprintf("Prepare ER teams at %s (%s)", name, a.HospitalID)}

	if rec.ExtraDoctors > 0 {
		actions = append(actions, fmt.Sprintf("Mobilize +%d doctors to %s", rec.ExtraDoctors, name))
	}
	if rec.ExtraSpecialists > 0 {
		actions = append(actions, fmt.Sprintf("Mobilize +%d specialists to %s", rec.ExtraSpecialists, name))
	}
	if rec.ICUShort > 0 {
		actions = append(actions, fmt.Sprintf("Prepare %d ICU beds / transfer plan at %s", rec.ICUShort, name))
	}
	if rec.VentShort > 0 {
		actions = append(actions, fmt.Sprintf("Ensure %d ventilators available at %s", rec.VentShort, name))
	}

	var supplies []string
	if rec.OxygenCylinders > 0 {
		supplies = append(supplies, fmt.Sprintf("%d O2 cylinders", rec.OxygenCylinders))
	}
	if rec.BloodUnits > 0 {
		supplies = append(supplies, fmt.Sprintf("%d blood units", rec.BloodUnits))
	}
	if rec.TraumaKits > 0 {
		supplies = append(supplies, fmt.Sprintf("%d trauma kits", rec.TraumaKits))
	}
	if len(supplies) > 0 {
		actions = append(actions, fmt.Sprintf("Prepare supplies: %s at %s", strings.Join(supplies, ", "), name))
	}

	if urgency := NormalizeUrgency(rec.Urgency); escalatedUrgency[urgency] {
		actions = append(actions, fmt.Sprintf("Urgency: %s — escalate to hospital command", urgency))
	}
	return actions
}
