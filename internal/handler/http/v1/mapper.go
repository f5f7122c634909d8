package v1

import (
	"maps"
	"time"

	"github.com/shenikar/emergency_action_plan/internal/models"
)

// DTOToIncidentRequest преобразует проверенный DTO в доменную модель
func DTOToIncidentRequest(dto GeneratePlanRequest) models.IncidentRequest {
	scenario, _ := models.ScenarioFromCode(*dto.Scenario)
	return models.IncidentRequest{
		Location:         *dto.Location,
		CriticalPatients: *dto.CriticalPatients,
		StablePatients:   *dto.StablePatients,
		ScenarioCode:     *dto.Scenario,
		Scenario:         scenario,
	}
}

// BuildPlanResponse дополняет сохраненную запись идентификатором запроса, временем и параметрами инцидента
func BuildPlanResponse(record models.EnrichedRecord, requestID string, now time.Time, req models.IncidentRequest) map[string]any {
	resp := make(map[string]any, len(record)+3)
	maps.Copy(resp, record)
	resp["request_id"] = requestID
	resp["timestamp"] = now.Format(time.RFC3339)
	resp["incident_summary"] = IncidentSummary{
		Location:         req.Location,
		CriticalPatients: req.CriticalPatients,
		StablePatients:   req.StablePatients,
		TotalPatients:    req.TotalPatients(),
		Scenario:         req.ScenarioCode,
		ScenarioName:     string(req.Scenario),
	}
	return resp
}
