package planner

import (
	"strings"

	"github.com/shenikar/emergency_action_plan/internal/models"
)

// Обращения к населению по сценарию. Для ScenarioNormal используется defaultAdvisory.
var publicAdvisories = map[models.Scenario]string{
	models.ScenarioAccident: "Major accident nearby. Please avoid the area and allow ambulances to pass.",
	models.ScenarioOutbreak: "Outbreak detected. Wear masks, practice hand hygiene and avoid unnecessary hospital visits.",
	models.ScenarioFestival: "Festival surge expected. Use on-site first-aid booths for minor injuries and avoid crowded hospital lobbies.",
}

const defaultAdvisory = "Moderate surge expected. Minimize hospital visits if possible."

// Общие для всех больниц действия персонала; для обычного сценария действия нет
var scenarioStaffActions = map[models.Scenario]string{
	models.ScenarioAccident: "Trauma & surgery units on standby",
	models.ScenarioOutbreak: "Activate infection control and isolation wards",
	models.ScenarioFestival: "Set up temporary triage tents and crowd management",
}

// Уровни срочности, при которых требуется эскалация
var escalatedUrgency = map[string]bool{
	"HIGH":     true,
	"CRITICAL": true,
}

// PublicAdvisory возвращает обращение к населению для сценария
func PublicAdvisory(scenario string) string {
	if msg, ok := publicAdvisories[models.NormalizeScenario(scenario)]; ok {
		return msg
	}
	return defaultAdvisory
}

// ScenarioStaffAction возвращает действие для всех больниц, если оно предусмотрено сценарием
func ScenarioStaffAction(scenario string) (string, bool) {
	action, ok := scenarioStaffActions[models.NormalizeScenario(scenario)]
	return action, ok
}

// NormalizeUrgency приводит уровень срочности к верхнему регистру
func NormalizeUrgency(urgency string) string {
	return strings.ToUpper(strings.TrimSpace(urgency))
}
