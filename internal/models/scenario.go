package models

import "strings"

// Scenario - нормализованный тип инцидента, от которого зависят правила плана
type Scenario string

const (
	ScenarioNormal   Scenario = "normal"
	ScenarioAccident Scenario = "accident"
	ScenarioOutbreak Scenario = "outbreak"
	ScenarioFestival Scenario = "festival"
)

// scenarioCodes - коды сценариев, которые принимает API и ожидает симулятор
var scenarioCodes = map[int]Scenario{
	1: ScenarioNormal,
	2: ScenarioAccident,
	3: ScenarioOutbreak,
	4: ScenarioFestival,
}

var scenarioAliases = map[string]Scenario{
	"normal":         ScenarioNormal,
	"accident":       ScenarioAccident,
	"outbreak":       ScenarioOutbreak,
	"festival":       ScenarioFestival,
	"festival crowd": ScenarioFestival,
	"festival_crowd": ScenarioFestival,
}

// ScenarioFromCode возвращает сценарий по коду API (1-4)
func ScenarioFromCode(code int) (Scenario, bool) {
	s, ok := scenarioCodes[code]
	return s, ok
}

// NormalizeScenario приводит свободный текст сценария к известному значению.
// Пустое или неизвестное значение трактуется как ScenarioNormal.
func NormalizeScenario(raw string) Scenario {
	key := strings.ToLower(strings.TrimSpace(raw))
	if s, ok := scenarioAliases[key]; ok {
		return s
	}
	return ScenarioNormal
}
