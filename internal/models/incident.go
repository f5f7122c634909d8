package models

// IncidentRequest - входные данные инцидента, прошедшие валидацию API
type IncidentRequest struct {
	Location         string
	CriticalPatients int
	StablePatients   int
	ScenarioCode     int
	Scenario         Scenario
}

// TotalPatients возвращает общее число пострадавших
func (r IncidentRequest) TotalPatients() int {
	return r.CriticalPatients + r.StablePatients
}
