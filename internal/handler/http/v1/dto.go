package v1

// GeneratePlanRequest DTO для генерации плана действий
// @Description DTO для генерации плана действий. scenario: 1 - normal, 2 - accident, 3 - outbreak, 4 - festival
type GeneratePlanRequest struct {
	Location         *string `json:"location" validate:"required,notblank" example:"Marine Drive"`
	CriticalPatients *int    `json:"critical_patients" validate:"required,min=0" example:"5"`
	StablePatients   *int    `json:"stable_patients" validate:"required,min=0" example:"10"`
	Scenario         *int    `json:"scenario" validate:"required,oneof=1 2 3 4" example:"2"`
}

// IncidentSummary DTO с параметрами запроса в ответе
// @Description Параметры инцидента из запроса
type IncidentSummary struct {
	Location         string `json:"location"`
	CriticalPatients int    `json:"critical_patients"`
	StablePatients   int    `json:"stable_patients"`
	TotalPatients    int    `json:"total_patients"`
	Scenario         int    `json:"scenario"`
	ScenarioName     string `json:"scenario_name"`
}

// ErrorResponse DTO для ответа с ошибкой
// @Description DTO для ответа с ошибкой
type ErrorResponse struct {
	Error     string   `json:"error"`
	Details   []string `json:"details,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

// HistoryListResponse DTO со списком ключей истории
// @Description Ключи истории, начиная с самого нового
type HistoryListResponse struct {
	Keys []string `json:"keys"`
}
