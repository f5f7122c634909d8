package models

// ActionPlanKey - ключ, под которым план прикрепляется к записи оптимизатора
const ActionPlanKey = "action_plan"

// AllHospitals - идентификатор для действий, относящихся ко всем больницам
const AllHospitals = "ALL"

// ActionPlan - план действий для скорой помощи, больниц, персонала и населения
type ActionPlan struct {
	IncidentLocation      string          `json:"incident_location"`
	Scenario              string          `json:"scenario"`
	Summary               PlanSummary     `json:"summary"`
	AmbulanceDispatch     []DispatchEntry `json:"ambulance_dispatch"`
	HospitalAlerts        []HospitalAlert `json:"hospital_alerts"`
	StaffActions          []StaffAction   `json:"staff_actions"`
	PublicAdvisory        string          `json:"public_advisory"`
	GeneratedAt           any             `json:"generated_at"`
	ActionPlanGeneratedAt string          `json:"action_plan_generated_at"`
}

type PlanSummary struct {
	TotalPatients int `json:"total_patients"`
	TotalCritical int `json:"total_critical"`
	TotalStable   int `json:"total_stable"`
	HospitalsUsed int `json:"hospitals_used"`
}

type DispatchEntry struct {
	HospitalID   string   `json:"hospital_id"`
	HospitalName string   `json:"hospital_name"`
	Critical     int      `json:"critical"`
	Stable       int      `json:"stable"`
	DistanceKM   Quantity `json:"distance_km"`
	TravelMin    Quantity `json:"travel_min"`
}

type HospitalAlert struct {
	HospitalID   string `json:"hospital_id"`
	HospitalName string `json:"hospital_name"`
	Message      string `json:"message"`
}

type StaffAction struct {
	HospitalID   string `json:"hospital_id"`
	HospitalName string `json:"hospital_name"`
	Action       string `json:"action"`
}

// EnrichedRecord - исходная запись оптимизатора с прикрепленным планом действий
type EnrichedRecord map[string]any

// Plan возвращает прикрепленный план, если он есть
func (r EnrichedRecord) Plan() (*ActionPlan, bool) {
	plan, ok := r[ActionPlanKey].(*ActionPlan)
	return plan, ok
}
