package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// AssignmentRecord - результат внешнего оптимизатора для одного инцидента.
// Raw хранит исходный документ целиком, чтобы ни одно поле не потерялось при сохранении.
type AssignmentRecord struct {
	IncidentLocation string
	Scenario         string
	TotalCritical    int
	TotalStable      int
	Assignments      []HospitalAssignment
	GeneratedAt      any
	Raw              map[string]any
}

// HospitalAssignment - назначение пациентов в одну больницу
type HospitalAssignment struct {
	HospitalID       string
	HospitalName     string
	AssignedCritical int
	AssignedStable   int
	DistanceKM       Quantity
	TravelMin        Quantity
	Recommendation   Recommendation
}

// Recommendation - рекомендации оптимизатора по персоналу и ресурсам
type Recommendation struct {
	ExtraDoctors     int
	ExtraSpecialists int
	ICUShort         int
	VentShort        int
	OxygenCylinders  int
	BloodUnits       int
	TraumaKits       int
	Urgency          string
}

// Quantity - необязательное числовое поле, которое во входных данных может оказаться строкой.
// Такое значение не считается ошибкой: оно сохраняется и выводится как текст.
type Quantity struct {
	raw     any
	value   float64
	numeric bool
}

// NewQuantity оборачивает значение из JSON-документа
func NewQuantity(raw any) Quantity {
	q := Quantity{raw: raw}
	switch v := raw.(type) {
	case json.Number:
		if f, err := v.Float64(); err == nil {
			q.value, q.numeric = f, true
		}
	case float64:
		q.value, q.numeric = v, true
	case int:
		q.value, q.numeric = float64(v), true
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			q.value, q.numeric = f, true
		}
	}
	// NaN и бесконечность выводятся как исходный текст
	if q.numeric && (math.IsNaN(q.value) || math.IsInf(q.value, 0)) {
		q.value, q.numeric = 0, false
	}
	return q
}

// Present сообщает, было ли поле во входных данных
func (q Quantity) Present() bool {
	return q.raw != nil
}

// Float возвращает числовое значение, если оно есть
func (q Quantity) Float() (float64, bool) {
	return q.value, q.numeric
}

// Format выводит число по шаблону, а нечисловое значение - как есть
func (q Quantity) Format(layout string) string {
	if q.numeric {
		return fmt.Sprintf(layout, q.value)
	}
	return fmt.Sprint(q.raw)
}

// MarshalJSON передает исходное значение без изменений
func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.raw)
}
