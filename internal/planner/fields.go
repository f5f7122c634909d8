package planner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shenikar/emergency_action_plan/internal/models"
)

const (
	defaultLocation   = "Unknown Location"
	defaultHospitalID = "Unknown"
	defaultUrgency    = "LOW"
)

// Синонимы имени больницы в порядке приоритета; последний запасной вариант - hospital_id
var hospitalNameKeys = []string{"hospital_name", "name", "hospital"}

// RecordError - нарушение контракта документа оптимизатора
type RecordError struct {
	Field  string
	Reason string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("invalid assignment record: %s %s", e.Field, e.Reason)
}

// ParseRecord разбирает JSON-документ оптимизатора.
// Отсутствующие необязательные поля получают значения по умолчанию.
func ParseRecord(data []byte) (*models.AssignmentRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(quoteNonFinite(data)))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode assignment record: %w", err)
	}
	raw, ok := doc.(map[string]any)
	if !ok {
		return nil, &RecordError{Field: "record", Reason: "is not a JSON object"}
	}
	return RecordFromMap(raw)
}

// RecordFromMap строит AssignmentRecord из уже разобранного документа
func RecordFromMap(raw map[string]any) (*models.AssignmentRecord, error) {
	location, err := textField(raw, "incident_location", defaultLocation)
	if err != nil {
		return nil, err
	}
	scenario, err := textField(raw, "scenario", string(models.ScenarioNormal))
	if err != nil {
		return nil, err
	}

	rec := &models.AssignmentRecord{
		IncidentLocation: location,
		Scenario:         scenario,
		TotalCritical:    intValue(raw["total_critical"]),
		TotalStable:      intValue(raw["total_stable"]),
		GeneratedAt:      raw["generated_at"],
		Raw:              raw,
	}

	items, err := assignmentList(raw["assignments"])
	if err != nil {
		return nil, err
	}
	rec.Assignments = make([]models.HospitalAssignment, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &RecordError{Field: fmt.Sprintf("assignments[%d]", i), Reason: "is not an object"}
		}
		rec.Assignments = append(rec.Assignments, hospitalAssignment(obj))
	}
	return rec, nil
}

func assignmentList(v any) ([]any, error) {
	switch list := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return list, nil
	default:
		return nil, &RecordError{Field: "assignments", Reason: "is not a list"}
	}
}

func hospitalAssignment(obj map[string]any) models.HospitalAssignment {
	id, ok := toText(firstValue(obj, "hospital_id"))
	if !ok || id == "" {
		id = defaultHospitalID
	}
	name, ok := toText(firstValue(obj, hospitalNameKeys...))
	if !ok || name == "" {
		name = id
	}

	a := models.HospitalAssignment{
		HospitalID:       id,
		HospitalName:     name,
		AssignedCritical: intValue(obj["assigned_critical"]),
		AssignedStable:   intValue(obj["assigned_stable"]),
		DistanceKM:       models.NewQuantity(obj["distance_km"]),
		TravelMin:        models.NewQuantity(obj["travel_min"]),
	}

	rec, _ := obj["recommendation"].(map[string]any)
	a.Recommendation = models.Recommendation{
		ExtraDoctors:     intValue(rec["extra_doctors"]),
		ExtraSpecialists: intValue(rec["extra_specialists"]),
		ICUShort:         intValue(rec["icu_short"]),
		VentShort:        intValue(rec["vent_short"]),
		OxygenCylinders:  intValue(rec["oxygen_cylinders"]),
		BloodUnits:       intValue(rec["blood_units"]),
		TraumaKits:       intValue(rec["trauma_kits"]),
		Urgency:          defaultUrgency,
	}
	if urgency, ok := toText(rec["urgency"]); ok && strings.TrimSpace(urgency) != "" {
		a.Recommendation.Urgency = urgency
	}
	return a
}

// firstValue возвращает значение первого присутствующего ключа из списка синонимов.
// Ключ со значением null считается отсутствующим.
func firstValue(obj map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func textField(obj map[string]any, key, fallback string) (string, error) {
	v := firstValue(obj, key)
	if v == nil {
		return fallback, nil
	}
	s, ok := toText(v)
	if !ok {
		return "", &RecordError{Field: key, Reason: "cannot be converted to text"}
	}
	return s, nil
}

// toText приводит скалярное значение JSON к строке; объекты и списки не приводятся
func toText(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

// intValue приводит число или числовую строку к int; всё остальное дает 0
func intValue(v any) int {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n)
		}
		if f, err := t.Float64(); err == nil {
			return floatToInt(f)
		}
	case float64:
		return floatToInt(t)
	case int:
		return t
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return floatToInt(f)
		}
	}
	return 0
}

// floatToInt отбрасывает дробную часть; NaN и значения вне диапазона int дают 0
func floatToInt(f float64) int {
	if math.IsNaN(f) || f < float64(math.MinInt) || f >= -float64(math.MinInt) {
		return 0
	}
	return int(f)
}

// Python json.dump пишет NaN, Infinity и -Infinity без кавычек, encoding/json их не принимает
var nonFiniteTokens = [][]byte{[]byte("-Infinity"), []byte("Infinity"), []byte("NaN")}

// quoteNonFinite заключает такие литералы вне строк в кавычки, дальше они разбираются как текст.
// Если литералов нет, возвращает исходный срез.
func quoteNonFinite(data []byte) []byte {
	var out []byte
	inString, escaped := false, false
	for i := 0; i < len(data); i++ {
		c := data[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
		} else if c == '"' {
			inString = true
		} else if tok := nonFiniteAt(data, i); tok != nil {
			if out == nil {
				out = append(make([]byte, 0, len(data)+8), data[:i]...)
			}
			out = append(out, '"')
			out = append(out, tok...)
			out = append(out, '"')
			i += len(tok) - 1
			continue
		}
		if out != nil {
			out = append(out, c)
		}
	}
	if out == nil {
		return data
	}
	return out
}

func nonFiniteAt(data []byte, i int) []byte {
	if i > 0 && isWordByte(data[i-1]) {
		return nil
	}
	for _, tok := range nonFiniteTokens {
		if !bytes.HasPrefix(data[i:], tok) {
			continue
		}
		if end := i + len(tok); end < len(data) && isWordByte(data[end]) {
			return nil
		}
		return tok
	}
	return nil
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
