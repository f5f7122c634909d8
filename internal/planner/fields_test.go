package planner

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstValue(t *testing.T) {
	obj := map[string]any{"hospital_name": nil, "name": "Harbor", "hospital": "Other"}

	assert.Equal(t, "Harbor", firstValue(obj, hospitalNameKeys...))
	assert.Nil(t, firstValue(obj, "missing"))
	assert.Equal(t, "Other", firstValue(obj, "hospital", "name"))
}

func TestIntValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{name: "number", in: json.Number("4"), want: 4},
		{name: "float number", in: json.Number("3.0"), want: 3},
		{name: "numeric string", in: " 7 ", want: 7},
		{name: "float string", in: "2.9", want: 2},
		{name: "nil", in: nil, want: 0},
		{name: "garbage", in: "many", want: 0},
		{name: "bool", in: true, want: 0},
		{name: "huge number", in: json.Number("1e30"), want: 0},
		{name: "huge negative number", in: json.Number("-1e30"), want: 0},
		{name: "huge integer", in: json.Number("99999999999999999999"), want: 0},
		{name: "huge float", in: 1e19, want: 0},
		{name: "nan string", in: "NaN", want: 0},
		{name: "infinity string", in: "Infinity", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, intValue(tt.in))
		})
	}
}

func TestToText(t *testing.T) {
	s, ok := toText(json.Number("101"))
	assert.True(t, ok)
	assert.Equal(t, "101", s)

	_, ok = toText(map[string]any{})
	assert.False(t, ok)

	_, ok = toText([]any{"a"})
	assert.False(t, ok)
}

func TestParseRecord_NumericHospitalID(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"assignments": [{"hospital_id": 101, "hospital": "St. Mary"}]}`))

	assert.NoError(t, err)
	assert.Equal(t, "101", rec.Assignments[0].HospitalID)
	assert.Equal(t, "St. Mary", rec.Assignments[0].HospitalName)
	assert.Equal(t, "LOW", rec.Assignments[0].Recommendation.Urgency)
}

func TestQuoteNonFinite(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "no literals", in: `{"a": 1.5}`, want: `{"a": 1.5}`},
		{name: "nan", in: `{"a": NaN}`, want: `{"a": "NaN"}`},
		{name: "infinities", in: `[Infinity,-Infinity]`, want: `["Infinity","-Infinity"]`},
		{name: "inside strings", in: `{"NaN": "Infinity \" NaN"}`, want: `{"NaN": "Infinity \" NaN"}`},
		{name: "after escaped quote", in: `{"a\"": NaN}`, want: `{"a\"": "NaN"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(quoteNonFinite([]byte(tt.in))))
		})
	}
}

func TestParseRecord_HugeTotals(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"total_critical": 1e30, "total_stable": NaN}`))
	assert.NoError(t, err)
	assert.Equal(t, 0, rec.TotalCritical)
	assert.Equal(t, 0, rec.TotalStable)
}
