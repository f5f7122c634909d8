package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/shenikar/emergency_action_plan/internal/models"
	"github.com/shenikar/emergency_action_plan/internal/planner"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// renderDerived печатает только что выведенную запись в выбранном формате
func renderDerived(w io.Writer, record models.EnrichedRecord, format string) error {
	switch format {
	case formatText:
		plan, ok := record.Plan()
		if !ok {
			return fmt.Errorf("record has no action plan")
		}
		_, err := io.WriteString(w, planner.Report(plan))
		return err
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(record)
	case formatYAML:
		data, err := json.Marshal(record)
		if err != nil {
			return err
		}
		return writeYAML(w, data)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// renderStored печатает сохраненный JSON-документ в выбранном формате
func renderStored(w io.Writer, data []byte, format string) error {
	switch format {
	case formatJSON:
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return fmt.Errorf("stored plan is not valid JSON: %w", err)
		}
		buf.WriteByte('\n')
		_, err := buf.WriteTo(w)
		return err
	case formatYAML:
		return writeYAML(w, data)
	default:
		return fmt.Errorf("unsupported format %q for stored plans", format)
	}
}

func writeYAML(w io.Writer, data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("stored plan is not valid JSON: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
