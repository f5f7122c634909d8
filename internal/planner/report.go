package planner

import (
	"fmt"
	"strings"

	"github.com/shenikar/emergency_action_plan/internal/models"
)

// DescribeDispatch возвращает строку вида "H1 - 3 critical, 1 stable (2.35 km | 12.0 min)".
// Нечисловые расстояние и время выводятся как есть.
func DescribeDispatch(d models.DispatchEntry) string {
	line := fmt.Sprintf("%s - %d critical, %d stable", d.HospitalID, d.Critical, d.Stable)

	var extra []string
	if d.DistanceKM.Present() {
		extra = append(extra, d.DistanceKM.Format("%.2f")+" km")
	}
	if d.TravelMin.Present() {
		extra = append(extra, d.TravelMin.Format("%.1f")+" min")
	}
	if len(extra) > 0 {
		line += " (" + strings.Join(extra, " | ") + ")"
	}
	return line
}

// Report выводит план в текстовом виде для операторов
func Report(plan *models.ActionPlan) string {
	var b strings.Builder
	s := plan.Summary

	fmt.Fprintf(&b, "Incident at %s | Scenario: %s\n", plan.IncidentLocation, capitalize(plan.Scenario))
	fmt.Fprintf(&b, "Patients: %d total (%d critical, %d stable)\n", s.TotalPatients, s.TotalCritical, s.TotalStable)

	b.WriteString("\nAmbulance Dispatch:\n")
	if len(plan.AmbulanceDispatch) == 0 {
		b.WriteString("   No hospital assignments available.\n")
	}
	for _, d := range plan.AmbulanceDispatch {
		fmt.Fprintf(&b, "   -> %s\n", DescribeDispatch(d))
	}

	b.WriteString("\nHospital Alerts:\n")
	if len(plan.HospitalAlerts) == 0 {
		b.WriteString("   No hospitals to alert.\n")
	}
	for _, a := range plan.HospitalAlerts {
		fmt.Fprintf(&b, "   - %s\n", a.Message)
	}

	b.WriteString("\nStaff Action:\n")
	if len(plan.StaffActions) == 0 {
		b.WriteString("   No staff actions available.\n")
	}
	for _, a := range plan.StaffActions {
		fmt.Fprintf(&b, "   - %s\n", a.Action)
	}

	fmt.Fprintf(&b, "\nPUBLIC ADVISORY:\n   %s\n", plan.PublicAdvisory)
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
