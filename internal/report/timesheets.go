package report

import (
	"fmt"
	"sort"
	"strings"

	"storehub_mcp/internal/storehub"
)

type TimesheetEntry struct {
	ClockIn  string
	ClockOut string
	Hours    float64
	HasHours bool
	Active   bool
}

type EmployeeHours struct {
	EmployeeID string
	Name       string
	Hours      float64
	Entries    []TimesheetEntry
	Active     int
}

type TimesheetSummary struct {
	Entries    int
	Active     int
	TotalHours float64
	Employees  []EmployeeHours
}

// SummarizeTimesheets groups entries per employee. Only closed entries
// contribute hours; active ones are counted and flagged.
func SummarizeTimesheets(timesheets []storehub.Timesheet, employees []storehub.Employee) TimesheetSummary {
	names := make(map[string]string, len(employees))
	for _, e := range employees {
		names[e.ID] = e.FullName()
	}

	s := TimesheetSummary{Entries: len(timesheets)}
	groups := map[string]*EmployeeHours{}
	for _, t := range timesheets {
		group, ok := groups[t.EmployeeID]
		if !ok {
			name, known := names[t.EmployeeID]
			if !known {
				name = storehub.Employee{ID: t.EmployeeID}.FullName()
			}
			group = &EmployeeHours{EmployeeID: t.EmployeeID, Name: name}
			groups[t.EmployeeID] = group
		}

		entry := TimesheetEntry{ClockIn: t.ClockInTime, ClockOut: t.ClockOutTime, Active: t.Active()}
		if entry.Active {
			group.Active++
			s.Active++
		} else if hours, ok := t.Hours(); ok {
			entry.Hours, entry.HasHours = hours, true
			group.Hours += hours
			s.TotalHours += hours
		}
		group.Entries = append(group.Entries, entry)
	}

	for _, g := range groups {
		s.Employees = append(s.Employees, *g)
	}
	sort.Slice(s.Employees, func(i, j int) bool {
		if s.Employees[i].Name != s.Employees[j].Name {
			return s.Employees[i].Name < s.Employees[j].Name
		}
		return s.Employees[i].EmployeeID < s.Employees[j].EmployeeID
	})
	return s
}

func Timesheets(result storehub.TimesheetsResult) string {
	s := SummarizeTimesheets(result.Timesheets, result.Employees)

	var b strings.Builder
	b.WriteString("TIMESHEETS\n")
	writeTimesheetFilters(&b, result.Query)
	b.WriteString("\n")

	if s.Entries == 0 {
		b.WriteString(noRecords("timesheet"))
		b.WriteString("\n")
		fmt.Fprintf(&b, "   Total hours: %.2f\n", 0.0)
		return b.String()
	}

	for _, e := range s.Employees {
		fmt.Fprintf(&b, "%s [id %s]: %.2f hours\n", e.Name, e.EmployeeID, e.Hours)
		for _, entry := range e.Entries {
			switch {
			case entry.Active:
				fmt.Fprintf(&b, "   - %s to now: ACTIVE (not counted)\n", entry.ClockIn)
			case entry.HasHours:
				fmt.Fprintf(&b, "   - %s to %s: %.2f h\n", entry.ClockIn, entry.ClockOut, entry.Hours)
			default:
				fmt.Fprintf(&b, "   - %s to %s: unreadable times\n", orDash(entry.ClockIn), orDash(entry.ClockOut))
			}
		}
	}

	b.WriteString("\nSUMMARY\n")
	fmt.Fprintf(&b, "   Entries: %d\n", s.Entries)
	fmt.Fprintf(&b, "   Employees: %d\n", len(s.Employees))
	fmt.Fprintf(&b, "   Active shifts: %d\n", s.Active)
	fmt.Fprintf(&b, "   Total hours: %.2f\n", s.TotalHours)
	if result.EmployeesErr != nil {
		b.WriteString("\nNote: employee names could not be loaded; ids are shown instead.\n")
	}
	return b.String()
}

func writeTimesheetFilters(b *strings.Builder, q storehub.TimesheetQuery) {
	var filters []string
	if q.StoreID != "" {
		filters = append(filters, "store "+q.StoreID)
	}
	if q.EmployeeID != "" {
		filters = append(filters, "employee "+q.EmployeeID)
	}
	if q.FromDate != "" || q.ToDate != "" {
		filters = append(filters, fmt.Sprintf("period %s to %s", orDash(q.FromDate), orDash(q.ToDate)))
	}
	if len(filters) > 0 {
		fmt.Fprintf(b, "Filters: %s\n", strings.Join(filters, "; "))
	}
}
