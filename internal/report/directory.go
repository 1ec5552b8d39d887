package report

import (
	"fmt"
	"sort"
	"strings"

	"storehub_mcp/internal/storehub"
)

func Stores(stores []storehub.Store) string {
	var b strings.Builder
	fmt.Fprintf(&b, "STORES\nFound %d store(s)\n\n", len(stores))
	if len(stores) == 0 {
		b.WriteString(noRecords("store"))
		b.WriteString("\n")
		return b.String()
	}
	for _, s := range stores {
		fmt.Fprintf(&b, "- %s [id %s]\n", orDash(s.Name), s.ID)
		if addr := s.Address(); addr != "" {
			fmt.Fprintf(&b, "   Address: %s\n", addr)
		}
		if s.Phone != "" {
			fmt.Fprintf(&b, "   Phone: %s\n", s.Phone)
		}
		if s.Email != "" {
			fmt.Fprintf(&b, "   Email: %s\n", s.Email)
		}
		if s.Website != "" {
			fmt.Fprintf(&b, "   Website: %s\n", s.Website)
		}
	}
	return b.String()
}

// SortEmployees orders by last name, then first name, then id.
func SortEmployees(employees []storehub.Employee) []storehub.Employee {
	sorted := append([]storehub.Employee(nil), employees...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if la, lb := strings.ToLower(a.LastName), strings.ToLower(b.LastName); la != lb {
			return la < lb
		}
		if fa, fb := strings.ToLower(a.FirstName), strings.ToLower(b.FirstName); fa != fb {
			return fa < fb
		}
		return a.ID < b.ID
	})
	return sorted
}

func Employees(employees []storehub.Employee) string {
	var b strings.Builder
	fmt.Fprintf(&b, "EMPLOYEES\nFound %d employee(s)\n\n", len(employees))
	if len(employees) == 0 {
		b.WriteString(noRecords("employee"))
		b.WriteString("\n")
		return b.String()
	}
	for _, e := range SortEmployees(employees) {
		fmt.Fprintf(&b, "- %s [id %s]\n", e.FullName(), e.ID)
		if e.Email != "" {
			fmt.Fprintf(&b, "   Email: %s\n", e.Email)
		}
		if e.Phone != "" {
			fmt.Fprintf(&b, "   Phone: %s\n", e.Phone)
		}
	}
	return b.String()
}
