package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gurre/hr-onboard/employee"
)

// Defaults used by the rule-based extractor when an input field is absent.
const (
	defaultRole       = "Employee"
	defaultDepartment = "General"
	defaultManager    = "Not specified"
)

// usernameChars strips everything outside lowercase alphanumerics and dots.
var usernameChars = regexp.MustCompile(`[^a-z0-9.]`)

// RuleBased derives the canonical user record directly from the input
// record. It is total and never fails: every field gets either the
// corresponding input value or a fixed default, so the pipeline always
// produces a valid record even when every model call fails. The only
// non-deterministic output is the generated employee_id when the input
// carries none.
func RuleBased(rec employee.Record) employee.UserRecord {
	username := deriveUsername(rec)

	email := rec.Get("email")
	if email == "" {
		email = username + "@company.com"
	}

	startDate := rec.Get("start_date")
	if startDate == "" {
		startDate = time.Now().Format("2006-01-02")
	}

	employeeID := rec.Get("employee_id")
	if employeeID == "" {
		employeeID = generateEmployeeID()
	}

	return employee.UserRecord{
		Username:   username,
		Email:      email,
		Role:       valueOr(rec, "position", defaultRole),
		StartDate:  startDate,
		Department: valueOr(rec, "department", defaultDepartment),
		EmployeeID: employeeID,
		Manager:    valueOr(rec, "manager", defaultManager),
	}
}

// deriveUsername prefers the email local-part; otherwise it joins the first
// and last tokens of the full name. The result is sanitized to lowercase
// alphanumerics and dots.
func deriveUsername(rec employee.Record) string {
	if email := rec.Get("email"); strings.Contains(email, "@") {
		return sanitizeUsername(strings.SplitN(email, "@", 2)[0])
	}

	parts := strings.Fields(strings.ToLower(rec.Get("full_name")))
	switch {
	case len(parts) >= 2:
		return sanitizeUsername(parts[0] + "." + parts[len(parts)-1])
	case len(parts) == 1:
		return sanitizeUsername(parts[0])
	default:
		return "user"
	}
}

func sanitizeUsername(s string) string {
	s = usernameChars.ReplaceAllString(strings.ToLower(s), "")
	if s == "" {
		return "user"
	}
	return s
}

// generateEmployeeID mints a placeholder id for records arriving without one.
func generateEmployeeID() string {
	return fmt.Sprintf("EMP-%s", strings.ToUpper(uuid.NewString()[:6]))
}

func valueOr(rec employee.Record, key, fallback string) string {
	if v := rec.Get(key); strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}
