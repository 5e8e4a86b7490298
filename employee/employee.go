// Package employee defines the records flowing through the onboarding
// pipeline: the free-form input record supplied by HR and the canonical
// seven-field user record required for account provisioning.
package employee

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// Record is a raw employee record as supplied by HR. Keys and values are
// free text; no shape is enforced before ingestion.
type Record map[string]string

// Get returns the value for key, or empty string when absent.
func (r Record) Get(key string) string {
	return r[key]
}

// JSON serializes the record for storage and for the entity-detection call.
func (r Record) JSON() ([]byte, error) {
	return json.Marshal(r)
}

// DecodeRecord parses a JSON object into a Record. Non-string values are
// rejected; roster lines and API payloads are expected to carry text fields
// only.
func DecodeRecord(data []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("malformed employee record: %w", err)
	}
	return rec, nil
}

// RequiredFields are the canonical user record fields, in the order they are
// reported. Downstream provisioning requires exactly this schema.
var RequiredFields = []string{
	"username",
	"email",
	"role",
	"start_date",
	"department",
	"employee_id",
	"manager",
}

// UserRecord is the canonical user record produced by extraction. Every field
// is non-empty once validation has passed; start_date is expected, but not
// enforced, to be YYYY-MM-DD.
type UserRecord struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	StartDate  string `json:"start_date"`
	Department string `json:"department"`
	EmployeeID string `json:"employee_id"`
	Manager    string `json:"manager"`
}

// ErrInvalidUserData is returned by ValidateFields when the candidate value
// does not satisfy the canonical schema. Validation failures are soft: the
// pipeline falls back to rule-based extraction instead of failing the run.
var ErrInvalidUserData = fmt.Errorf("invalid user data")

// ValidateFields checks a candidate field mapping against the canonical
// schema. All seven required fields must be present with non-empty values
// after trimming; there is no partial acceptance. Extra fields are ignored.
func ValidateFields(fields map[string]any) error {
	if fields == nil {
		return fmt.Errorf("%w: not a field mapping", ErrInvalidUserData)
	}
	for _, name := range RequiredFields {
		v, ok := fields[name]
		if !ok {
			return fmt.Errorf("%w: missing field %q", ErrInvalidUserData, name)
		}
		if strings.TrimSpace(stringify(v)) == "" {
			return fmt.Errorf("%w: empty field %q", ErrInvalidUserData, name)
		}
	}
	return nil
}

// UserFromFields builds a UserRecord from a validated field mapping.
func UserFromFields(fields map[string]any) (UserRecord, error) {
	if err := ValidateFields(fields); err != nil {
		return UserRecord{}, err
	}
	return UserRecord{
		Username:   strings.TrimSpace(stringify(fields["username"])),
		Email:      strings.TrimSpace(stringify(fields["email"])),
		Role:       strings.TrimSpace(stringify(fields["role"])),
		StartDate:  strings.TrimSpace(stringify(fields["start_date"])),
		Department: strings.TrimSpace(stringify(fields["department"])),
		EmployeeID: strings.TrimSpace(stringify(fields["employee_id"])),
		Manager:    strings.TrimSpace(stringify(fields["manager"])),
	}, nil
}

// stringify renders a decoded JSON value as text. Generation output
// occasionally types employee ids or dates as numbers.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
