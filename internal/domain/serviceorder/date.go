package serviceorder

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout formato de fecha en formularios y payloads.
const DateLayout = "2006-01-02"

// Date fecha civil serializada como "AAAA-MM-DD".
type Date struct {
	time.Time
}

// ParseDate interpreta "AAAA-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("fecha %q: %w", s, err)
	}
	return Date{t}, nil
}

// parseOptionalDate devuelve nil para texto vacío.
func parseOptionalDate(s string) (*Date, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// String formato "AAAA-MM-DD".
func (d Date) String() string { return d.Format(DateLayout) }

// MarshalJSON serializa como "AAAA-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON acepta "AAAA-MM-DD" o RFC3339.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		d.Time = t
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Ptr devuelve el time.Time o nil.
func (d *Date) Ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

func dateFrom(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
