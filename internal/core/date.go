package core

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/goodsign/monday"
)

// CreatedAtLayout renders as "15 de mar de 2024".
const CreatedAtLayout = "02 de Jan de 2006"

// DefaultTimeZone matches a build host running in UTC, so a post created
// late at night keeps the calendar day the CMS stored.
const DefaultTimeZone = "UTC"

func LoadTimeZone(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimeZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", name, err)
	}
	return loc, nil
}

// FormatCreatedAt parses an ISO 8601 timestamp and formats it in Brazilian
// Portuguese in loc.
func FormatCreatedAt(createdAt string, loc *time.Location) (string, error) {
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return "", fmt.Errorf("parse createdAt %q: %w", createdAt, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return monday.Format(t.In(loc), CreatedAtLayout, monday.LocalePtBR), nil
}
