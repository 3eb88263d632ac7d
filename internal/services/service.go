// Package services holds the business rules of the job board. Services talk
// to storage through the repository ports in ports.go.
package services

import (
	"net/mail"
	"slices"
	"strings"
	"time"

	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/justsurfingit/jobx/internal/models"
)

// Actor is the authenticated caller.
type Actor struct {
	ID   uint
	Role string
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func requireFields(fields map[string]string) error {
	var missing []string
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return apperr.Validation("missing required fields: " + strings.Join(missing, ", "))
}

// parseDate accepts a calendar date (midnight in loc) or an RFC 3339 timestamp.
func parseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.ParseInLocation("2006-01-02", value, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, apperr.Validation("invalid date " + value + ", use YYYY-MM-DD")
}

var scheduleLayouts = []string{
	models.ScheduleLayout,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// parseSchedule reads an interview time and returns it normalised to UTC.
// Values without an offset are read in loc.
func parseSchedule(value string, loc *time.Location) (string, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC().Format(models.ScheduleLayout), nil
	}
	for _, layout := range scheduleLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t.UTC().Format(models.ScheduleLayout), nil
		}
	}
	return "", apperr.Validation("invalid schedule time " + value)
}

func setIfPresent(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
