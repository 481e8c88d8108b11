package summary

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/adiazny/prefect-console/internal/pkg/records"
)

const (
	// TimestampLayout is how the API encodes created/updated,
	// e.g. 2024-01-15T10:30:00.000000+00:00.
	TimestampLayout = "2006-01-02T15:04:05.999999Z07:00"

	// Offset of the fraction separator in a TimestampLayout value.
	fractionStart  = len("2006-01-02T15:04:05")
	maxFractionLen = 6

	displayLayout = "02-01-2006 15:04:05"
)

var (
	ErrFieldAbsent    = errors.New("field is absent")
	ErrFieldNotString = errors.New("field is not a string")
	ErrBadFraction    = errors.New("fractional seconds must be 1 to 6 digits")
)

// MissingFieldError reports a required field that is absent or unusable.
type MissingFieldError struct {
	Field string
	Err   error
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field %q: %v", e.Field, e.Err)
}

func (e *MissingFieldError) Unwrap() error {
	return e.Err
}

// ParseTimestamp requires a fraction of 1 to 6 digits before the offset;
// time.Parse alone would accept none or more.
func ParseTimestamp(value string) (time.Time, error) {
	if !hasFraction(value) {
		return time.Time{}, fmt.Errorf("error parsing timestamp %q %w", value, ErrBadFraction)
	}

	t, err := time.Parse(TimestampLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("error parsing timestamp %q %w", value, err)
	}

	return t, nil
}

func hasFraction(value string) bool {
	if len(value) <= fractionStart || value[fractionStart] != '.' {
		return false
	}

	digits := 0
	for _, c := range value[fractionStart+1:] {
		if c < '0' || c > '9' {
			break
		}
		digits++
	}

	return digits >= 1 && digits <= maxFractionLen
}

// FormatTimestamp renders t as DD-MM-YYYY HH:MM:SS followed by its zone,
// "UTC" for a zero offset and "UTC+HH:MM" otherwise.
func FormatTimestamp(t time.Time) string {
	_, offset := t.Zone()

	return t.Format(displayLayout) + " " + zoneLabel(offset)
}

func zoneLabel(offset int) string {
	if offset == 0 {
		return "UTC"
	}

	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}

	return fmt.Sprintf("UTC%s%02d:%02d", sign, offset/3600, (offset%3600)/60)
}

type DeploymentSummary struct {
	Name     string
	FlowID   string
	Created  string
	Updated  string
	Schedule string
	Tags     []string
}

func NewDeploymentSummary(record records.Record) (DeploymentSummary, error) {
	created, err := displayTimestamp(record, "created")
	if err != nil {
		return DeploymentSummary{}, err
	}

	updated, err := displayTimestamp(record, "updated")
	if err != nil {
		return DeploymentSummary{}, err
	}

	return DeploymentSummary{
		Name:     record.String("name"),
		FlowID:   record.String("flow_id"),
		Created:  created,
		Updated:  updated,
		Schedule: record.String("schedule", "cron"),
		Tags:     record.Strings("tags"),
	}, nil
}

func (s DeploymentSummary) Fields() logrus.Fields {
	return toFields(s.pairs())
}

func (s DeploymentSummary) Lines() []string {
	return toLines(s.pairs())
}

func (s DeploymentSummary) pairs() []pair {
	return []pair{
		{"Name of deployment", s.Name},
		{"Flow ID", s.FlowID},
		{"Created at", s.Created},
		{"Last Updated at", s.Updated},
		{"Schedule", s.Schedule},
		{"Tags", s.Tags},
	}
}

type FlowRunSummary struct {
	ID      string
	Name    string
	Created string
	Updated string
}

func NewFlowRunSummary(record records.Record) (FlowRunSummary, error) {
	created, err := displayTimestamp(record, "created")
	if err != nil {
		return FlowRunSummary{}, err
	}

	updated, err := displayTimestamp(record, "updated")
	if err != nil {
		return FlowRunSummary{}, err
	}

	return FlowRunSummary{
		ID:      record.String("id"),
		Name:    record.String("name"),
		Created: created,
		Updated: updated,
	}, nil
}

func (s FlowRunSummary) Fields() logrus.Fields {
	return toFields(s.pairs())
}

func (s FlowRunSummary) Lines() []string {
	return toLines(s.pairs())
}

func (s FlowRunSummary) pairs() []pair {
	return []pair{
		{"Flow Run ID", s.ID},
		{"Flow Name", s.Name},
		{"Created at", s.Created},
		{"Updated at", s.Updated},
	}
}

func displayTimestamp(record records.Record, field string) (string, error) {
	value, ok := record.Lookup(field)
	if !ok {
		return "", &MissingFieldError{Field: field, Err: ErrFieldAbsent}
	}

	raw, ok := value.(string)
	if !ok {
		return "", &MissingFieldError{Field: field, Err: ErrFieldNotString}
	}

	t, err := ParseTimestamp(raw)
	if err != nil {
		return "", &MissingFieldError{Field: field, Err: err}
	}

	return FormatTimestamp(t), nil
}

type pair struct {
	label string
	value any
}

func toFields(pairs []pair) logrus.Fields {
	fields := make(logrus.Fields, len(pairs))
	for _, p := range pairs {
		fields[p.label] = p.value
	}

	return fields
}

func toLines(pairs []pair) []string {
	lines := make([]string, 0, len(pairs))
	for _, p := range pairs {
		value := p.value
		if tags, ok := value.([]string); ok {
			value = strings.Join(tags, ", ")
		}
		lines = append(lines, fmt.Sprintf("%s: %v", p.label, value))
	}

	return lines
}
