package summary_test

import (
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adiazny/prefect-console/internal/pkg/records"
	"github.com/adiazny/prefect-console/internal/pkg/summary"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "zero offset",
			raw:  "2024-01-15T10:30:00.000000+00:00",
			want: "15-01-2024 10:30:00 UTC",
		},
		{
			name: "zulu suffix",
			raw:  "2024-01-15T10:30:00.123456Z",
			want: "15-01-2024 10:30:00 UTC",
		},
		{
			name: "positive offset",
			raw:  "2024-12-31T23:59:59.999999+05:30",
			want: "31-12-2024 23:59:59 UTC+05:30",
		},
		{
			name: "negative offset",
			raw:  "2024-07-04T08:00:00.000001-04:00",
			want: "04-07-2024 08:00:00 UTC-04:00",
		},
		{
			name: "short fraction",
			raw:  "2024-01-15T10:30:00.5+00:00",
			want: "15-01-2024 10:30:00 UTC",
		},
		{
			name:    "no fraction",
			raw:     "2024-01-15T10:30:00+00:00",
			wantErr: true,
		},
		{
			name:    "nine digit fraction",
			raw:     "2024-01-15T10:30:00.123456789+00:00",
			wantErr: true,
		},
		{
			name:    "empty fraction",
			raw:     "2024-01-15T10:30:00.+00:00",
			wantErr: true,
		},
		{
			name:    "date only",
			raw:     "2024-01-15",
			wantErr: true,
		},
		{
			name:    "not a timestamp",
			raw:     "yesterday",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			parsed, err := summary.ParseTimestamp(tt.raw)

			if (err != nil) != tt.wantErr {
				t.Errorf("ParseTimestamp() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantErr {
				return
			}

			if got := summary.FormatTimestamp(parsed); got != tt.want {
				t.Errorf("FormatTimestamp() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatTimestamp_PreservesWallClock(t *testing.T) {
	zone := time.FixedZone("", -(9*3600 + 30*60))
	ts := time.Date(2023, time.March, 5, 1, 2, 3, 0, zone)

	assert.Equal(t, "05-03-2023 01:02:03 UTC-09:30", summary.FormatTimestamp(ts))
}

func TestNewDeploymentSummary(t *testing.T) {
	tests := []struct {
		name      string
		record    records.Record
		want      summary.DeploymentSummary
		wantField string
	}{
		{
			name: "all fields",
			record: records.Record{
				"name":     "dataops-pipeline",
				"flow_id":  "flow-1",
				"created":  "2024-01-15T10:30:00.000000+00:00",
				"updated":  "2024-02-01T08:05:09.123456+00:00",
				"schedule": map[string]any{"cron": "0 6 * * *"},
				"tags":     []any{"dataops", "daily"},
			},
			want: summary.DeploymentSummary{
				Name:     "dataops-pipeline",
				FlowID:   "flow-1",
				Created:  "15-01-2024 10:30:00 UTC",
				Updated:  "01-02-2024 08:05:09 UTC",
				Schedule: "0 6 * * *",
				Tags:     []string{"dataops", "daily"},
			},
		},
		{
			name: "optional fields absent",
			record: records.Record{
				"created":  "2024-01-15T10:30:00.000000+00:00",
				"updated":  "2024-01-15T10:30:00.000000+00:00",
				"schedule": nil,
			},
			want: summary.DeploymentSummary{
				Created: "15-01-2024 10:30:00 UTC",
				Updated: "15-01-2024 10:30:00 UTC",
				Tags:    []string{},
			},
		},
		{
			name:      "created missing",
			record:    records.Record{"name": "x", "updated": "2024-01-15T10:30:00.000000+00:00"},
			wantField: "created",
		},
		{
			name:      "updated missing",
			record:    records.Record{"name": "x", "created": "2024-01-15T10:30:00.000000+00:00"},
			wantField: "updated",
		},
		{
			name:      "created malformed",
			record:    records.Record{"created": "15/01/2024", "updated": "2024-01-15T10:30:00.000000+00:00"},
			wantField: "created",
		},
		{
			name:      "updated not a string",
			record:    records.Record{"created": "2024-01-15T10:30:00.000000+00:00", "updated": 1705314600.0},
			wantField: "updated",
		},
	}
	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			got, err := summary.NewDeploymentSummary(tt.record)

			if tt.wantField != "" {
				var fieldErr *summary.MissingFieldError
				require.True(t, errors.As(err, &fieldErr), "want MissingFieldError, got %v", err)
				assert.Equal(t, tt.wantField, fieldErr.Field)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewFlowRunSummary(t *testing.T) {
	got, err := summary.NewFlowRunSummary(records.Record{
		"id":      "flow-1",
		"name":    "data-processing",
		"created": "2024-01-10T12:00:00.500000+00:00",
		"updated": "2024-01-12T09:45:30.000001+00:00",
	})
	require.NoError(t, err)

	assert.Equal(t, summary.FlowRunSummary{
		ID:      "flow-1",
		Name:    "data-processing",
		Created: "10-01-2024 12:00:00 UTC",
		Updated: "12-01-2024 09:45:30 UTC",
	}, got)

	assert.Equal(t, logrus.Fields{
		"Flow Run ID": "flow-1",
		"Flow Name":   "data-processing",
		"Created at":  "10-01-2024 12:00:00 UTC",
		"Updated at":  "12-01-2024 09:45:30 UTC",
	}, got.Fields())
}

func TestNewFlowRunSummary_TimestampWithoutFraction(t *testing.T) {
	_, err := summary.NewFlowRunSummary(records.Record{
		"created": "2024-01-10T12:00:00+00:00",
		"updated": "2024-01-12T09:45:30.000001+00:00",
	})

	var fieldErr *summary.MissingFieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "created", fieldErr.Field)
	assert.ErrorIs(t, err, summary.ErrBadFraction)
}

func TestNewFlowRunSummary_MissingCreated(t *testing.T) {
	_, err := summary.NewFlowRunSummary(records.Record{"id": "flow-1"})

	assert.ErrorIs(t, err, summary.ErrFieldAbsent)
	assert.EqualError(t, err, `missing field "created": field is absent`)
}

func TestDeploymentSummary_Lines(t *testing.T) {
	s := summary.DeploymentSummary{
		Name:     "mlops",
		FlowID:   "flow-2",
		Created:  "15-01-2024 10:30:00 UTC",
		Updated:  "16-01-2024 10:30:00 UTC",
		Schedule: "*/15 * * * *",
		Tags:     []string{"ml", "hourly"},
	}

	assert.Equal(t, []string{
		"Name of deployment: mlops",
		"Flow ID: flow-2",
		"Created at: 15-01-2024 10:30:00 UTC",
		"Last Updated at: 16-01-2024 10:30:00 UTC",
		"Schedule: */15 * * * *",
		"Tags: ml, hourly",
	}, s.Lines())
}
