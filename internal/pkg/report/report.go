package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/adiazny/prefect-console/internal/pkg/records"
	"github.com/adiazny/prefect-console/internal/pkg/summary"
)

var ErrInvalidCount = errors.New("logs count must be a positive integer")

// API is the subset of the Prefect client the reporter drives.
type API interface {
	GetDeployment(ctx context.Context, deploymentID string) (records.Record, error)
	GetFlow(ctx context.Context, flowName string) (records.Record, error)
	FilterLogs(ctx context.Context, filter records.LogFilter) ([]records.Record, error)
}

// Reporter fetches records, logs readable summaries of them and never
// returns an error: every failure is logged with its context and turned
// into an absent result.
type Reporter struct {
	Log        logrus.FieldLogger
	API        API
	FlowRunIDs []string
}

func (r *Reporter) FetchDeployment(ctx context.Context, deploymentID string) (records.Record, bool) {
	deployment, err := r.API.GetDeployment(ctx, deploymentID)
	if err != nil {
		r.Log.WithField("deployment_id", deploymentID).WithError(err).Error("Failed to retrieve deployment data")
		return nil, false
	}

	r.Log.Infof("Deployment data retrieved:\n%s", pretty(deployment))

	return deployment, true
}

func (r *Reporter) ShowDeployment(deployment records.Record, pipelineName string) (summary.DeploymentSummary, bool) {
	if len(deployment) == 0 {
		r.Log.Warnf("No deployment data available for %s", pipelineName)
		return summary.DeploymentSummary{}, false
	}

	details, err := summary.NewDeploymentSummary(deployment)
	if err != nil {
		r.Log.WithField("pipeline_name", pipelineName).WithError(err).Error("Error in deployment details")
		return summary.DeploymentSummary{}, false
	}

	r.Log.WithFields(details.Fields()).Infof("Details about deployment for %s", pipelineName)

	return details, true
}

func (r *Reporter) FetchFlow(ctx context.Context, flowName string) (records.Record, bool) {
	flow, err := r.API.GetFlow(ctx, flowName)
	if err != nil {
		r.Log.WithField("flow_name", flowName).WithError(err).Error("Failed to retrieve flow data")
		return nil, false
	}

	r.Log.Infof("Flow data retrieved:\n%s", pretty(flow))

	return flow, true
}

func (r *Reporter) ShowFlowRun(flowRun records.Record, pipelineName string) (summary.FlowRunSummary, bool) {
	if len(flowRun) == 0 {
		r.Log.Warnf("No successful flow runs found for %s", pipelineName)
		return summary.FlowRunSummary{}, false
	}

	details, err := summary.NewFlowRunSummary(flowRun)
	if err != nil {
		r.Log.WithField("pipeline_name", pipelineName).WithError(err).Error("Error in flow run details")
		return summary.FlowRunSummary{}, false
	}

	r.Log.WithFields(details.Fields()).Infof("Last successful flow for %s", pipelineName)

	return details, true
}

// FetchLogs queries the oldest count logs of the configured flow runs.
func (r *Reporter) FetchLogs(ctx context.Context, count int) ([]records.Record, bool) {
	if count <= 0 {
		r.Log.WithField("count", count).WithError(ErrInvalidCount).Error("Invalid input for logs count")
		return nil, false
	}

	logs, err := r.API.FilterLogs(ctx, records.NewLogFilter(count, r.FlowRunIDs...))
	if err != nil {
		r.Log.WithError(err).Error("Failed to retrieve logs")
		return nil, false
	}

	if len(logs) == 0 {
		r.Log.Info("No logs found for the given run.")
		return logs, true
	}

	r.Log.Infof("Logs retrieved:\n%s", pretty(logs))

	return logs, true
}

// Pipeline names one deployment and its flow under a human label.
type Pipeline struct {
	Label        string
	DeploymentID string
	FlowID       string
}

type Section struct {
	Title string   `json:"title"`
	Lines []string `json:"lines"`
}

// Digest is a plain-text friendly roll-up of several pipelines.
type Digest struct {
	Sections    []Section `json:"sections"`
	Unavailable []string  `json:"unavailable,omitempty"`
}

func (d Digest) Message() string {
	var b strings.Builder

	for _, section := range d.Sections {
		fmt.Fprintf(&b, "%s\n", section.Title)
		for _, line := range section.Lines {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}

	if len(d.Unavailable) > 0 {
		fmt.Fprintf(&b, "Unavailable: %s\n", strings.Join(d.Unavailable, ", "))
	}

	return strings.TrimRight(b.String(), "\n")
}

// Digest runs the deployment and flow operations for every pipeline in order.
func (r *Reporter) Digest(ctx context.Context, pipelines ...Pipeline) Digest {
	digest := Digest{Sections: make([]Section, 0, len(pipelines)*2)}

	for _, pipeline := range pipelines {
		deploymentTitle := pipeline.Label + " deployment"

		deployment, _ := r.FetchDeployment(ctx, pipeline.DeploymentID)
		if details, ok := r.ShowDeployment(deployment, pipeline.Label); ok {
			digest.Sections = append(digest.Sections, Section{Title: deploymentTitle, Lines: details.Lines()})
		} else {
			digest.Unavailable = append(digest.Unavailable, deploymentTitle)
		}

		flowTitle := pipeline.Label + " flow"

		flow, _ := r.FetchFlow(ctx, pipeline.FlowID)
		if details, ok := r.ShowFlowRun(flow, pipeline.Label); ok {
			digest.Sections = append(digest.Sections, Section{Title: flowTitle, Lines: details.Lines()})
		} else {
			digest.Unavailable = append(digest.Unavailable, flowTitle)
		}
	}

	return digest
}

func pretty(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}

	return string(data)
}
