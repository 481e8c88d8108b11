package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/adiazny/prefect-console/internal/pkg/records"
	"github.com/adiazny/prefect-console/internal/pkg/report"
	"github.com/adiazny/prefect-console/internal/pkg/summary"
)

const (
	choiceDataOpsDeployment = "1"
	choiceMLOpsDeployment   = "2"
	choiceDataOpsFlow       = "3"
	choiceMLOpsFlow         = "4"
	choiceLogs              = "5"
	choiceExit              = "6"

	ruleWidth = 100
)

type Actions interface {
	FetchDeployment(ctx context.Context, deploymentID string) (records.Record, bool)
	ShowDeployment(deployment records.Record, pipelineName string) (summary.DeploymentSummary, bool)
	FetchFlow(ctx context.Context, flowName string) (records.Record, bool)
	ShowFlowRun(flowRun records.Record, pipelineName string) (summary.FlowRunSummary, bool)
	FetchLogs(ctx context.Context, count int) ([]records.Record, bool)
}

type Menu struct {
	Log     logrus.FieldLogger
	Actions Actions
	DataOps report.Pipeline
	MLOps   report.Pipeline
	In      io.Reader
	Out     io.Writer
}

// Run loops until the exit choice, end of input or ctx is done.
func (m *Menu) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(m.In)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.printMenu()

		choice, ok := m.prompt(scanner, "Enter your choice (1-6): ")
		if !ok {
			return m.endOfInput(scanner)
		}

		fmt.Fprintf(m.Out, "\n%s\n", strings.Repeat("#", ruleWidth))

		switch choice {
		case choiceDataOpsDeployment:
			m.showDeployment(ctx, m.DataOps)
		case choiceMLOpsDeployment:
			m.showDeployment(ctx, m.MLOps)
		case choiceDataOpsFlow:
			m.showFlow(ctx, m.DataOps)
		case choiceMLOpsFlow:
			m.showFlow(ctx, m.MLOps)
		case choiceLogs:
			input, ok := m.prompt(scanner, "Enter the number of latest logs to fetch: ")
			if !ok {
				return m.endOfInput(scanner)
			}

			count, err := strconv.Atoi(input)
			if err != nil {
				m.Log.WithError(err).Error("Invalid input for logs count. Please enter an integer.")
				continue
			}

			m.Actions.FetchLogs(ctx, count)
		case choiceExit:
			m.Log.Info("Exiting program. Goodbye!")
			return nil
		default:
			m.Log.Warn("Invalid choice. Please enter a number between 1 and 6.")
		}
	}
}

func (m *Menu) showDeployment(ctx context.Context, pipeline report.Pipeline) {
	deployment, _ := m.Actions.FetchDeployment(ctx, pipeline.DeploymentID)
	m.Actions.ShowDeployment(deployment, pipeline.Label)
}

func (m *Menu) showFlow(ctx context.Context, pipeline report.Pipeline) {
	flow, _ := m.Actions.FetchFlow(ctx, pipeline.FlowID)
	m.Actions.ShowFlowRun(flow, pipeline.Label)
}

func (m *Menu) printMenu() {
	fmt.Fprintf(m.Out, "\n%s\n", strings.Repeat("*", ruleWidth))
	fmt.Fprintln(m.Out, "\nMenu:")
	fmt.Fprintf(m.Out, "1. Get %s pipeline deployment details\n", m.DataOps.Label)
	fmt.Fprintf(m.Out, "2. Get %s pipeline deployment details\n", m.MLOps.Label)
	fmt.Fprintf(m.Out, "3. Get %s flow details\n", m.DataOps.Label)
	fmt.Fprintf(m.Out, "4. Get %s flow details\n", m.MLOps.Label)
	fmt.Fprintln(m.Out, "5. Get logs")
	fmt.Fprintln(m.Out, "6. Exit")
}

func (m *Menu) prompt(scanner *bufio.Scanner, question string) (string, bool) {
	fmt.Fprint(m.Out, question)

	if !scanner.Scan() {
		return "", false
	}

	return strings.TrimSpace(scanner.Text()), true
}

func (m *Menu) endOfInput(scanner *bufio.Scanner) error {
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading menu input %w", err)
	}

	m.Log.Info("End of input. Goodbye!")

	return nil
}
