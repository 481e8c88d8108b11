package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/adiazny/prefect-console/internal/pkg/prefect"
	"github.com/adiazny/prefect-console/internal/pkg/report"
)

const (
	DefaultEnvFile = ".env"

	dataOpsLabel = "DataOps"
	mlOpsLabel   = "MLOps"
)

type environmentVariables struct {
	AccountID   string        `env:"PREFECT_ACCOUNT_ID,required"`
	WorkspaceID string        `env:"PREFECT_WORKSPACE_ID,required"`
	APIKey      string        `env:"PREFECT_API_KEY,required"`
	APIHost     string        `env:"PREFECT_API_URL" envDefault:"https://api.prefect.cloud/api"`
	HTTPTimeout time.Duration `env:"PREFECT_HTTP_TIMEOUT" envDefault:"10s"`

	DataPipelineDeploymentID string `env:"DATA_PIPELINE_DEPLOYMENT_ID"`
	MLPipelineDeploymentID   string `env:"ML_PIPELINE_DEPLOYMENT_ID"`
	DataProcessingFlowID     string `env:"DATA_PROCESSING_FLOW_ID"`
	MachineLearningFlowID    string `env:"MACHINE_LEARNING_FLOW_ID"`
	DataProcessingFlowRunID  string `env:"DATA_PROCESSING_FLOW_RUN_ID"`
	MachineLearningFlowRunID string `env:"MACHINE_LEARNING_FLOW_RUN_ID"`
}

// Config is built once at startup and only ever passed by value.
type Config struct {
	Prefect     prefect.Config
	HTTPTimeout time.Duration
	DataOps     report.Pipeline
	MLOps       report.Pipeline
	FlowRunIDs  []string
}

// Setup loads envFile into the environment (without overriding variables
// already set), sizes GOMAXPROCS and parses the configuration. A missing
// default .env file is not an error.
func Setup(log *logrus.Entry, envFile string) (Config, error) {
	_, err := maxprocs.Set(maxprocs.Logger(log.Debugf))
	if err != nil {
		return Config{}, fmt.Errorf("error setting GOMAXPROCS %w", err)
	}

	err = loadEnvFile(envFile)
	if err != nil {
		return Config{}, err
	}

	return Parse()
}

func Parse() (Config, error) {
	envVars := &environmentVariables{}

	err := env.Parse(envVars)
	if err != nil {
		return Config{}, fmt.Errorf("error parsing environment variables %w", err)
	}

	return Config{
		Prefect: prefect.Config{
			APIHost:     envVars.APIHost,
			AccountID:   envVars.AccountID,
			WorkspaceID: envVars.WorkspaceID,
			Token:       envVars.APIKey,
		},
		HTTPTimeout: envVars.HTTPTimeout,
		DataOps: report.Pipeline{
			Label:        dataOpsLabel,
			DeploymentID: envVars.DataPipelineDeploymentID,
			FlowID:       envVars.DataProcessingFlowID,
		},
		MLOps: report.Pipeline{
			Label:        mlOpsLabel,
			DeploymentID: envVars.MLPipelineDeploymentID,
			FlowID:       envVars.MachineLearningFlowID,
		},
		FlowRunIDs: []string{envVars.DataProcessingFlowRunID, envVars.MachineLearningFlowRunID},
	}, nil
}

func loadEnvFile(envFile string) error {
	if envFile == "" {
		envFile = DefaultEnvFile
	}

	err := godotenv.Load(envFile)
	if err == nil {
		return nil
	}

	if envFile == DefaultEnvFile && errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("error loading env file %s %w", envFile, err)
}
