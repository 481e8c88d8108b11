package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	cfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/caarlos0/env"
	"github.com/sirupsen/logrus"

	"github.com/adiazny/prefect-console/internal/pkg/config"
	"github.com/adiazny/prefect-console/internal/pkg/notify"
	"github.com/adiazny/prefect-console/internal/pkg/prefect"
	"github.com/adiazny/prefect-console/internal/pkg/report"
)

const digestSubject = "Prefect pipelines digest"

type environmentVariables struct {
	TopicARN string `env:"TOPIC_ARN,required"`
}

func HandleRequest(ctx context.Context) (report.Digest, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	log := logrus.NewEntry(logger)
	log.WithField("component", "prefect-digest").Info("starting up")

	defer log.WithField("component", "prefect-digest").Info("shutting down")

	appConfig, err := config.Setup(log, "")
	if err != nil {
		log.WithError(err).Error()
		return report.Digest{}, err
	}

	envVars := &environmentVariables{}

	err = env.Parse(envVars)
	if err != nil {
		log.WithError(err).Error()
		return report.Digest{}, fmt.Errorf("error parsing environment variables %w", err)
	}

	awsConfig, err := cfg.LoadDefaultConfig(ctx)
	if err != nil {
		log.WithError(err).Error()
		return report.Digest{}, fmt.Errorf("error loading AWS config %w", err)
	}

	reporter := &report.Reporter{
		Log: log,
		API: &prefect.Client{
			Log:    log.WithField("component", "prefect-client"),
			Config: appConfig.Prefect,
			HTTP: &http.Client{
				Timeout: appConfig.HTTPTimeout,
			},
		},
		FlowRunIDs: appConfig.FlowRunIDs,
	}

	publisher := &notify.Publisher{
		Log:      log,
		SNS:      sns.NewFromConfig(awsConfig),
		TopicARN: envVars.TopicARN,
	}

	digest := reporter.Digest(ctx, appConfig.DataOps, appConfig.MLOps)

	err = publisher.Publish(ctx, digestSubject, digest.Message())
	if err != nil {
		log.WithError(err).Error()
		return digest, err
	}

	return digest, nil
}

func main() {
	lambda.Start(HandleRequest)
}
