package prefect

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/adiazny/prefect-console/internal/pkg/records"
)

const (
	DefaultAPIHost = "https://api.prefect.cloud/api"

	deploymentsEndpoint = "deployments"
	flowsEndpoint       = "flows"
	logsFilterEndpoint  = "logs/filter"

	authorizationHeaderKey = "Authorization"
	contentTypeHeaderKey   = "Content-Type"
	jsonContentType        = "application/json"
)

var ErrEmptyID = errors.New("identifier must not be empty")

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	APIHost     string
	AccountID   string
	WorkspaceID string
	Token       string
}

// BaseURL is the workspace-scoped root every endpoint hangs off.
func (c Config) BaseURL() string {
	host := c.APIHost
	if host == "" {
		host = DefaultAPIHost
	}

	return fmt.Sprintf("%s/accounts/%s/workspaces/%s",
		strings.TrimRight(host, "/"),
		c.AccountID,
		c.WorkspaceID,
	)
}

type Client struct {
	Log    *logrus.Entry
	Config Config
	HTTP   HTTPClient
}

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("error status code is not 2xx for %s %s, got %d", e.Method, e.URL, e.StatusCode)
}

func (client *Client) GetDeployment(ctx context.Context, deploymentID string) (records.Record, error) {
	if deploymentID == "" {
		return nil, fmt.Errorf("error getting deployment: %w", ErrEmptyID)
	}

	record := records.Record{}

	err := client.do(ctx, http.MethodGet, client.endpoint(deploymentsEndpoint, url.PathEscape(deploymentID)), nil, &record)
	if err != nil {
		return nil, fmt.Errorf("error getting deployment %s: %w", deploymentID, err)
	}

	return record, nil
}

func (client *Client) GetFlow(ctx context.Context, flowName string) (records.Record, error) {
	if flowName == "" {
		return nil, fmt.Errorf("error getting flow: %w", ErrEmptyID)
	}

	record := records.Record{}

	err := client.do(ctx, http.MethodGet, client.endpoint(flowsEndpoint, url.PathEscape(flowName)), nil, &record)
	if err != nil {
		return nil, fmt.Errorf("error getting flow %s: %w", flowName, err)
	}

	return record, nil
}

func (client *Client) FilterLogs(ctx context.Context, filter records.LogFilter) ([]records.Record, error) {
	logs := make([]records.Record, 0)

	err := client.do(ctx, http.MethodPost, client.endpoint(logsFilterEndpoint), filter, &logs)
	if err != nil {
		return nil, fmt.Errorf("error filtering logs: %w", err)
	}

	return logs, nil
}

func (client *Client) endpoint(parts ...string) string {
	return client.Config.BaseURL() + "/" + strings.Join(parts, "/")
}

func (client *Client) do(ctx context.Context, method, apiEndpoint string, payload any, result any) error {
	var body io.Reader

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("error marshalling request body %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiEndpoint, body)
	if err != nil {
		return fmt.Errorf("error creating http request %w", err)
	}

	req.Header.Add(authorizationHeaderKey, "Bearer "+client.Config.Token)
	req.Header.Add(contentTypeHeaderKey, jsonContentType)

	if client.Log != nil {
		client.Log.WithFields(logrus.Fields{
			"method": method,
			"url":    apiEndpoint,
		}).Debug("sending request")
	}

	resp, err := client.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("error performing http request %w", err)
	}

	defer func() {
		if resp.Body != nil {
			resp.Body.Close()
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &StatusError{Method: method, URL: apiEndpoint, StatusCode: resp.StatusCode}
	}

	if resp.Body == nil {
		return errors.New("error response body is empty")
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body %w", err)
	}

	err = json.Unmarshal(data, result)
	if err != nil {
		return fmt.Errorf("error unmarshalling http response body %w", err)
	}

	return nil
}
