// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package appinsights queries Application Insights telemetry for agents that
// have telemetry export configured.
package appinsights

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/cloud"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
)

const HostName = "api.applicationinsights.io"

var ServiceConfig cloud.ServiceConfiguration = cloud.ServiceConfiguration{
	Audience: "https://api.applicationinsights.io",
}

// QueryResult is the Application Insights query response shape.
type QueryResult struct {
	Tables []Table `json:"tables"`
}

type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

type Column struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// Client issues KQL queries against the Application Insights REST API.
type Client struct {
	credential azcore.TokenCredential
	options    *azcore.ClientOptions
	pipeline   runtime.Pipeline
}

func NewClient(credential azcore.TokenCredential, options *azcore.ClientOptions) *Client {
	if options == nil {
		options = &azcore.ClientOptions{}
	}

	scopes := []string{
		fmt.Sprintf("%s/.default", ServiceConfig.Audience),
	}

	authPolicy := runtime.NewBearerTokenPolicy(credential, scopes, nil)
	pipeline := runtime.NewPipeline("appinsights", "1.0.0", runtime.PipelineOptions{
		PerRetry: []policy.Policy{authPolicy},
	}, options)

	return &Client{
		credential: credential,
		options:    options,
		pipeline:   pipeline,
	}
}

// Query runs a KQL query over the app's telemetry within an ISO 8601
// timespan. A query against a table the app has never written to returns an
// empty result rather than an error.
func (c *Client) Query(ctx context.Context, appID string, query string, timespan string) (*QueryResult, error) {
	req, err := runtime.NewRequest(ctx, http.MethodPost,
		fmt.Sprintf("https://%s/v1/apps/%s/query", HostName, appID))
	if err != nil {
		return nil, fmt.Errorf("failed creating request: %w", err)
	}

	body := map[string]string{
		"query": query,
	}
	if timespan != "" {
		body["timespan"] = timespan
	}

	if err := runtime.MarshalAsJSON(req, body); err != nil {
		return nil, fmt.Errorf("marshalling request body: %w", err)
	}

	res, err := c.pipeline.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if !runtime.HasStatusCode(res, http.StatusOK) {
		raw, _ := io.ReadAll(res.Body)

		if isMissingTableError(raw) {
			return &QueryResult{Tables: []Table{}}, nil
		}

		return nil, newQueryError(res.StatusCode, raw)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	result := &QueryResult{}
	if err := json.Unmarshal(data, result); err != nil {
		return nil, fmt.Errorf("failed unmarshalling JSON from response: %w", err)
	}

	return result, nil
}

// QueryError is returned for query failures other than the benign
// missing-table case.
type QueryError struct {
	StatusCode int
	Message    string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("app insights query failed with status %d: %s", e.StatusCode, e.Message)
}

func newQueryError(statusCode int, body []byte) error {
	var apiError struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	message := ""
	if err := json.Unmarshal(body, &apiError); err == nil {
		message = apiError.Error.Message
	}

	if message == "" {
		if len(body) > 500 {
			body = body[:500]
		}
		message = string(body)
	}

	return &QueryError{StatusCode: statusCode, Message: message}
}

// Apps that have never emitted a given telemetry type fail name resolution on
// that table; treat it the same as an empty table.
func isMissingTableError(body []byte) bool {
	text := strings.ToLower(string(body))
	return strings.Contains(text, "failed to resolve table") ||
		strings.Contains(text, "could not be resolved") ||
		strings.Contains(text, "semanticerror")
}

var timespanPattern = regexp.MustCompile(`^(\d+)([hd])$`)

// ConvertTimespan converts a user-friendly timespan like 24h or 7d to an ISO
// 8601 duration (PT24H, P7D). Values already in ISO form pass through.
func ConvertTimespan(timespan string) (string, error) {
	timespan = strings.ToLower(strings.TrimSpace(timespan))

	if strings.HasPrefix(timespan, "p") {
		return strings.ToUpper(timespan), nil
	}

	match := timespanPattern.FindStringSubmatch(timespan)
	if match == nil {
		return "", fmt.Errorf("invalid timespan format: %s, use format like '24h' or '7d'", timespan)
	}

	value, err := strconv.Atoi(match[1])
	if err != nil {
		return "", fmt.Errorf("invalid timespan format: %s", timespan)
	}

	if match[2] == "h" {
		return fmt.Sprintf("PT%dH", value), nil
	}

	return fmt.Sprintf("P%dD", value), nil
}
