// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package dataverse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
)

// Client issues requests against a single Dataverse organization.
type Client struct {
	credential azcore.TokenCredential
	options    *azcore.ClientOptions
	pipeline   runtime.Pipeline
	baseURL    string
}

func NewClient(
	organizationURL string,
	credential azcore.TokenCredential,
	options *azcore.ClientOptions,
) *Client {
	if options == nil {
		options = &azcore.ClientOptions{}
	}

	options.PerCallPolicies = append(options.PerCallPolicies, NewODataHeadersPolicy())
	pipeline := NewPipeline(credential, organizationURL, options)

	return &Client{
		credential: credential,
		options:    options,
		pipeline:   pipeline,
		baseURL:    fmt.Sprintf("%s/api/data/%s", organizationURL, apiVersion),
	}
}

func (c *Client) createRequest(
	ctx context.Context,
	httpMethod string,
	path string,
) (*policy.Request, error) {
	req, err := runtime.NewRequest(ctx, httpMethod, fmt.Sprintf("%s/%s", c.baseURL, path))
	if err != nil {
		return nil, fmt.Errorf("failed creating request: %w", err)
	}

	return req, nil
}

// get issues a GET for path and unmarshals the JSON response into T.
func get[T any](ctx context.Context, c *Client, path string) (*T, error) {
	req, err := c.createRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}

	res, err := c.pipeline.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if !runtime.HasStatusCode(res, http.StatusOK) {
		return nil, newRequestError(res)
	}

	return readJSON[T](res)
}

// post issues a POST with a JSON body. The returned string is the id parsed
// from the OData-EntityId response header when the service creates an entity,
// empty otherwise.
func (c *Client) post(ctx context.Context, path string, body any) (string, error) {
	req, err := c.createRequest(ctx, http.MethodPost, path)
	if err != nil {
		return "", err
	}

	if body != nil {
		if err := setJSONBody(req, body); err != nil {
			return "", err
		}
	}

	res, err := c.pipeline.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if !runtime.HasStatusCode(res, http.StatusOK, http.StatusCreated, http.StatusNoContent) {
		return "", newRequestError(res)
	}

	return EntityIDFromResponse(res), nil
}

// postForResult issues a POST (typically a bound action) and unmarshals the
// JSON response into T.
func postForResult[T any](ctx context.Context, c *Client, path string, body any) (*T, error) {
	req, err := c.createRequest(ctx, http.MethodPost, path)
	if err != nil {
		return nil, err
	}

	if body != nil {
		if err := setJSONBody(req, body); err != nil {
			return nil, err
		}
	}

	res, err := c.pipeline.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if !runtime.HasStatusCode(res, http.StatusOK, http.StatusCreated) {
		return nil, newRequestError(res)
	}

	return readJSON[T](res)
}

func (c *Client) patch(ctx context.Context, path string, body any) error {
	req, err := c.createRequest(ctx, http.MethodPatch, path)
	if err != nil {
		return err
	}

	if err := setJSONBody(req, body); err != nil {
		return err
	}

	res, err := c.pipeline.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if !runtime.HasStatusCode(res, http.StatusOK, http.StatusNoContent) {
		return newRequestError(res)
	}

	return nil
}

func (c *Client) delete(ctx context.Context, path string) error {
	req, err := c.createRequest(ctx, http.MethodDelete, path)
	if err != nil {
		return err
	}

	res, err := c.pipeline.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if !runtime.HasStatusCode(res, http.StatusOK, http.StatusNoContent) {
		return newRequestError(res)
	}

	return nil
}

func setJSONBody(req *policy.Request, body any) error {
	if err := runtime.MarshalAsJSON(req, body); err != nil {
		return fmt.Errorf("marshalling request body: %w", err)
	}

	return nil
}

func readJSON[T any](res *http.Response) (*T, error) {
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	instance := new(T)
	if err := json.Unmarshal(data, instance); err != nil {
		return nil, fmt.Errorf("failed unmarshalling JSON from response: %w", err)
	}

	return instance, nil
}

var entityIDPattern = regexp.MustCompile(`\(([^)]+)\)\s*$`)

// EntityIDFromResponse extracts the created entity id from the OData-EntityId
// response header, which has the form .../{entitySet}({id}).
func EntityIDFromResponse(res *http.Response) string {
	header := res.Header.Get("OData-EntityId")
	if header == "" {
		return ""
	}

	match := entityIDPattern.FindStringSubmatch(header)
	if match == nil {
		return ""
	}

	return match[1]
}
