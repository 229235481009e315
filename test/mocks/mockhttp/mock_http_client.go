// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package mockhttp provides an azcore transport that matches requests against
// registered predicates, for testing SDK clients without network access.
package mockhttp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type MockHttpClient struct {
	expressions []*HttpExpression
}

type HttpExpression struct {
	http        *MockHttpClient
	predicateFn RequestPredicate
	statusCode  int
	body        string
	headers     http.Header
	responseFn  RespondFn
	error       error
}

type RequestPredicate func(request *http.Request) bool
type RespondFn func(request *http.Request) (*http.Response, error)

func NewMockHttpClient() *MockHttpClient {
	return &MockHttpClient{
		expressions: []*HttpExpression{},
	}
}

// Do implements policy.Transporter. The first matching expression wins; an
// unmatched request panics so tests fail loudly. A fresh response body is
// built per call, so an expression can serve repeated requests.
func (c *MockHttpClient) Do(req *http.Request) (*http.Response, error) {
	var match *HttpExpression

	for _, expr := range c.expressions {
		if expr.predicateFn(req) {
			match = expr
			break
		}
	}

	if match == nil {
		panic(fmt.Sprintf("No mock found for request: '%s %s'", req.Method, req.URL))
	}

	if match.responseFn != nil {
		return match.responseFn(req)
	}

	if match.error != nil {
		return nil, match.error
	}

	response := NewResponse(match.statusCode, match.body, match.headers)
	response.Request = req
	return response, nil
}

func (c *MockHttpClient) When(predicate RequestPredicate) *HttpExpression {
	expr := HttpExpression{
		http:        c,
		predicateFn: predicate,
	}

	c.expressions = append(c.expressions, &expr)
	return &expr
}

func (c *MockHttpClient) Reset() {
	c.expressions = []*HttpExpression{}
}

func (e *HttpExpression) Respond(statusCode int, body string) *MockHttpClient {
	e.statusCode = statusCode
	e.body = body
	return e.http
}

// RespondJSON marshals obj as the response body.
func (e *HttpExpression) RespondJSON(statusCode int, obj any) *MockHttpClient {
	raw, err := json.Marshal(obj)
	if err != nil {
		panic(err)
	}

	e.statusCode = statusCode
	e.body = string(raw)
	return e.http
}

// RespondWithHeaders responds with the given headers, e.g. OData-EntityId.
func (e *HttpExpression) RespondWithHeaders(statusCode int, body string, headers http.Header) *MockHttpClient {
	e.statusCode = statusCode
	e.body = body
	e.headers = headers
	return e.http
}

func (e *HttpExpression) RespondFn(responseFn RespondFn) *MockHttpClient {
	e.responseFn = responseFn
	return e.http
}

func (e *HttpExpression) SetError(err error) *MockHttpClient {
	e.error = err
	return e.http
}

func NewResponse(statusCode int, body string, headers http.Header) *http.Response {
	merged := http.Header{}
	for key, values := range headers {
		for _, value := range values {
			merged.Add(key, value)
		}
	}

	return &http.Response{
		StatusCode: statusCode,
		Header:     merged,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
	}
}
