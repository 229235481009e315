// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package dataverse

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Error body size cap when the service returns something other than the
// standard OData error document.
const maxRawErrorLength = 500

// RequestError is returned for any non-success Web API response. Message is
// the OData error message when the body carries one, otherwise the raw body
// truncated to 500 bytes.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("dataverse request failed with status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a RequestError for a 404 response.
func IsNotFound(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is a RequestError for a 401 response.
func IsUnauthorized(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusUnauthorized
}

// newRequestError translates a failed response into a RequestError, consuming
// the response body.
func newRequestError(res *http.Response) error {
	body, err := io.ReadAll(res.Body)
	if err != nil {
		body = nil
	}

	var odataError struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	message := ""
	if err := json.Unmarshal(body, &odataError); err == nil {
		message = odataError.Error.Message
	}

	if message == "" {
		if len(body) > maxRawErrorLength {
			body = body[:maxRawErrorLength]
		}
		message = string(body)
	}

	return &RequestError{
		StatusCode: res.StatusCode,
		Message:    message,
	}
}
