// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package powerplatform

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const maxRawErrorLength = 500

// RequestError is returned for any non-success Power Platform API response.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("power platform request failed with status %d: %s", e.StatusCode, e.Message)
}

func newRequestError(res *http.Response) error {
	body, err := io.ReadAll(res.Body)
	if err != nil {
		body = nil
	}

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
