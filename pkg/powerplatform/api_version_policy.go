// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package powerplatform

import (
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
)

const (
	apiVersionName    = "api-version"
	defaultApiVersion = "2016-11-01"
)

type apiVersionPolicy struct {
	apiVersion string
}

// Policy to ensure the api-version query parameter is set on all requests.
func NewApiVersionPolicy(apiVersion *string) policy.Policy {
	version := defaultApiVersion
	if apiVersion != nil {
		version = *apiVersion
	}

	return &apiVersionPolicy{
		apiVersion: version,
	}
}

func (p *apiVersionPolicy) Do(req *policy.Request) (*http.Response, error) {
	rawRequest := req.Raw()
	queryString := rawRequest.URL.Query()
	queryString.Set(apiVersionName, p.apiVersion)
	rawRequest.URL.RawQuery = queryString.Encode()

	return req.Next()
}
