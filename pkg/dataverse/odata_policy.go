// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package dataverse

import (
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
)

type odataHeadersPolicy struct {
}

// Policy to ensure the OData protocol headers are set on all Web API requests.
func NewODataHeadersPolicy() policy.Policy {
	return &odataHeadersPolicy{}
}

func (p *odataHeadersPolicy) Do(req *policy.Request) (*http.Response, error) {
	headers := req.Raw().Header
	headers.Set("OData-MaxVersion", "4.0")
	headers.Set("OData-Version", "4.0")
	headers.Set("Accept", "application/json")
	headers.Set("Prefer", `odata.include-annotations="*"`)

	return req.Next()
}
