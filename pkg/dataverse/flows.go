// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package dataverse

import (
	"context"
	"fmt"
)

// Workflow categories as stored on the workflow entity.
const (
	WorkflowCategoryAutomated       = 0
	WorkflowCategoryInstant         = 5
	WorkflowCategoryBusinessProcess = 6
)

// WorkflowCategoryName maps a workflow category to its display name.
func WorkflowCategoryName(category int) string {
	switch category {
	case WorkflowCategoryAutomated:
		return "Automated"
	case WorkflowCategoryInstant:
		return "Instant"
	case WorkflowCategoryBusinessProcess:
		return "Business Process"
	default:
		return fmt.Sprintf("Category %d", category)
	}
}

// ListFlows returns the environment's modern cloud flows.
func (c *Client) ListFlows(ctx context.Context) ([]*Workflow, error) {
	return newListRequestBuilder[Workflow](c, "workflows").
		Filter("category eq 5 or category eq 0").
		Select("workflowid,name,category,statecode,description,createdon,modifiedon").
		OrderBy("name").
		Get(ctx)
}

func (c *Client) GetFlow(ctx context.Context, flowID string) (*Workflow, error) {
	return get[Workflow](ctx, c, fmt.Sprintf("workflows(%s)", flowID))
}
