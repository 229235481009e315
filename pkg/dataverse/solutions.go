// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package dataverse

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var guidPattern = regexp.MustCompile(
	`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsGUID reports whether value has GUID form. Commands accept either GUIDs or
// unique names for solutions and publishers.
func IsGUID(value string) bool {
	return guidPattern.MatchString(value)
}

// ListSolutions returns the environment's unmanaged solutions.
func (c *Client) ListSolutions(ctx context.Context) ([]*Solution, error) {
	return newListRequestBuilder[Solution](c, "solutions").
		Filter("ismanaged eq false").
		OrderBy("friendlyname").
		Get(ctx)
}

// GetSolution resolves a solution by GUID or unique name.
func (c *Client) GetSolution(ctx context.Context, idOrName string) (*Solution, error) {
	if IsGUID(idOrName) {
		return get[Solution](ctx, c, fmt.Sprintf("solutions(%s)", idOrName))
	}

	solutions, err := newListRequestBuilder[Solution](c, "solutions").
		Filter(fmt.Sprintf("uniquename eq '%s'", escapeODataString(idOrName))).
		Get(ctx)
	if err != nil {
		return nil, err
	}

	if len(solutions) == 0 {
		return nil, fmt.Errorf("solution not found: %s", idOrName)
	}

	return solutions[0], nil
}

// CreateSolution creates an unmanaged solution and returns its id. publisher
// may be a GUID or a unique name.
func (c *Client) CreateSolution(
	ctx context.Context,
	uniqueName string,
	friendlyName string,
	publisher string,
	version string,
	description string,
) (string, error) {
	if !IsGUID(publisher) {
		record, err := c.GetPublisher(ctx, publisher)
		if err != nil {
			return "", err
		}
		publisher = record.ID
	}

	if version == "" {
		version = "1.0.0.0"
	}

	body := map[string]any{
		"uniquename":             uniqueName,
		"friendlyname":           friendlyName,
		"version":                version,
		"publisherid@odata.bind": fmt.Sprintf("/publishers(%s)", publisher),
	}

	if description != "" {
		body["description"] = description
	}

	return c.post(ctx, "solutions", body)
}

func (c *Client) DeleteSolution(ctx context.Context, idOrName string) error {
	if !IsGUID(idOrName) {
		solution, err := c.GetSolution(ctx, idOrName)
		if err != nil {
			return err
		}
		idOrName = solution.ID
	}

	return c.delete(ctx, fmt.Sprintf("solutions(%s)", idOrName))
}

// ListSolutionComponents returns the components of a solution, optionally
// filtered to one component type.
func (c *Client) ListSolutionComponents(
	ctx context.Context,
	solutionID string,
	componentType *int,
) ([]*SolutionComponent, error) {
	filter := fmt.Sprintf("_solutionid_value eq %s", solutionID)
	if componentType != nil {
		filter += fmt.Sprintf(" and componenttype eq %d", *componentType)
	}

	return newListRequestBuilder[SolutionComponent](c, "solutioncomponents").
		Filter(filter).
		Get(ctx)
}

// SolutionComponentType looks up the solution component type number for an
// entity logical name, e.g. "bot" or "connectionreference".
func (c *Client) SolutionComponentType(ctx context.Context, entityLogicalName string) (int, error) {
	type componentDefinition struct {
		ComponentType int    `json:"solutioncomponenttype"`
		Name          string `json:"name"`
	}

	definitions, err := newListRequestBuilder[componentDefinition](c, "solutioncomponentdefinitions").
		Filter(fmt.Sprintf("primaryentityname eq '%s'", escapeODataString(entityLogicalName))).
		Select("solutioncomponenttype,name,primaryentityname").
		Get(ctx)
	if err != nil {
		return 0, err
	}

	if len(definitions) == 0 {
		return 0, fmt.Errorf("could not determine component type for '%s' entity", entityLogicalName)
	}

	return definitions[0].ComponentType, nil
}

// AddSolutionComponent adds a component to an unmanaged solution via the
// AddSolutionComponent action.
func (c *Client) AddSolutionComponent(
	ctx context.Context,
	solutionUniqueName string,
	componentID string,
	componentType int,
	addRequiredComponents bool,
) error {
	_, err := c.post(ctx, "AddSolutionComponent", map[string]any{
		"ComponentId":           componentID,
		"ComponentType":         componentType,
		"SolutionUniqueName":    solutionUniqueName,
		"AddRequiredComponents": addRequiredComponents,
	})

	return err
}

// RemoveSolutionComponent removes a component from an unmanaged solution.
// The action expects the component's actual entity id (e.g. the bot id)
// passed as solutioncomponentid, not the solutioncomponent record id.
func (c *Client) RemoveSolutionComponent(
	ctx context.Context,
	solutionUniqueName string,
	componentID string,
	componentType int,
) error {
	_, err := c.post(ctx, "RemoveSolutionComponent", map[string]any{
		"SolutionComponent": map[string]any{
			"@odata.type":         "Microsoft.Dynamics.CRM.solutioncomponent",
			"solutioncomponentid": componentID,
		},
		"ComponentType":      componentType,
		"SolutionUniqueName": solutionUniqueName,
	})

	return err
}

func (c *Client) ListPublishers(ctx context.Context) ([]*Publisher, error) {
	return newListRequestBuilder[Publisher](c, "publishers").
		OrderBy("friendlyname").
		Get(ctx)
}

// GetPublisher resolves a publisher by GUID or unique name.
func (c *Client) GetPublisher(ctx context.Context, idOrName string) (*Publisher, error) {
	if IsGUID(idOrName) {
		return get[Publisher](ctx, c, fmt.Sprintf("publishers(%s)", idOrName))
	}

	publishers, err := newListRequestBuilder[Publisher](c, "publishers").
		Filter(fmt.Sprintf("uniquename eq '%s'", escapeODataString(idOrName))).
		Get(ctx)
	if err != nil {
		return nil, err
	}

	if len(publishers) == 0 {
		return nil, fmt.Errorf("publisher '%s' not found", idOrName)
	}

	return publishers[0], nil
}

// CreatePublisher creates a publisher and returns its id.
func (c *Client) CreatePublisher(
	ctx context.Context,
	uniqueName string,
	friendlyName string,
	customizationPrefix string,
	optionValuePrefix int,
	description string,
) (string, error) {
	body := map[string]any{
		"uniquename":                     uniqueName,
		"friendlyname":                   friendlyName,
		"customizationprefix":            customizationPrefix,
		"customizationoptionvalueprefix": optionValuePrefix,
	}

	if description != "" {
		body["description"] = description
	}

	return c.post(ctx, "publishers", body)
}

// DeletePublisher deletes a publisher by GUID or unique name. Publishers with
// associated solutions cannot be deleted.
func (c *Client) DeletePublisher(ctx context.Context, idOrName string) error {
	if !IsGUID(idOrName) {
		publisher, err := c.GetPublisher(ctx, idOrName)
		if err != nil {
			return err
		}
		idOrName = publisher.ID
	}

	return c.delete(ctx, fmt.Sprintf("publishers(%s)", idOrName))
}

func escapeODataString(value string) string {
	return strings.ReplaceAll(value, "'", "''")
}
