// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package connectors inspects Power Platform connector definitions. A
// connector's swagger document is parsed into an operation catalog that tool
// creation validates targets against.
package connectors

import (
	"fmt"
	"strings"
)

// Visibility values a connector operation may declare via x-ms-visibility.
const (
	VisibilityImportant = "important"
	VisibilityAdvanced  = "advanced"
	VisibilityInternal  = "internal"
)

// Parameter is one input of a connector operation.
type Parameter struct {
	Name        string
	Type        string
	Description string
	Required    bool
}

// OutputField is one flattened field of an operation's success response.
type OutputField struct {
	Name string
	Type string
}

// Operation is a single callable operation of a connector.
type Operation struct {
	OperationID string
	Path        string
	Method      string
	Summary     string
	Description string
	Visibility  string
	Inputs      []Parameter
	Outputs     []OutputField
}

// Internal reports whether the operation is hidden from makers and requires
// explicit forcing to target.
func (o *Operation) Internal() bool {
	return strings.EqualFold(o.Visibility, VisibilityInternal)
}

// ParseTarget splits a tool target of the form connectorId:operationId.
func ParseTarget(target string) (connectorID string, operationID string, err error) {
	connectorID, operationID, found := strings.Cut(target, ":")
	if !found || connectorID == "" || operationID == "" {
		return "", "", fmt.Errorf(
			"invalid target %q: expected the form connectorId:operationId", target)
	}

	return connectorID, operationID, nil
}

// OperationNotFoundError indicates the requested operation does not exist in
// the connector, with close matches when any were found.
type OperationNotFoundError struct {
	OperationID string
	Suggestions []string
}

func (e *OperationNotFoundError) Error() string {
	message := fmt.Sprintf("operation %q not found in connector", e.OperationID)
	if len(e.Suggestions) > 0 {
		message += fmt.Sprintf(". Did you mean: %s", strings.Join(e.Suggestions, ", "))
	}

	return message
}

// InternalOperationError indicates the requested operation is marked internal
// and was not explicitly forced.
type InternalOperationError struct {
	OperationID string
}

func (e *InternalOperationError) Error() string {
	return fmt.Sprintf(
		"operation %q is marked internal and is not intended for direct use. "+
			"Pass --force to target it anyway", e.OperationID)
}
