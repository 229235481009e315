// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package copilot

import (
	"fmt"
	"strings"
)

// ValidationError indicates the request was rejected before any service call
// was made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Listings inside a conflict error are capped per category to keep the
// message readable.
const maxBlockersShown = 10

// BlockerGroup is one category of resources preventing a non-cascading
// delete.
type BlockerGroup struct {
	Category string
	Names    []string
	More     int
}

func newBlockerGroup(category string, names []string) BlockerGroup {
	group := BlockerGroup{Category: category, Names: names}
	if len(names) > maxBlockersShown {
		group.Names = names[:maxBlockersShown]
		group.More = len(names) - maxBlockersShown
	}

	return group
}

// ConflictError indicates a delete was refused because dependent resources
// still exist. The caller can retry with cascade enabled.
type ConflictError struct {
	Resource string
	Blockers []BlockerGroup
}

func (e *ConflictError) Error() string {
	var parts []string
	for _, group := range e.Blockers {
		part := fmt.Sprintf("%d %s (%s", len(group.Names)+group.More, group.Category,
			strings.Join(group.Names, ", "))
		if group.More > 0 {
			part += fmt.Sprintf(", +%d more", group.More)
		}
		part += ")"
		parts = append(parts, part)
	}

	return fmt.Sprintf(
		"cannot delete %s: blocked by %s. Delete the dependent resources first or pass --cascade",
		e.Resource,
		strings.Join(parts, "; "),
	)
}
