// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package connectors

import (
	"fmt"
	"sort"
	"strings"
)

// Fields deeper than this are not flattened into the output list; a nested
// object at the limit contributes its name only.
const maxOutputDepth = 2

const maxSuggestions = 5

// Catalog is the set of operations a connector exposes, extracted from its
// swagger document.
type Catalog struct {
	operations  []*Operation
	definitions map[string]any
}

// ParseSwagger builds an operation catalog from a connector's swagger
// document.
func ParseSwagger(swagger map[string]any) (*Catalog, error) {
	paths, ok := swagger["paths"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("connector swagger has no paths")
	}

	catalog := &Catalog{}
	if definitions, ok := swagger["definitions"].(map[string]any); ok {
		catalog.definitions = definitions
	}

	for path, pathValue := range paths {
		pathItem, ok := pathValue.(map[string]any)
		if !ok {
			continue
		}

		for method, methodValue := range pathItem {
			operation, ok := methodValue.(map[string]any)
			if !ok {
				continue
			}

			operationID, _ := operation["operationId"].(string)
			if operationID == "" {
				continue
			}

			summary, _ := operation["summary"].(string)
			description, _ := operation["description"].(string)
			visibility, _ := operation["x-ms-visibility"].(string)

			catalog.operations = append(catalog.operations, &Operation{
				OperationID: operationID,
				Path:        path,
				Method:      strings.ToUpper(method),
				Summary:     summary,
				Description: description,
				Visibility:  visibility,
				Inputs:      catalog.parseInputs(operation),
				Outputs:     catalog.parseOutputs(operation),
			})
		}
	}

	sort.Slice(catalog.operations, func(i, j int) bool {
		return catalog.operations[i].OperationID < catalog.operations[j].OperationID
	})

	return catalog, nil
}

// Operations returns all operations sorted by operation id.
func (c *Catalog) Operations() []*Operation {
	return c.operations
}

// Find returns the operation with the given id, matched case-insensitively,
// or nil.
func (c *Catalog) Find(operationID string) *Operation {
	for _, operation := range c.operations {
		if strings.EqualFold(operation.OperationID, operationID) {
			return operation
		}
	}

	return nil
}

// Validate resolves operationID to a catalog operation. Unknown ids fail with
// close-match suggestions; internal operations fail unless force is set.
func (c *Catalog) Validate(operationID string, force bool) (*Operation, error) {
	operation := c.Find(operationID)
	if operation == nil {
		return nil, &OperationNotFoundError{
			OperationID: operationID,
			Suggestions: c.Suggest(operationID),
		}
	}

	if operation.Internal() && !force {
		return nil, &InternalOperationError{OperationID: operation.OperationID}
	}

	return operation, nil
}

// Suggest returns operation ids resembling the given one: a case-insensitive
// substring match in either direction after stripping underscores.
func (c *Catalog) Suggest(operationID string) []string {
	needle := normalizeForMatch(operationID)
	if needle == "" {
		return nil
	}

	var suggestions []string
	for _, operation := range c.operations {
		candidate := normalizeForMatch(operation.OperationID)
		if strings.Contains(candidate, needle) || strings.Contains(needle, candidate) {
			suggestions = append(suggestions, operation.OperationID)
			if len(suggestions) == maxSuggestions {
				break
			}
		}
	}

	return suggestions
}

func normalizeForMatch(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "_", ""))
}

// parseInputs flattens an operation's parameters. Body parameters contribute
// their schema's top level properties; path, query and header parameters
// contribute themselves.
func (c *Catalog) parseInputs(operation map[string]any) []Parameter {
	rawParams, _ := operation["parameters"].([]any)

	var inputs []Parameter
	for _, rawParam := range rawParams {
		param, ok := rawParam.(map[string]any)
		if !ok {
			continue
		}

		in, _ := param["in"].(string)
		if in == "body" {
			schema := c.resolveRef(param["schema"])
			inputs = append(inputs, c.bodyInputs(schema)...)
			continue
		}

		name, _ := param["name"].(string)
		if name == "" {
			continue
		}

		paramType, _ := param["type"].(string)
		description, _ := param["description"].(string)
		required, _ := param["required"].(bool)

		inputs = append(inputs, Parameter{
			Name:        name,
			Type:        paramType,
			Description: description,
			Required:    required,
		})
	}

	return inputs
}

func (c *Catalog) bodyInputs(schema map[string]any) []Parameter {
	if schema == nil {
		return nil
	}

	properties, _ := schema["properties"].(map[string]any)
	requiredNames := map[string]bool{}
	if rawRequired, ok := schema["required"].([]any); ok {
		for _, name := range rawRequired {
			if s, ok := name.(string); ok {
				requiredNames[s] = true
			}
		}
	}

	var inputs []Parameter
	for _, name := range sortedPropertyNames(properties) {
		property := c.resolveRef(properties[name])
		if property == nil {
			continue
		}

		propertyType, _ := property["type"].(string)
		description, _ := property["description"].(string)

		inputs = append(inputs, Parameter{
			Name:        name,
			Type:        propertyType,
			Description: description,
			Required:    requiredNames[name],
		})
	}

	return inputs
}

// parseOutputs walks the success response schema, flattening nested objects
// into dot-notation names. Arrays contribute their name only.
func (c *Catalog) parseOutputs(operation map[string]any) []OutputField {
	responses, _ := operation["responses"].(map[string]any)
	schema := c.successSchema(responses)
	if schema == nil {
		return nil
	}

	var outputs []OutputField
	c.walkOutputs(schema, "", 0, &outputs)

	return outputs
}

func (c *Catalog) successSchema(responses map[string]any) map[string]any {
	for _, status := range []string{"200", "201", "202", "default"} {
		response, ok := responses[status].(map[string]any)
		if !ok {
			continue
		}

		if schema := c.resolveRef(response["schema"]); schema != nil {
			return schema
		}
	}

	return nil
}

func (c *Catalog) walkOutputs(schema map[string]any, prefix string, depth int, outputs *[]OutputField) {
	properties, _ := schema["properties"].(map[string]any)

	for _, name := range sortedPropertyNames(properties) {
		property := c.resolveRef(properties[name])
		if property == nil {
			continue
		}

		qualified := name
		if prefix != "" {
			qualified = prefix + "." + name
		}

		propertyType, _ := property["type"].(string)
		switch {
		case propertyType == "array":
			*outputs = append(*outputs, OutputField{Name: qualified, Type: "array"})
		case hasProperties(property) && depth < maxOutputDepth:
			c.walkOutputs(property, qualified, depth+1, outputs)
		case hasProperties(property):
			*outputs = append(*outputs, OutputField{Name: qualified, Type: "object"})
		default:
			*outputs = append(*outputs, OutputField{Name: qualified, Type: propertyType})
		}
	}
}

// resolveRef follows a local #/definitions/Name reference. Values that are
// not references pass through untouched.
func (c *Catalog) resolveRef(value any) map[string]any {
	schema, ok := value.(map[string]any)
	if !ok {
		return nil
	}

	ref, _ := schema["$ref"].(string)
	if ref == "" {
		return schema
	}

	name, found := strings.CutPrefix(ref, "#/definitions/")
	if !found {
		return schema
	}

	resolved, ok := c.definitions[name].(map[string]any)
	if !ok {
		return schema
	}

	return resolved
}

func hasProperties(schema map[string]any) bool {
	properties, ok := schema["properties"].(map[string]any)
	return ok && len(properties) > 0
}

func sortedPropertyNames(properties map[string]any) []string {
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
