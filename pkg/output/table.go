// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package output

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"text/tabwriter"
	"text/template"
)

type TableFormatter struct {
}

func (f *TableFormatter) Kind() Format {
	return TableFormat
}

// Options for formatting in table format. Rows are generated by evaluating
// each column's value template against the elements of the formatted slice.
type TableFormatterOptions struct {
	Columns []Column
}

type Column struct {
	Heading       string
	ValueTemplate string
}

func (f *TableFormatter) Format(obj interface{}, writer io.Writer, opts interface{}) error {
	options, ok := opts.(TableFormatterOptions)
	if !ok {
		return errors.New("TableFormatter can only be used with TableFormatterOptions")
	}

	if len(options.Columns) == 0 {
		return errors.New("no columns were defined, table format is not supported for this command")
	}

	rows, err := convertToSlice(obj)
	if err != nil {
		return err
	}

	headings := []string{}
	templates := []*template.Template{}

	for _, column := range options.Columns {
		headings = append(headings, column.Heading)

		tmpl, err := template.New(column.Heading).Parse(column.ValueTemplate)
		if err != nil {
			return fmt.Errorf("parsing template for column %s: %w", column.Heading, err)
		}

		templates = append(templates, tmpl)
	}

	tabs := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)

	_, err = tabs.Write([]byte(strings.Join(headings, "\t") + "\n"))
	if err != nil {
		return err
	}

	for _, row := range rows {
		values := []string{}

		for _, tmpl := range templates {
			var sb strings.Builder
			if err := tmpl.Execute(&sb, row); err != nil {
				return err
			}

			values = append(values, sb.String())
		}

		_, err = tabs.Write([]byte(strings.Join(values, "\t") + "\n"))
		if err != nil {
			return err
		}
	}

	return tabs.Flush()
}

// convertToSlice normalizes the formatted object to a slice of rows. A single
// struct or map formats as a one-row table.
func convertToSlice(obj interface{}) ([]interface{}, error) {
	if obj == nil {
		return nil, errors.New("value is nil")
	}

	value := reflect.ValueOf(obj)
	for value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil, errors.New("value is nil")
		}

		value = value.Elem()
	}

	switch value.Kind() {
	case reflect.Slice, reflect.Array:
		rows := make([]interface{}, 0, value.Len())
		for i := 0; i < value.Len(); i++ {
			rows = append(rows, value.Index(i).Interface())
		}

		return rows, nil
	case reflect.Struct, reflect.Map:
		return []interface{}{value.Interface()}, nil
	default:
		return nil, fmt.Errorf("unsupported kind for table format: %s", value.Kind())
	}
}

var _ Formatter = (*TableFormatter)(nil)
