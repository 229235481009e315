// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

type tableInput struct {
	Name  string
	Count int
}

func TestTableFormatterSlice(t *testing.T) {
	formatter := &TableFormatter{}

	var buf bytes.Buffer
	err := formatter.Format(
		[]tableInput{
			{Name: "first", Count: 1},
			{Name: "second", Count: 2},
		},
		&buf,
		TableFormatterOptions{
			Columns: []Column{
				{Heading: "NAME", ValueTemplate: "{{.Name}}"},
				{Heading: "COUNT", ValueTemplate: "{{.Count}}"},
			},
		},
	)
	require.NoError(t, err)

	require.Equal(t, "NAME    COUNT\nfirst   1\nsecond  2\n", buf.String())
}

func TestTableFormatterSingleStruct(t *testing.T) {
	formatter := &TableFormatter{}

	var buf bytes.Buffer
	err := formatter.Format(
		tableInput{Name: "only", Count: 7},
		&buf,
		TableFormatterOptions{
			Columns: []Column{
				{Heading: "NAME", ValueTemplate: "{{.Name}}"},
			},
		},
	)
	require.NoError(t, err)
	require.Equal(t, "NAME\nonly\n", buf.String())
}

func TestTableFormatterRequiresOptions(t *testing.T) {
	formatter := &TableFormatter{}

	var buf bytes.Buffer
	err := formatter.Format([]tableInput{}, &buf, nil)
	require.Error(t, err)
}
