// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package output

import (
	"io"
)

// NoneFormatter discards structured output. Commands still report status text
// on stderr.
type NoneFormatter struct {
}

func (f *NoneFormatter) Kind() Format {
	return NoneFormat
}

func (f *NoneFormatter) Format(obj interface{}, writer io.Writer, opts interface{}) error {
	return nil
}

var _ Formatter = (*NoneFormatter)(nil)
