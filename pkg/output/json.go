// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package output

import (
	"encoding/json"
	"io"
)

// JsonFormatter renders the command's result as indented JSON, one document
// per invocation. Entity structs carry the Dataverse/Power Platform field
// names in their json tags, so --output json mirrors the wire shapes.
type JsonFormatter struct {
}

func (f *JsonFormatter) Kind() Format {
	return JsonFormat
}

func (f *JsonFormatter) Format(obj interface{}, writer io.Writer, _ interface{}) error {
	b, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return err
	}

	if _, err := writer.Write(b); err != nil {
		return err
	}

	_, err = writer.Write([]byte("\n"))

	return err
}

var _ Formatter = (*JsonFormatter)(nil)
