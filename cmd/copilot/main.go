// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/fatih/color"

	"github.com/microsoft/copilot-studio-cli/internal/cmd"
	"github.com/microsoft/copilot-studio-cli/pkg/dataverse"
	"github.com/microsoft/copilot-studio-cli/pkg/powerplatform"
)

func init() {
	forceColorVal, has := os.LookupEnv("FORCE_COLOR")
	if has && forceColorVal == "1" {
		color.NoColor = false
	}
}

func main() {
	ctx := context.Background()

	rootCmd := cmd.NewRootCommand()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		color.Red("Error: %v", err)
		os.Exit(exitCode(err))
	}
}

// exitCode distinguishes authentication failures (2) from everything else (1)
// so scripts can tell "sign in again" apart from a real error.
func exitCode(err error) int {
	var dataverseErr *dataverse.RequestError
	if errors.As(err, &dataverseErr) && dataverseErr.StatusCode == http.StatusUnauthorized {
		return 2
	}

	var powerErr *powerplatform.RequestError
	if errors.As(err, &powerErr) && powerErr.StatusCode == http.StatusUnauthorized {
		return 2
	}

	return 1
}
