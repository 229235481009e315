// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package dialog

import (
	"fmt"
	"strings"
)

// SynthesizeTopic renders a minimal topic document: an adaptive dialog that
// fires on any of the trigger phrases and replies with a single message.
func SynthesizeTopic(name string, triggerPhrases []string, message string) (string, error) {
	if len(triggerPhrases) == 0 {
		return "", fmt.Errorf("at least one trigger phrase is required")
	}

	if message == "" {
		return "", fmt.Errorf("a response message is required")
	}

	var sb strings.Builder
	sb.WriteString("kind: AdaptiveDialog\n")
	if name != "" {
		fmt.Fprintf(&sb, "modelDisplayName: %s\n", quote(name))
	}
	sb.WriteString("beginDialog:\n")
	sb.WriteString("  kind: OnRecognizedIntent\n")
	sb.WriteString("  id: main\n")
	sb.WriteString("  intent:\n")
	sb.WriteString("    triggerQueries:\n")
	for _, phrase := range triggerPhrases {
		fmt.Fprintf(&sb, "      - %s\n", quote(phrase))
	}
	sb.WriteString("  actions:\n")
	sb.WriteString("    - kind: SendActivity\n")
	sb.WriteString("      id: sendMessage\n")
	fmt.Fprintf(&sb, "      activity: %s\n", quote(message))

	return sb.String(), nil
}
