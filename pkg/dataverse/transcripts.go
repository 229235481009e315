// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package dataverse

import (
	"context"
	"fmt"
)

// ListTranscripts returns conversation transcripts, newest first, optionally
// filtered to one agent. Content is not selected on list; use GetTranscript.
func (c *Client) ListTranscripts(ctx context.Context, botID string, limit int) ([]*ConversationTranscript, error) {
	if limit <= 0 {
		limit = 20
	}

	builder := newListRequestBuilder[ConversationTranscript](c, "conversationtranscripts").
		Select("conversationtranscriptid,name,conversationstarttime,_bot_conversationtranscriptid_value").
		OrderBy("conversationstarttime desc").
		Top(limit)

	if botID != "" {
		builder = builder.Filter(fmt.Sprintf("_bot_conversationtranscriptid_value eq %s", botID))
	}

	return builder.Get(ctx)
}

// GetTranscript returns a single transcript including its full content.
func (c *Client) GetTranscript(ctx context.Context, transcriptID string) (*ConversationTranscript, error) {
	return get[ConversationTranscript](ctx, c, fmt.Sprintf("conversationtranscripts(%s)", transcriptID))
}
