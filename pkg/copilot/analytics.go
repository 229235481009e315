// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package copilot

import "fmt"

// TelemetryQuery builds the KQL for an agent's telemetry. The full query
// unions the tables an agent writes to and tags each row with its source
// table; eventsOnly restricts it to customEvents, which is cheaper.
func TelemetryQuery(eventsOnly bool, limit int) string {
	if limit <= 0 {
		limit = 500
	}

	if eventsOnly {
		return fmt.Sprintf(
			"customEvents | extend _table = \"customEvents\" | order by timestamp desc | take %d",
			limit,
		)
	}

	return fmt.Sprintf(
		`union isfuzzy=true (customEvents | extend _table = "customEvents"), `+
			`(traces | extend _table = "traces"), `+
			`(requests | extend _table = "requests") `+
			`| order by timestamp desc | take %d`,
		limit,
	)
}
