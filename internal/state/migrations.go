package state

import "github.com/wlboard/wlboard/internal/migrate"

// migrations upgrades remote user-state blobs written by older builds.
// Target versions are contiguous from 1; model.StateSchemaVersion must
// match the highest entry.
var migrations = []migrate.Migration{
	{
		// Early builds kept timers under a top-level "tracking" key.
		TargetVersion: 1,
		Transform: func(blob map[string]any) map[string]any {
			if legacy, ok := blob["tracking"].(map[string]any); ok {
				tracked, _ := blob["trackedTickets"].(map[string]any)
				if tracked == nil {
					tracked = map[string]any{}
				}
				for id, t := range legacy {
					if _, exists := tracked[id]; !exists {
						tracked[id] = t
					}
				}
				blob["trackedTickets"] = tracked
				delete(blob, "tracking")
			}
			return blob
		},
	},
	{
		// Stars used to be stored as objects ({"key": "AB-1"}); only the
		// keys survive.
		TargetVersion: 2,
		Transform: func(blob map[string]any) map[string]any {
			legacy, ok := blob["starredIssues"].([]any)
			if !ok {
				return blob
			}
			keys, _ := blob["starredIssueKeys"].([]any)
			seen := map[string]bool{}
			for _, k := range keys {
				if s, ok := k.(string); ok {
					seen[s] = true
				}
			}
			for _, item := range legacy {
				obj, ok := item.(map[string]any)
				if !ok {
					continue
				}
				if key, ok := obj["key"].(string); ok && !seen[key] {
					keys = append(keys, key)
					seen[key] = true
				}
			}
			blob["starredIssueKeys"] = keys
			delete(blob, "starredIssues")
			return blob
		},
	},
}

// fillDefaults substitutes the documented empty shapes for missing
// fields before migration begins.
func fillDefaults(blob map[string]any) map[string]any {
	if blob == nil {
		blob = map[string]any{}
	}
	if _, ok := blob["trackedTickets"].(map[string]any); !ok {
		blob["trackedTickets"] = map[string]any{}
	}
	if _, ok := blob["starredIssueKeys"].([]any); !ok {
		blob["starredIssueKeys"] = []any{}
	}
	return blob
}
