// Package migrate upgrades persisted JSON blobs through an ordered chain
// of pure transformation steps. It is shared by the remote user-state
// blob and the local settings file, each of which owns its own chain.
package migrate

// Migration upgrades a blob from TargetVersion-1 to TargetVersion.
// Transform must be pure and may assume the blob has already been
// default-filled by the caller.
type Migration struct {
	TargetVersion int
	Transform     func(blob map[string]any) map[string]any
}

// Version reads the blob's schemaVersion, tolerating the float64 that
// encoding/json produces for numbers. Absent or unreadable means 0
// (pre-versioning).
func Version(blob map[string]any) int {
	switch v := blob["schemaVersion"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// Apply walks blob from its current schemaVersion up to the highest
// TargetVersion in chain, applying each matching step. A missing
// intermediate version is skipped, not fatal: the version counter still
// advances past the gap. The returned flag reports whether the final
// schemaVersion differs from the input's.
//
// Apply never panics on nil input; a nil blob is treated as empty.
func Apply(blob map[string]any, chain []Migration) (map[string]any, bool) {
	if blob == nil {
		blob = map[string]any{}
	}

	latest := 0
	byTarget := make(map[int]Migration, len(chain))
	for _, m := range chain {
		byTarget[m.TargetVersion] = m
		if m.TargetVersion > latest {
			latest = m.TargetVersion
		}
	}

	original := Version(blob)
	for v := original; v < latest; v++ {
		m, ok := byTarget[v+1]
		if !ok {
			continue
		}
		blob = m.Transform(blob)
		blob["schemaVersion"] = m.TargetVersion
	}

	return blob, Version(blob) != original
}
