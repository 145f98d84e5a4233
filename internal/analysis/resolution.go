package analysis

import "strings"

// DetectResolution decides whether a thread is settled. Only the
// chronologically last record is authoritative: an earlier resolved marker
// superseded by new findings must not hide them. The marker is matched as a
// literal substring, never as a pattern, so regex metacharacters inside code
// blocks cannot cause marker injection.
//
// The records must already be in chronological order and filtered to the bot
// author. An empty sequence is Unresolved.
func DetectResolution(ordered []RawComment, resolvedMarker string) Resolution {
	if len(ordered) == 0 || resolvedMarker == "" {
		return ResolutionUnresolved
	}
	last := ordered[len(ordered)-1]
	if strings.Contains(last.Body, resolvedMarker) {
		return ResolutionResolved
	}
	return ResolutionUnresolved
}
