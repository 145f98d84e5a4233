package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func botComment(id, body string, created time.Time) RawComment {
	return RawComment{
		ID:        id,
		Author:    DefaultBotAuthor,
		Body:      body,
		CreatedAt: created,
	}
}

func TestDetectResolution(t *testing.T) {
	marker := DefaultMarkers().ResolvedMarker
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		bodies []string
		want   Resolution
	}{
		{
			name:   "empty thread",
			bodies: nil,
			want:   ResolutionUnresolved,
		},
		{
			name:   "single unresolved",
			bodies: []string{"please fix the nil check"},
			want:   ResolutionUnresolved,
		},
		{
			name:   "marker in last reply",
			bodies: []string{"please fix the nil check", "done", marker},
			want:   ResolutionResolved,
		},
		{
			name:   "marker embedded in last reply",
			bodies: []string{"please fix", "looks good now " + marker + " thanks"},
			want:   ResolutionResolved,
		},
		{
			// An earlier marker superseded by new findings must not hide them.
			name:   "marker only in second to last",
			bodies: []string{"please fix", marker, "actually one more issue here"},
			want:   ResolutionUnresolved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var records []RawComment
			for i, body := range tt.bodies {
				records = append(records, botComment(
					"c"+string(rune('a'+i)),
					body,
					base.Add(time.Duration(i)*time.Minute),
				))
			}
			assert.Equal(t, tt.want, DetectResolution(records, marker))
		})
	}
}

func TestDetectResolutionLiteralMatch(t *testing.T) {
	// The marker is matched literally, so regex metacharacters in a custom
	// marker cannot misfire.
	records := []RawComment{botComment("c1", "text with [RESOLVED].* inside", time.Now())}
	assert.Equal(t, ResolutionResolved, DetectResolution(records, "[RESOLVED].*"))
	assert.Equal(t, ResolutionUnresolved, DetectResolution(records, "[RESOLVED]X"))
}

func TestDetectResolutionEmptyMarker(t *testing.T) {
	records := []RawComment{botComment("c1", "anything", time.Now())}
	assert.Equal(t, ResolutionUnresolved, DetectResolution(records, ""))
}
