// Package transcript implements the pure, in-memory transcript operations
// of the post-processing pipeline: chronological merging of per-track
// segments and sliding-window chunking for embedding.
package transcript

import (
	"fmt"
	"sort"
	"strings"
)

// RawSegment is the pre-persistence form of an utterance produced by the
// transcription stage.
type RawSegment struct {
	Speaker string
	Text    string
	Start   float64
	End     float64
}

// Merge combines per-track segments into one chronologically ordered
// transcript rendering and the sorted set of speaker names.
//
// Segments are stable-sorted by start time: equal-start segments keep
// their relative input order so simultaneous speech is never reordered
// or dropped. Each segment renders as "[MM:SS] Speaker: text".
func Merge(segments []RawSegment) (string, []string) {
	if len(segments) == 0 {
		return "", []string{}
	}

	sorted := make([]RawSegment, len(segments))
	copy(sorted, segments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	lines := make([]string, 0, len(sorted))
	speakerSet := make(map[string]struct{})

	for _, seg := range sorted {
		speakerSet[seg.Speaker] = struct{}{}
		minutes := int(seg.Start) / 60
		seconds := int(seg.Start) % 60
		lines = append(lines, fmt.Sprintf("[%02d:%02d] %s: %s", minutes, seconds, seg.Speaker, seg.Text))
	}

	speakers := make([]string, 0, len(speakerSet))
	for name := range speakerSet {
		speakers = append(speakers, name)
	}
	sort.Strings(speakers)

	return strings.Join(lines, "\n"), speakers
}
