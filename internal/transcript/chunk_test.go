package transcript

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkSegments_Empty(t *testing.T) {
	assert.Nil(t, ChunkSegments(nil, DefaultChunkConfig()))
	assert.Nil(t, ChunkSegments([]RawSegment{{Speaker: "A", Text: "   ", Start: 0}}, DefaultChunkConfig()))
}

func TestChunkSegments_SingleChunkWhenShort(t *testing.T) {
	chunks := ChunkSegments([]RawSegment{
		{Speaker: "A", Text: "hello team", Start: 0, End: 5},
		{Speaker: "B", Text: "hi there", Start: 2, End: 6},
	}, ChunkConfig{ChunkSize: 500, Overlap: 50})

	if assert.Len(t, chunks, 1) {
		assert.Equal(t, "hello team hi there", chunks[0].Text)
		assert.Equal(t, "A, B", chunks[0].Speaker)
		assert.Equal(t, 0.0, chunks[0].Start)
		assert.Equal(t, 2.0, chunks[0].End)
	}
}

func TestChunkSegments_SingleSpeakerLabel(t *testing.T) {
	chunks := ChunkSegments([]RawSegment{
		{Speaker: "Alice", Text: "one two three", Start: 0, End: 2},
	}, DefaultChunkConfig())

	if assert.Len(t, chunks, 1) {
		// One speaker: the bare name, not a list.
		assert.Equal(t, "Alice", chunks[0].Speaker)
	}
}

func TestChunkSegments_OverlapAndCoverage(t *testing.T) {
	// 10 words, window 4, overlap 1 → step 3 → windows at 0,3,6,9.
	words := make([]string, 10)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	seg := RawSegment{Speaker: "A", Text: strings.Join(words, " "), Start: 0, End: 9}

	chunks := ChunkSegments([]RawSegment{seg}, ChunkConfig{ChunkSize: 4, Overlap: 1})

	assert.Len(t, chunks, 4)
	assert.Equal(t, "w0 w1 w2 w3", chunks[0].Text)
	assert.Equal(t, "w3 w4 w5 w6", chunks[1].Text)
	assert.Equal(t, "w6 w7 w8 w9", chunks[2].Text)
	assert.Equal(t, "w9", chunks[3].Text)

	// Every word appears in at least one chunk; counting overlapped words
	// once reconstructs the full sequence.
	seen := make(map[string]bool)
	for _, c := range chunks {
		for _, w := range strings.Fields(c.Text) {
			seen[w] = true
		}
	}
	assert.Len(t, seen, 10)
}

func TestChunkSegments_MultiSpeakerWindowSortedUnique(t *testing.T) {
	chunks := ChunkSegments([]RawSegment{
		{Speaker: "Zoe", Text: "alpha beta", Start: 0, End: 1},
		{Speaker: "Ann", Text: "gamma delta", Start: 1, End: 2},
		{Speaker: "Zoe", Text: "epsilon", Start: 2, End: 3},
	}, ChunkConfig{ChunkSize: 10, Overlap: 2})

	if assert.Len(t, chunks, 1) {
		assert.Equal(t, "Ann, Zoe", chunks[0].Speaker)
	}
}

func TestChunkSegments_TimeSpanFromWordStarts(t *testing.T) {
	chunks := ChunkSegments([]RawSegment{
		{Speaker: "A", Text: "one two", Start: 5, End: 8},
		{Speaker: "B", Text: "three four", Start: 12, End: 15},
	}, ChunkConfig{ChunkSize: 3, Overlap: 1})

	// Windows: [one two three], [three four].
	assert.Len(t, chunks, 2)
	assert.Equal(t, 5.0, chunks[0].Start)
	assert.Equal(t, 12.0, chunks[0].End)
	assert.Equal(t, 12.0, chunks[1].Start)
	assert.Equal(t, 12.0, chunks[1].End)
}

func TestChunkSegments_InvalidConfigClamped(t *testing.T) {
	words := make([]string, 600)
	for i := range words {
		words[i] = "x"
	}
	seg := RawSegment{Speaker: "A", Text: strings.Join(words, " "), Start: 0}

	// Overlap >= ChunkSize must not loop forever; the defaults apply.
	chunks := ChunkSegments([]RawSegment{seg}, ChunkConfig{ChunkSize: 10, Overlap: 10})

	assert.Len(t, chunks, 2)
	assert.Len(t, strings.Fields(chunks[0].Text), 500)
}

func TestChunkSegments_SortsByStartBeforeFlattening(t *testing.T) {
	chunks := ChunkSegments([]RawSegment{
		{Speaker: "B", Text: "later words", Start: 30, End: 31},
		{Speaker: "A", Text: "early words", Start: 1, End: 2},
	}, DefaultChunkConfig())

	if assert.Len(t, chunks, 1) {
		assert.Equal(t, "early words later words", chunks[0].Text)
		assert.Equal(t, 1.0, chunks[0].Start)
		assert.Equal(t, 30.0, chunks[0].End)
	}
}
