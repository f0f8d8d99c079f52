package transcript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge_Empty(t *testing.T) {
	text, speakers := Merge(nil)

	assert.Equal(t, "", text)
	assert.Equal(t, []string{}, speakers)
}

func TestMerge_SingleSegment(t *testing.T) {
	text, speakers := Merge([]RawSegment{
		{Speaker: "Alice", Text: "hello everyone", Start: 65, End: 68},
	})

	assert.Equal(t, "[01:05] Alice: hello everyone", text)
	assert.Equal(t, []string{"Alice"}, speakers)
}

func TestMerge_ChronologicalOrder(t *testing.T) {
	text, speakers := Merge([]RawSegment{
		{Speaker: "B", Text: "hi there", Start: 2, End: 6},
		{Speaker: "A", Text: "hello team", Start: 0, End: 5},
		{Speaker: "A", Text: "any updates?", Start: 10, End: 12},
	})

	expected := "[00:00] A: hello team\n" +
		"[00:02] B: hi there\n" +
		"[00:10] A: any updates?"
	assert.Equal(t, expected, text)
	assert.Equal(t, []string{"A", "B"}, speakers)
}

func TestMerge_EqualStartTimesKeepInputOrder(t *testing.T) {
	// Simultaneous speech: ties must preserve input order, not drop data.
	text, _ := Merge([]RawSegment{
		{Speaker: "Carol", Text: "wait", Start: 7, End: 8},
		{Speaker: "Dave", Text: "sorry, go ahead", Start: 7, End: 9},
	})

	lines := strings.Split(text, "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "[00:07] Carol: wait", lines[0])
	assert.Equal(t, "[00:07] Dave: sorry, go ahead", lines[1])
}

func TestMerge_CrossTrackInterleaving(t *testing.T) {
	trackA := []RawSegment{
		{Speaker: "A", Text: "first", Start: 0, End: 1},
		{Speaker: "A", Text: "third", Start: 20, End: 21},
	}
	trackB := []RawSegment{
		{Speaker: "B", Text: "second", Start: 10, End: 11},
	}

	text, speakers := Merge(append(trackA, trackB...))

	expected := "[00:00] A: first\n" +
		"[00:10] B: second\n" +
		"[00:20] A: third"
	assert.Equal(t, expected, text)
	assert.Equal(t, []string{"A", "B"}, speakers)
}

func TestMerge_TimestampFormatting(t *testing.T) {
	text, _ := Merge([]RawSegment{
		{Speaker: "A", Text: "an hour in", Start: 3725.9, End: 3730},
	})

	// 3725s = 62m 5s; minutes are not wrapped at 60.
	assert.Equal(t, "[62:05] A: an hour in", text)
}
