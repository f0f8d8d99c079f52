package transcript

import (
	"sort"
	"strings"
)

// ChunkConfig controls sliding-window chunking for embeddings.
type ChunkConfig struct {
	// ChunkSize is the window width in words.
	ChunkSize int
	// Overlap is the number of words shared between consecutive windows.
	// Must be smaller than ChunkSize; invalid combinations are clamped to
	// the defaults rather than looping forever.
	Overlap int
}

// DefaultChunkConfig provides sane defaults for chunking.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		ChunkSize: 500,
		Overlap:   50,
	}
}

// Chunk is one embedding unit: a window of transcript words with its time
// span and speaker attribution. Speaker is a single name when the window
// covers exactly one speaker, otherwise a comma-joined sorted-unique list.
type Chunk struct {
	Text    string
	Speaker string
	Start   float64
	End     float64
}

type wordMeta struct {
	word    string
	speaker string
	start   float64
}

// ChunkSegments flattens segments to a word sequence and slides a window of
// cfg.ChunkSize words, advancing by ChunkSize-Overlap each step. Every word
// lands in at least one chunk; fewer than ChunkSize words yields a single
// chunk covering everything.
func ChunkSegments(segments []RawSegment, cfg ChunkConfig) []Chunk {
	if len(segments) == 0 {
		return nil
	}
	if cfg.ChunkSize <= 0 || cfg.Overlap < 0 || cfg.Overlap >= cfg.ChunkSize {
		cfg = DefaultChunkConfig()
	}

	sorted := make([]RawSegment, len(segments))
	copy(sorted, segments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	var words []wordMeta
	for _, seg := range sorted {
		for _, w := range strings.Fields(seg.Text) {
			words = append(words, wordMeta{word: w, speaker: seg.Speaker, start: seg.Start})
		}
	}
	if len(words) == 0 {
		return nil
	}

	step := cfg.ChunkSize - cfg.Overlap
	chunks := make([]Chunk, 0, (len(words)+step-1)/step)

	for i := 0; i < len(words); i += step {
		end := i + cfg.ChunkSize
		if end > len(words) {
			end = len(words)
		}
		window := words[i:end]

		texts := make([]string, len(window))
		speakerSet := make(map[string]struct{})
		for j, w := range window {
			texts[j] = w.word
			speakerSet[w.speaker] = struct{}{}
		}

		chunks = append(chunks, Chunk{
			Text:    strings.Join(texts, " "),
			Speaker: speakerLabel(speakerSet),
			Start:   window[0].start,
			End:     window[len(window)-1].start,
		})

		if end >= len(words) {
			break
		}
	}

	return chunks
}

func speakerLabel(set map[string]struct{}) string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	if len(names) == 1 {
		return names[0]
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
