package audio

import "math/rand"

// edgeMargin keeps snippets away from track intros and fade-outs.
const edgeMargin = 10.0

// SnippetStart picks the start offset (seconds) for a snippet of
// snippetSeconds within a source of trackSeconds. When the source is long
// enough to leave edgeMargin on both sides, the offset is drawn uniformly
// from [edgeMargin, trackSeconds-snippetSeconds-edgeMargin]; otherwise the
// snippet starts at 0.
func SnippetStart(trackSeconds, snippetSeconds float64, rng *rand.Rand) float64 {
	if trackSeconds <= snippetSeconds+2*edgeMargin {
		return 0
	}
	span := trackSeconds - snippetSeconds - 2*edgeMargin
	return edgeMargin + rng.Float64()*span
}
