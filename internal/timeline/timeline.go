package timeline

import (
	"errors"
	"fmt"
)

// Kind identifies a visual/audio segment type.
type Kind string

const (
	KindIntro   Kind = "intro"
	KindPreRoll Kind = "preroll"
	KindPlaying Kind = "playing"
	KindAnswer  Kind = "answer"
	KindOutro   Kind = "outro"
)

// Segment is one fixed-duration entry in the blind-test timeline.
// TrackIndex is 1-based for per-track segments and 0 for intro/outro.
type Segment struct {
	Kind       Kind
	Duration   float64
	TrackIndex int
}

// Options carries the fixed duration inputs, all in seconds.
type Options struct {
	SnippetSeconds float64
	PauseSeconds   float64
	IntroSeconds   float64
	OutroSeconds   float64
	AnswerSeconds  float64
}

// Timeline is the ordered list of segments composing the final video.
type Timeline []Segment

// Build produces the segment sequence for trackCount tracks:
// intro, then per track {preroll, playing, answer}, then outro. The answer
// segment is carved out of the tail of the snippet's visual time, so each
// track occupies exactly pause+snippet seconds on screen, the same span it
// occupies in the audio stream.
func Build(trackCount int, opts Options) (Timeline, error) {
	if trackCount <= 0 {
		return nil, errors.New("timeline requires at least one track")
	}
	if opts.AnswerSeconds >= opts.SnippetSeconds {
		return nil, fmt.Errorf("answer duration %.1fs must be shorter than snippet duration %.1fs", opts.AnswerSeconds, opts.SnippetSeconds)
	}

	segments := make(Timeline, 0, trackCount*3+2)
	segments = append(segments, Segment{Kind: KindIntro, Duration: opts.IntroSeconds})
	for i := 1; i <= trackCount; i++ {
		segments = append(segments,
			Segment{Kind: KindPreRoll, Duration: opts.PauseSeconds, TrackIndex: i},
			Segment{Kind: KindPlaying, Duration: opts.SnippetSeconds - opts.AnswerSeconds, TrackIndex: i},
			Segment{Kind: KindAnswer, Duration: opts.AnswerSeconds, TrackIndex: i},
		)
	}
	segments = append(segments, Segment{Kind: KindOutro, Duration: opts.OutroSeconds})
	return segments, nil
}

// Total returns the summed duration of all segments.
func (t Timeline) Total() float64 {
	var total float64
	for _, segment := range t {
		total += segment.Duration
	}
	return total
}

// Estimate computes the expected video length before any work happens:
// intro + n×(pause + snippet) + outro.
func Estimate(trackCount int, opts Options) float64 {
	return opts.IntroSeconds + float64(trackCount)*(opts.PauseSeconds+opts.SnippetSeconds) + opts.OutroSeconds
}
