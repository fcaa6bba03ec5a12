package video

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"blindtest/internal/catalog"
)

const (
	introTitle       = "MUSIC BLIND TEST"
	introInstruction = "Can you guess the artist and song?"
	prerollTitle     = "Blind Test !"
	prerollCaption   = "Listen carefully..."
	outroTitle       = "Thanks for playing!"
	outroCaption     = "How many did you guess correctly?"

	countdownFadeSpan = 0.5 // overlay fades over the countdown's final half second
)

// drawtextFilter renders one caption. y may be a pixel value or an ffmpeg
// expression; x is always centered.
func (r *Renderer) drawtextFilter(text string, fontSize int, color, y string) string {
	var b strings.Builder
	b.WriteString("drawtext=")
	if r.fontFile != "" {
		fmt.Fprintf(&b, "fontfile='%s':", r.fontFile)
	}
	fmt.Fprintf(&b, "text='%s':fontsize=%d:fontcolor=%s:x=(w-text_w)/2:y=%s",
		escapeText(text), fontSize, color, y)
	return b.String()
}

// escapeText quotes the characters drawtext treats specially.
func escapeText(text string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\\\'`,
		`:`, `\:`,
		`%`, `\%`,
	)
	return replacer.Replace(text)
}

// backgroundInput returns the lavfi color source arguments shared by every
// composited segment.
func (r *Renderer) backgroundInput(duration float64) []string {
	return []string{
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=c=%s:s=%dx%d:r=%d:d=%s",
			colorBackground, r.width, r.height, r.fps, seconds(duration)),
	}
}

// encodeArgs are the fixed output settings every segment shares so the
// concat demuxer can stream-copy them together.
func (r *Renderer) encodeArgs(dest string) []string {
	return []string{
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-r", strconv.Itoa(r.fps),
		dest,
	}
}

func (r *Renderer) introArgs(duration float64, dest string) []string {
	filters := []string{
		r.drawtextFilter(introTitle, 120, colorAccent, "600"),
		r.drawtextFilter(introInstruction, 60, colorInstruction, "1200"),
	}
	args := r.backgroundInput(duration)
	args = append(args, "-vf", strings.Join(filters, ","))
	return append(args, r.encodeArgs(dest)...)
}

func (r *Renderer) prerollArgs(trackNumber int, duration float64, dest string) []string {
	filters := []string{
		r.drawtextFilter(prerollTitle, 100, colorAccent, "300"),
		r.drawtextFilter(fmt.Sprintf("Track #%d", trackNumber), 120, colorText, "(h-text_h)/2"),
		r.drawtextFilter(prerollCaption, 60, colorText, "1400"),
	}
	args := r.backgroundInput(duration)
	args = append(args, "-vf", strings.Join(filters, ","))
	return append(args, r.encodeArgs(dest)...)
}

func (r *Renderer) playingArgs(trackNumber int, duration float64, dest string) []string {
	filters := equalizerFilters(r.width, r.height)
	filters = append(filters, r.drawtextFilter(fmt.Sprintf("Track #%d", trackNumber), 80, colorAccent, "200"))
	filters = append(filters, r.countdownFilters(duration)...)

	args := r.backgroundInput(duration)
	args = append(args, "-vf", strings.Join(filters, ","))
	return append(args, r.encodeArgs(dest)...)
}

// countdownFilters draws the remaining-seconds number, one drawtext per
// second. Every number stays fully opaque inside its one-second window;
// only the last one carries an alpha ramp so the overlay fades out over
// the countdown's final half second.
func (r *Renderer) countdownFilters(duration float64) []string {
	total := int(math.Floor(duration))
	fadeStart := float64(total) - countdownFadeSpan
	filters := make([]string, 0, total)
	for i := 0; i < total; i++ {
		remaining := total - i
		alpha := "1"
		if i == total-1 {
			alpha = fmt.Sprintf("if(lt(t,%s),1,1-(t-%s)/%s)",
				seconds(fadeStart), seconds(fadeStart), seconds(countdownFadeSpan))
		}
		filters = append(filters, fmt.Sprintf(
			"drawtext=text='%d':fontsize=120:fontcolor=%s:alpha='%s':x=(w-text_w)/2:y=800:enable='between(t,%d,%d)'",
			remaining, colorText, alpha, i, i+1,
		))
	}
	return filters
}

// answerArgs reveals artist and title; when coverPath is non-empty the
// artwork is scaled and overlaid above the caption.
func (r *Renderer) answerArgs(track catalog.Track, duration float64, coverPath, dest string) []string {
	caption := r.drawtextFilter(fmt.Sprintf("%s - %s", track.Artist, track.Name), 60, colorText, "1050")

	args := r.backgroundInput(duration)
	if coverPath != "" {
		coverSize := r.width * 6 / 10
		graph := fmt.Sprintf(
			"[1:v]scale=%d:%d[cover];[0:v][cover]overlay=(W-w)/2:400[bg];[bg]%s",
			coverSize, coverSize, caption,
		)
		args = append(args, "-i", coverPath, "-filter_complex", graph)
	} else {
		args = append(args, "-vf", caption)
	}
	return append(args, r.encodeArgs(dest)...)
}

func (r *Renderer) outroArgs(duration float64, dest string) []string {
	filters := []string{
		r.drawtextFilter(outroTitle, 120, colorAccent, "200"),
		r.drawtextFilter(outroCaption, 60, colorText, "800"),
	}
	args := r.backgroundInput(duration)
	args = append(args, "-vf", strings.Join(filters, ","))
	return append(args, r.encodeArgs(dest)...)
}

func seconds(value float64) string {
	return strconv.FormatFloat(value, 'f', 3, 64)
}
