package video

// ffmpeg color values for the fixed visual theme.
const (
	colorBackground  = "0x14141E" // dark blue-gray
	colorAccent      = "0x64C8FF" // light blue
	colorText        = "white"
	colorInstruction = "0xC8C8C8"
)

// barPalette is the 12-color equalizer gradient, one per bar.
var barPalette = []string{
	"0xFF0000", // red
	"0xFF7F00", // orange
	"0xFFFF00", // yellow
	"0x7FFF00", // chartreuse
	"0x00FF00", // lime
	"0x00FF78", // light green
	"0x00FFFF", // cyan
	"0x0080FF", // blue
	"0x0000FF", // dark blue
	"0x7F00FF", // purple
	"0xFF00FF", // magenta
	"0xFF007F", // pink
}
