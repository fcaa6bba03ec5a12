// Package timeline models the fixed-duration segment sequence shared by the
// audio and video stages. Keeping the math in one place guarantees the two
// streams agree on every boundary.
package timeline
