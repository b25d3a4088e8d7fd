package playback

import "math"

const (
	ln50       = 3.91202300543 // math.Log(50)
	linearCoef = 0.295751527165
)

// scaleVolume maps the 0..1 volume dial to a gain factor. The curve is
// exponential through the useful range so equal dial steps sound like
// equal loudness steps, linear below 0.1 where the exponential would
// never reach silence, and clamped to unity at the top.
func scaleVolume(v float64) float64 {
	switch {
	case v >= 0.99:
		return 1
	case v > 0.1:
		return math.Exp(ln50*v) / 50
	default:
		return v * linearCoef
	}
}
