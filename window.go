package wingworks

import (
	"github.com/phil-mansfield/wingworks/geom"
)

// DefaultWindow is the number of samples a SlidingWindowVector averages
// over unless told otherwise.
const DefaultWindow = 30

// SlidingWindowVector is the running mean of the last N vectors added to it.
type SlidingWindowVector struct {
	samples []geom.Vec
	next, n int
	sum     geom.Vec
}

// NewSlidingWindowVector returns an empty window holding up to n samples.
// n < 1 is treated as 1.
func NewSlidingWindowVector(n int) *SlidingWindowVector {
	if n < 1 {
		n = 1
	}
	return &SlidingWindowVector{samples: make([]geom.Vec, n)}
}

// Add appends v, dropping the oldest sample if the window is full.
func (w *SlidingWindowVector) Add(v geom.Vec) {
	if w.n == len(w.samples) {
		w.sum = w.sum.Sub(w.samples[w.next])
	} else {
		w.n++
	}
	w.samples[w.next] = v
	w.sum = w.sum.Add(v)
	w.next = (w.next + 1) % len(w.samples)
}

// Value returns the mean of the samples in the window, or the zero vector
// if there are none.
func (w *SlidingWindowVector) Value() geom.Vec {
	if w.n == 0 {
		return geom.Vec{}
	}
	return w.sum.Scale(1 / float64(w.n))
}

// Len returns the number of samples currently in the window.
func (w *SlidingWindowVector) Len() int { return w.n }
