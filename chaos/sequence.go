package chaos

import (
	"errors"
	"fmt"
	"math"
)

var ErrExhausted = errors.New("location space exhausted")

// Location addresses one color channel of one pixel; channel 3 (alpha)
// is never produced.
type Location struct {
	X       int
	Y       int
	Channel int
}

// Rejection sampling slows down as the location set fills up; the cap
// turns a pathological near-full image into an error instead of a hang.
const maxDrawAttempts = 1 << 20

// Sequencer walks the logistic map over an image's dimensions. The set
// of already-emitted locations persists across Locations calls on the
// same instance.
type Sequencer struct {
	x      float64
	draws  float64
	width  int
	height int
	used   map[Location]struct{}
}

func NewSequencer(seed float64, width, height int) *Sequencer {
	return &Sequencer{
		x:      seed,
		width:  width,
		height: height,
		used:   make(map[Location]struct{}),
	}
}

func (s *Sequencer) Next() float64 {
	s.x = step(s.x)
	return s.x
}

func (s *Sequencer) NextIndex(bound int) int {
	s.draws++
	// Consecutive map iterates are functionally dependent: indexing a
	// triple off three raw iterates pins it to a one-dimensional subset
	// of the location space. Folding the draw ordinal in before
	// quantizing makes every location reachable.
	u := s.Next() * s.draws
	u -= math.Floor(u)
	return int(u * float64(bound))
}

// Locations draws count distinct locations in map order.
func (s *Sequencer) Locations(count int) ([]Location, error) {
	total := s.width * s.height * 3
	res := make([]Location, 0, count)
	for len(res) < count {
		if len(s.used) == total {
			return res, fmt.Errorf("%w: all %d locations drawn, %d of %d collected",
				ErrExhausted, total, len(res), count)
		}

		loc, err := s.draw()
		if err != nil {
			return res, err
		}
		res = append(res, loc)
	}
	return res, nil
}

func (s *Sequencer) draw() (Location, error) {
	for range maxDrawAttempts {
		loc := Location{
			X:       s.NextIndex(s.width),
			Y:       s.NextIndex(s.height),
			Channel: s.NextIndex(3),
		}
		if _, taken := s.used[loc]; taken {
			continue
		}
		s.used[loc] = struct{}{}
		return loc, nil
	}
	return Location{}, fmt.Errorf("%w: no unused location in %d attempts", ErrExhausted, maxDrawAttempts)
}
