// Package stack contains the small stacks used by the parser to track
// open elements and open entities.
package stack

// Shrinker is implemented by stacks that release excess capacity after
// popping items.
type Shrinker interface {
	Cap() int
	Len() int
	PopLast()
	Realloc()
}

func stackPop(s Shrinker, n int) {
	if n <= 0 {
		return
	}

	for s.Len() > 0 {
		s.PopLast()
		n--
		if n <= 0 {
			break
		}
	}

	if c := s.Cap(); c > 20 && c > s.Len()*2 {
		s.Realloc()
	}
}
