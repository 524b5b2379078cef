package stack

// Simple is a LIFO stack of arbitrary items.
type Simple[T any] []T

func (s *Simple[T]) Push(i T) {
	*s = append(*s, i)
}

// Pop removes the last n items, or one item when n is omitted.
func (s *Simple[T]) Pop(n ...int) {
	nn := 1
	if len(n) > 0 {
		nn = n[0]
	}
	stackPop(s, nn)
}

func (s *Simple[T]) Realloc() {
	*s = append(Simple[T](nil), *s...)
}

func (s *Simple[T]) PopLast() {
	if s.Len() <= 0 {
		return
	}
	*s = (*s)[:s.Len()-1]
}

// Top returns the last item pushed.
func (s Simple[T]) Top() (T, bool) {
	if l := s.Len(); l > 0 {
		return s[l-1], true
	}
	var zero T
	return zero, false
}

func (s Simple[T]) Len() int {
	return len(s)
}

func (s Simple[T]) Cap() int {
	return cap(s)
}
