package scratch

import "unsafe"

// Scope records the blocks acquired through it and releases them in
// reverse order. It turns the arena's stack discipline into a property of
// the call site:
//
//	s := arena.Scope()
//	defer s.Release()
//	positions := scratch.Make[mgl32.Vec3](s, n)
//	indices := scratch.Make[uint32](s, m)
//
// Scopes nest. An inner scope must be released before its parent, which
// the arena's LIFO check enforces.
type Scope struct {
	arena  *Arena
	blocks []unsafe.Pointer
}

// Scope opens a new acquisition scope on the arena.
func (a *Arena) Scope() *Scope {
	return &Scope{arena: a}
}

// Arena returns the arena backing the scope.
func (s *Scope) Arena() *Arena { return s.arena }

// Len returns the number of blocks still held by the scope.
func (s *Scope) Len() int { return len(s.blocks) }

// Make allocates a zeroed slice of n elements tracked by the scope.
func Make[T any](s *Scope, n int) []T {
	out := Slice[T](s.arena, n)
	if out != nil {
		s.blocks = append(s.blocks, unsafe.Pointer(unsafe.SliceData(out)))
	}
	return out
}

// Release frees every block of the scope, newest first. Calling Release
// again is a no-op.
func (s *Scope) Release() {
	for i := len(s.blocks) - 1; i >= 0; i-- {
		s.arena.Free(s.blocks[i])
		s.blocks[i] = nil
	}
	s.blocks = s.blocks[:0]
}
