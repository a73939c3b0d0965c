package scratch

import "unsafe"

// maxAlign is the strongest element alignment the arena satisfies.
const maxAlign = headerSize

// Slice allocates a zeroed slice of n elements from the arena.
// T must be a pointer-free type (floats, integers, arrays and structs of
// them); the arena memory is invisible to the garbage collector.
// Slice returns nil for n <= 0 without touching the arena.
func Slice[T any](a *Arena, n int) []T {
	if n <= 0 {
		return nil
	}
	var zero T
	if unsafe.Alignof(zero) > maxAlign {
		panic(ErrAlignment)
	}
	p := a.Allocate(n * int(unsafe.Sizeof(zero)))
	s := unsafe.Slice((*T)(p), n)
	clear(s)
	return s
}

// FreeSlice releases a slice obtained from Slice. Empty slices are ignored.
func FreeSlice[T any](a *Arena, s []T) {
	if cap(s) == 0 {
		return
	}
	a.Free(unsafe.Pointer(unsafe.SliceData(s)))
}

// AsBytes reinterprets s as its underlying bytes for upload. The result
// aliases s.
func AsBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*int(unsafe.Sizeof(zero)))
}
