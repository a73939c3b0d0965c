// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package scratch provides a bounded bump-pointer arena for transient
// CPU-side buffers that live no longer than a single draw call.
//
// Allocations are stack-disciplined: the most recent live block must be
// the next one freed. The arena checks this on every Free and panics on a
// violation, as it does when its capacity is exceeded. Both conditions are
// caller bugs, not runtime states to recover from.
//
// An Arena is not safe for concurrent use. Rendering is single-threaded
// and the arena is passed explicitly through the frame call chain.
package scratch

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unsafe"
)

// DefaultCapacity is the arena size used when none is configured.
const DefaultCapacity = 16 << 20

// headerSize is the width of the size prefix stored before each block.
const headerSize = 4

// Sentinel errors carried by arena panics.
var (
	// ErrArenaExhausted is the panic value when an allocation does not fit.
	ErrArenaExhausted = errors.New("scratch: arena capacity exceeded")

	// ErrNotLIFO is the panic value when a block other than the most
	// recent live one is freed.
	ErrNotLIFO = errors.New("scratch: free out of stack order")

	// ErrForeignPointer is the panic value when Free receives a pointer
	// outside the arena.
	ErrForeignPointer = errors.New("scratch: pointer not owned by arena")

	// ErrAlignment is the panic value when a typed slice needs stronger
	// alignment than the arena guarantees.
	ErrAlignment = errors.New("scratch: element alignment exceeds 4 bytes")
)

// Arena is a fixed-capacity bump allocator.
type Arena struct {
	buf    []byte
	offset int
	inUse  int
	live   int
	peak   int
}

// New creates an arena holding capacity bytes. A non-positive capacity
// selects DefaultCapacity.
func New(capacity int) *Arena {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Arena{buf: make([]byte, capacity)}
}

// padded rounds a payload size up to the header width so every block
// starts 4-byte aligned. Empty requests still reserve one word.
func padded(size int) int {
	if size <= 0 {
		return headerSize
	}
	return (size + headerSize - 1) &^ (headerSize - 1)
}

// Allocate reserves size bytes and returns a pointer to the payload.
// The requested size is written in the header word that precedes it.
// Allocate panics with ErrArenaExhausted if the block does not fit.
func (a *Arena) Allocate(size int) unsafe.Pointer {
	if size < 0 {
		panic(fmt.Errorf("scratch: negative allocation size %d", size))
	}
	hdr := a.offset
	next := hdr + headerSize + padded(size)
	if next > len(a.buf) || uint64(size) > uint64(^uint32(0)) {
		panic(fmt.Errorf("%w: need %d bytes, %d of %d in use",
			ErrArenaExhausted, headerSize+padded(size), a.inUse, len(a.buf)))
	}

	binary.LittleEndian.PutUint32(a.buf[hdr:], uint32(size))
	a.offset = next
	a.inUse += headerSize + padded(size)
	a.live++
	if a.inUse > a.peak {
		a.peak = a.inUse
	}
	return unsafe.Pointer(&a.buf[hdr+headerSize])
}

// Free releases the block at p, which must be the most recently
// allocated live block. The bump pointer rewinds to the block's header.
func (a *Arena) Free(p unsafe.Pointer) {
	if p == nil || len(a.buf) == 0 {
		panic(ErrForeignPointer)
	}
	base := uintptr(unsafe.Pointer(&a.buf[0]))
	addr := uintptr(p)
	if addr < base+headerSize || addr >= base+uintptr(len(a.buf)) {
		panic(ErrForeignPointer)
	}

	hdr := int(addr-base) - headerSize
	size := int(binary.LittleEndian.Uint32(a.buf[hdr:]))
	if hdr+headerSize+padded(size) != a.offset {
		panic(fmt.Errorf("%w: block at %d, top of stack ends at %d", ErrNotLIFO, hdr, a.offset))
	}

	a.inUse -= headerSize + padded(size)
	a.offset = hdr
	a.live--
}

// Reset drops every live block. Use it at a frame boundary to recover
// from a pass that panicked halfway.
func (a *Arena) Reset() {
	a.offset = 0
	a.inUse = 0
	a.live = 0
}

// Capacity returns the arena size in bytes.
func (a *Arena) Capacity() int { return len(a.buf) }

// Offset returns the current bump pointer position.
func (a *Arena) Offset() int { return a.offset }

// InUse returns the bytes held by live blocks, headers included.
func (a *Arena) InUse() int { return a.inUse }

// Live returns the number of live blocks.
func (a *Arena) Live() int { return a.live }

// Peak returns the high-water mark of InUse since creation or the last
// ResetPeak.
func (a *Arena) Peak() int { return a.peak }

// ResetPeak restarts the high-water mark at the current InUse.
func (a *Arena) ResetPeak() { a.peak = a.inUse }

// Stats is a snapshot of arena usage.
type Stats struct {
	Capacity int
	InUse    int
	Peak     int
	Live     int
}

// Stats returns a usage snapshot.
func (a *Arena) Stats() Stats {
	return Stats{Capacity: len(a.buf), InUse: a.inUse, Peak: a.peak, Live: a.live}
}

// String returns a human-readable summary.
func (s Stats) String() string {
	return fmt.Sprintf("scratch: %d/%d bytes in use (peak %d, %d live blocks)",
		s.InUse, s.Capacity, s.Peak, s.Live)
}
