package recording

// BufferRef is a reference to buffer data in the resource pool.
type BufferRef uint32

// InvalidRef is the sentinel value for an invalid reference.
const InvalidRef = BufferRef(^uint32(0))

// IsValid returns true if the reference points to pooled data.
func (r BufferRef) IsValid() bool {
	return r != InvalidRef
}

// ResourcePool stores the buffer contents referenced by recorded
// commands. Each Add copies its input, since uploads usually come from
// scratch memory that is reused right after the call.
//
// ResourcePool is not safe for concurrent use.
type ResourcePool struct {
	buffers [][]byte
	bytes   int
}

// NewResourcePool creates an empty resource pool.
func NewResourcePool() *ResourcePool {
	return &ResourcePool{buffers: make([][]byte, 0, 64)}
}

// AddBuffer copies data into the pool and returns its reference.
func (p *ResourcePool) AddBuffer(data []byte) BufferRef {
	cloned := make([]byte, len(data))
	copy(cloned, data)
	p.buffers = append(p.buffers, cloned)
	p.bytes += len(cloned)
	// #nosec G115 -- pool size is bounded by available memory, well under uint32 max
	return BufferRef(uint32(len(p.buffers) - 1))
}

// GetBuffer returns the data for the given reference, or nil if the
// reference is invalid.
func (p *ResourcePool) GetBuffer(ref BufferRef) []byte {
	if !ref.IsValid() || int(ref) >= len(p.buffers) {
		return nil
	}
	return p.buffers[ref]
}

// Len returns the number of pooled buffers.
func (p *ResourcePool) Len() int { return len(p.buffers) }

// Bytes returns the total pooled size.
func (p *ResourcePool) Bytes() int { return p.bytes }
