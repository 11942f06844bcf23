package viz

import "sync"

// FramePool recycles RGB frame buffers of one size between the renderer
// and the frame sink.
type FramePool struct {
	pool sync.Pool
	size int
}

func NewFramePool(width, height int) *FramePool {
	size := width * height * 3
	return &FramePool{
		size: size,
		pool: sync.Pool{
			New: func() any {
				return make([]byte, size)
			},
		},
	}
}

func (p *FramePool) Get() []byte {
	return p.pool.Get().([]byte)
}

// Put returns buf to the pool. Buffers of the wrong size are dropped.
func (p *FramePool) Put(buf []byte) {
	if len(buf) == p.size {
		p.pool.Put(buf)
	}
}

func (p *FramePool) Size() int { return p.size }
