package playback

import (
	"context"
	"sync"
)

// fakeContext is an AudioContext with a hand-driven clock.
type fakeContext struct {
	mu     sync.Mutex
	now    float64
	decode func(ctx context.Context, data []byte) (*Buffer, error)
	nodes  []*fakeNode
	closed bool
}

func newFakeContext() *fakeContext {
	return &fakeContext{
		decode: func(_ context.Context, data []byte) (*Buffer, error) {
			return Decode(data)
		},
	}
}

func (c *fakeContext) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeContext) advance(seconds float64) {
	c.mu.Lock()
	c.now += seconds
	c.mu.Unlock()
}

func (c *fakeContext) DecodeAudioData(ctx context.Context, data []byte) (*Buffer, error) {
	return c.decode(ctx, data)
}

func (c *fakeContext) CreateBufferSource(buf *Buffer) SourceNode {
	c.mu.Lock()
	defer c.mu.Unlock()
	node := &fakeNode{buf: buf, rate: DefaultRate}
	c.nodes = append(c.nodes, node)
	return node
}

func (c *fakeContext) Close() error {
	c.closed = true
	return nil
}

func (c *fakeContext) nodeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.nodes)
}

func (c *fakeContext) lastNode() *fakeNode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nodes[len(c.nodes)-1]
}

type fakeNode struct {
	buf     *Buffer
	rate    float64
	started bool
	offset  float64
	stopped bool
	onEnded func()
}

func (n *fakeNode) SetPlaybackRate(rate float64) { n.rate = rate }

func (n *fakeNode) Start(offset float64) error {
	if n.started {
		return ErrNodeStopped
	}
	n.started = true
	n.offset = offset
	return nil
}

func (n *fakeNode) Stop() error {
	n.stopped = true
	return nil
}

func (n *fakeNode) OnEnded(fn func()) { n.onEnded = fn }

// end simulates the platform signalling completion.
func (n *fakeNode) end() {
	if n.onEnded != nil {
		n.onEnded()
	}
}
