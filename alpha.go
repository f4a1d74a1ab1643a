package grove

import (
	"cmp"
	"errors"
	"log/slog"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// AlphaNode records a translucent node deferred during RenderChildren.
// It lives for one frame.
type AlphaNode struct {
	Node SceneNode
	// Transform is the stack top when the node was classified: the
	// cumulative transform of its parent.
	Transform mgl32.Mat4
	// Depth is the distance in front of the camera along the view axis.
	// Larger is farther.
	Depth float32
}

// AlphaQueue is the default AlphaCollector. It keeps the records of one
// frame and draws them back to front in Flush.
type AlphaQueue struct {
	nodes []AlphaNode
}

// NewAlphaQueue creates an empty queue.
func NewAlphaQueue() *AlphaQueue {
	return &AlphaQueue{nodes: make([]AlphaNode, 0, 64)}
}

// Submit appends rec to the queue.
func (q *AlphaQueue) Submit(rec AlphaNode) {
	q.nodes = append(q.nodes, rec)
}

// Len returns the number of queued records.
func (q *AlphaQueue) Len() int { return len(q.nodes) }

// Nodes returns the queued records. The returned slice MUST NOT be mutated.
func (q *AlphaQueue) Nodes() []AlphaNode { return q.nodes }

// Reset empties the queue, keeping its storage.
func (q *AlphaQueue) Reset() {
	clear(q.nodes)
	q.nodes = q.nodes[:0]
}

// Sort orders the queue back to front. Records at equal depth keep their
// traversal order.
func (q *AlphaQueue) Sort() {
	slices.SortStableFunc(q.nodes, func(a, b AlphaNode) int {
		return cmp.Compare(b.Depth, a.Depth)
	})
}

// Flush sorts the queue, renders every record with its captured transform
// restored, and empties the queue. A failing record does not stop the rest.
func (q *AlphaQueue) Flush(ctx *RenderContext) error {
	defer q.Reset()
	if !ctx.canTransform() {
		report(slog.LevelError, "AlphaQueue.Flush", "invalid render context")
		return ErrInvalidContext
	}
	q.Sort()
	var errs []error
	for _, rec := range q.nodes {
		ctx.Stack.PushTransform(mgl32.Ident4())
		ctx.Stack.LoadTop(rec.Transform)
		errs = append(errs, renderScoped(ctx, rec.Node))
		ctx.Stack.PopTransform()
	}
	return errors.Join(errs...)
}
