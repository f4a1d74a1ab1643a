package grove

import (
	"context"
	"log/slog"
	"time"
)

// FrameStats holds per-frame traversal counters and timings.
// Only populated when Scene debug mode is on.
type FrameStats struct {
	Visited     int // children considered by RenderChildren
	Culled      int // children failing IsVisible
	Opaque      int // children rendered immediately
	Translucent int // children queued for the alpha pass
	Skipped     int // fully transparent children
	Triangles   int // triangles submitted to the target

	UpdateTime   time.Duration
	TraverseTime time.Duration
	AlphaTime    time.Duration
}

// frameStats is the counter sink reached from a RenderContext. A nil
// *frameStats ignores every call.
type frameStats struct {
	FrameStats
}

func (s *frameStats) visit() {
	if s != nil {
		s.Visited++
	}
}

func (s *frameStats) cull() {
	if s != nil {
		s.Culled++
	}
}

func (s *frameStats) opaque() {
	if s != nil {
		s.Opaque++
	}
}

func (s *frameStats) translucent() {
	if s != nil {
		s.Translucent++
	}
}

func (s *frameStats) skip() {
	if s != nil {
		s.Skipped++
	}
}

// debugLog reports stats at debug level.
func (s *Scene) debugLog(stats FrameStats) {
	if !s.debug {
		return
	}
	Logger().LogAttrs(context.Background(), slog.LevelDebug, "frame",
		slog.Duration("update", stats.UpdateTime),
		slog.Duration("traverse", stats.TraverseTime),
		slog.Duration("alpha", stats.AlphaTime),
		slog.Int("visited", stats.Visited),
		slog.Int("culled", stats.Culled),
		slog.Int("opaque", stats.Opaque),
		slog.Int("translucent", stats.Translucent),
		slog.Int("skipped", stats.Skipped),
		slog.Int("triangles", stats.Triangles),
	)
}

// debugMaxTreeDepth is the depth past which AttachChild warns.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; {
		depth++
		if p.parent == nil {
			break
		}
		p = p.parent.base()
	}
	if depth > debugMaxTreeDepth {
		report(slog.LevelWarn, "AttachChild", "tree depth exceeds threshold",
			"node", n.props.Name, "depth", depth, "threshold", debugMaxTreeDepth)
	}
}

// debugMaxChildCount is the child count past which AttachChild warns.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		report(slog.LevelWarn, "AttachChild", "child count exceeds threshold",
			"node", n.props.Name, "children", len(n.children), "threshold", debugMaxChildCount)
	}
}
