package grove

import "log/slog"

// pickRequest is a queued synthetic pick at screen coordinates.
type pickRequest struct {
	screenX, screenY float32
}

// InjectPick queues a pick through screen point (x, y) of the last drawn
// frame. One queued pick is processed per Update; its hits reach the entity
// store exactly like a pick made with PickAt.
func (s *Scene) InjectPick(x, y float32) {
	s.injectQueue = append(s.injectQueue, pickRequest{screenX: x, screenY: y})
}

// processInjectedPick pops one request and picks with it. Reports whether a
// request was consumed.
func (s *Scene) processInjectedPick() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	req := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	w, h := s.viewW, s.viewH
	if w <= 0 || h <= 0 {
		report(slog.LevelWarn, "Scene.InjectPick", "no frame drawn yet; pick dropped",
			"x", req.screenX, "y", req.screenY)
		return true
	}
	hits, err := s.PickAt(req.screenX, req.screenY, w, h)
	if err != nil {
		report(slog.LevelError, "Scene.InjectPick", "pick failed", "err", err)
		return true
	}
	report(slog.LevelDebug, "Scene.InjectPick", "pick processed",
		"x", req.screenX, "y", req.screenY, "hits", len(hits))
	return true
}
