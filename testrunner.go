package grove

import (
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action   string     `json:"action"`
	Label    string     `json:"label,omitempty"`
	X        float32    `json:"x,omitempty"`
	Y        float32    `json:"y,omitempty"`
	Target   [3]float32 `json:"target,omitempty"`
	Duration float32    `json:"duration,omitempty"`
	Frames   int        `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences injected picks, camera moves and screenshots across
// frames for automated visual testing. Attach it with Scene.SetTestRunner.
//
// Supported actions: "screenshot" (label), "pick" (x, y), "fly" (target,
// duration), "wait" (frames).
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("grove: parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("grove: parse test script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "screenshot", "pick", "fly", "wait":
		default:
			return nil, fmt.Errorf("grove: parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches runner to the scene. It is stepped at the start of
// every Update.
func (s *Scene) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether every step has run.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *TestRunner) step(s *Scene) {
	if r.done {
		return
	}
	// Let queued picks and camera flights finish first.
	if len(s.injectQueue) > 0 || (s.camera != nil && s.camera.Flying()) {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		s.Screenshot(st.Label)
	case "pick":
		s.InjectPick(st.X, st.Y)
	case "fly":
		if s.camera != nil {
			d := st.Duration
			if d <= 0 {
				d = 1
			}
			s.camera.FlyTo(mgl32.Vec3(st.Target), d, ease.InOutQuad)
		}
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}
