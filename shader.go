package grove

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Built-in Kage shader sources ---
// All shaders use //kage:unit pixels. Vertex colors arrive premultiplied.

// ShaderUnlit draws vertex colors modulated by the source texture.
const ShaderUnlit = "unlit"

// ShaderTint multiplies the output by the Tint uniform.
const ShaderTint = "tint"

const unlitShaderSrc = `//kage:unit pixels
package main

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	return imageSrc0At(src) * color
}
`

const tintShaderSrc = `//kage:unit pixels
package main

var Tint vec4

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src) * color
	return vec4(c.rgb*Tint.rgb, c.a) * Tint.a
}
`

// KageShader is a named Kage program owned by a ShaderLibrary.
type KageShader struct {
	name    string
	src     []byte
	program *ebiten.Shader
	lib     *ShaderLibrary

	// Uniforms are passed to every draw made with this shader.
	Uniforms map[string]any
}

// Name returns the shader's registered name.
func (s *KageShader) Name() string { return s.name }

// Program returns the compiled program, or nil while the device is lost.
func (s *KageShader) Program() *ebiten.Shader { return s.program }

// Activate records s as the library's active shader. It fails while the
// program is released. Meshes draw with the handle their node resolved.
func (s *KageShader) Activate() error {
	if s.program == nil {
		return fmt.Errorf("%w: %q", ErrShaderUnavailable, s.name)
	}
	s.lib.active = s
	return nil
}

// ShaderLibrary compiles and caches Kage shaders by name. It implements
// ShaderResolver.
type ShaderLibrary struct {
	shaders map[string]*KageShader
	active  *KageShader
}

// NewShaderLibrary creates a library preloaded with the built-in shaders.
func NewShaderLibrary() (*ShaderLibrary, error) {
	l := &ShaderLibrary{shaders: make(map[string]*KageShader)}
	if err := l.Register(ShaderUnlit, []byte(unlitShaderSrc)); err != nil {
		return nil, err
	}
	if err := l.Register(ShaderTint, []byte(tintShaderSrc)); err != nil {
		return nil, err
	}
	l.shaders[ShaderTint].Uniforms = map[string]any{"Tint": []float32{1, 1, 1, 1}}
	return l, nil
}

// Register compiles src and stores it under name. Re-registering a name
// swaps the program of the existing shader in place, so nodes holding it
// keep working. A failed compile leaves the previous program untouched.
func (l *ShaderLibrary) Register(name string, src []byte) error {
	prog, err := ebiten.NewShader(src)
	if err != nil {
		return fmt.Errorf("grove: compile shader %q: %w", name, err)
	}
	if old, ok := l.shaders[name]; ok {
		if old.program != nil {
			old.program.Deallocate()
		}
		old.program = prog
		old.src = src
		return nil
	}
	l.shaders[name] = &KageShader{name: name, src: src, program: prog, lib: l}
	return nil
}

// ResolveShader returns the shader registered under name.
func (l *ShaderLibrary) ResolveShader(name string) (Shader, error) {
	s, ok := l.shaders[name]
	if !ok {
		return nil, fmt.Errorf("grove: unknown shader %q", name)
	}
	return s, nil
}

// Names returns the registered shader names, sorted.
func (l *ShaderLibrary) Names() []string {
	names := make([]string, 0, len(l.shaders))
	for name := range l.shaders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Active returns the shader activated last, or nil.
func (l *ShaderLibrary) Active() *KageShader { return l.active }

// ClearActive returns to the default pipeline.
func (l *ShaderLibrary) ClearActive() { l.active = nil }

// OnLostDevice releases every compiled program. Shaders stay registered
// and fail activation until OnRestore.
func (l *ShaderLibrary) OnLostDevice() {
	for _, s := range l.shaders {
		if s.program != nil {
			s.program.Deallocate()
			s.program = nil
		}
	}
	l.active = nil
}

// OnRestore recompiles every released program.
func (l *ShaderLibrary) OnRestore() error {
	var errs []error
	for _, name := range l.Names() {
		s := l.shaders[name]
		if s.program != nil {
			continue
		}
		prog, err := ebiten.NewShader(s.src)
		if err != nil {
			report(slog.LevelError, "ShaderLibrary.OnRestore", "failed to recompile shader", "shader", name, "err", err)
			errs = append(errs, fmt.Errorf("grove: compile shader %q: %w", name, err))
			continue
		}
		s.program = prog
	}
	return errors.Join(errs...)
}
