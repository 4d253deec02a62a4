package reactive

// Host is what the engine needs from its surrounding component framework:
// a coalescing re-render trigger, a persistent per-instance reference slot
// that survives repeated invocations of the same logical component, and an
// effect mechanism with a dependency-array re-run contract.
type Host interface {
	RequestRender()
	Ref(name string, init func() any) any
	Effect(fn func() func(), deps func() []any)
}

type hostEffect struct {
	fn      func() func()
	deps    func() []any
	last    []any
	cleanup func()
	ran     bool
}

// ManualHost is the reference Host implementation: a single logical
// component instance driven by explicit Render calls. Render requests are
// counted rather than acted on, so a test or an outer loop decides when to
// actually re-run the component function.
type ManualHost struct {
	refs    map[string]any
	effects []*hostEffect
	cursor  int

	renderRequests int
	renders        int
}

func NewManualHost() *ManualHost {
	return &ManualHost{refs: map[string]any{}}
}

func (h *ManualHost) RequestRender() {
	h.renderRequests++
}

func (h *ManualHost) Ref(name string, init func() any) any {
	if v, ok := h.refs[name]; ok {
		return v
	}
	v := init()
	h.refs[name] = v
	return v
}

// Effect slots match up by call order across renders, so component code
// must register the same effects in the same order every render.
func (h *ManualHost) Effect(fn func() func(), deps func() []any) {
	if h.cursor < len(h.effects) {
		e := h.effects[h.cursor]
		e.fn, e.deps = fn, deps
	} else {
		h.effects = append(h.effects, &hostEffect{fn: fn, deps: deps})
	}
	h.cursor++
}

// Render runs one component invocation: pending render requests are
// consumed, the component function executes, and effects whose
// dependencies changed are flushed.
func (h *ManualHost) Render(component func()) {
	h.cursor = 0
	h.renderRequests = 0
	component()
	h.FlushEffects()
	h.renders++
}

func (h *ManualHost) FlushEffects() {
	for _, e := range h.effects {
		var deps []any
		if e.deps != nil {
			deps = e.deps()
		}
		if e.ran && e.deps != nil && IsEqual(deps, e.last) {
			continue
		}
		if e.cleanup != nil {
			e.cleanup()
		}
		if e.fn != nil {
			e.cleanup = e.fn()
		}
		e.ran = true
		e.last = deps
	}
}

// RenderRequests reports how many re-renders were requested since the last
// Render call.
func (h *ManualHost) RenderRequests() int {
	return h.renderRequests
}

func (h *ManualHost) Renders() int {
	return h.renders
}

// Teardown runs outstanding effect cleanups and disposes every engine
// instance held in a ref slot. The host is reusable afterwards.
func (h *ManualHost) Teardown() {
	for _, e := range h.effects {
		if e.cleanup != nil {
			e.cleanup()
			e.cleanup = nil
		}
	}
	h.effects = nil
	h.cursor = 0
	for _, v := range h.refs {
		if in, ok := v.(*Instance); ok {
			in.Dispose()
		}
	}
	h.refs = map[string]any{}
}
