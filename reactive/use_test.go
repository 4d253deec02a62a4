package reactive_test

import (
	"testing"

	"github.com/delaneyj/usereactive/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// the facade keeps its identity across renders even when the caller
// supplies a freshly constructed state object every time
func TestStableIdentityAcrossRenders(t *testing.T) {
	h := reactive.NewManualHost()
	t.Cleanup(h.Teardown)

	var first, second *reactive.Proxy
	h.Render(func() {
		first, _, _ = reactive.UseReactive(h, reactive.Object{"a": 1}, nil)
	})
	h.Render(func() {
		second, _, _ = reactive.UseReactive(h, reactive.Object{"a": 1}, nil)
	})
	assert.Same(t, first, second)
}

// a proxy write survives re-renders that supply the same prop value, and
// yields once the prop genuinely changes
func TestSyncModifiedFlagArbitration(t *testing.T) {
	h := reactive.NewManualHost()
	t.Cleanup(h.Teardown)

	render := func(propValue int) *reactive.Proxy {
		var p *reactive.Proxy
		h.Render(func() {
			p, _, _ = reactive.UseReactive(h, reactive.Object{"a": propValue, "b": "static"}, nil)
		})
		return p
	}

	p := render(1)
	require.True(t, p.Set("a", 50))

	// Same prop value as before: the proxy write wins.
	p = render(1)
	assert.Equal(t, 50, p.Get("a"))

	// The prop genuinely changed: the incoming value wins.
	p = render(2)
	assert.Equal(t, 2, p.Get("a"))
}

// untouched keys follow the incoming state every render
func TestSyncRefreshesUnmodifiedKeys(t *testing.T) {
	h := reactive.NewManualHost()
	t.Cleanup(h.Teardown)

	var p *reactive.Proxy
	h.Render(func() {
		p, _, _ = reactive.UseReactive(h, reactive.Object{"a": 1}, nil)
	})
	assert.Equal(t, 1, p.Get("a"))

	h.Render(func() {
		p, _, _ = reactive.UseReactive(h, reactive.Object{"a": 7}, nil)
	})
	assert.Equal(t, 7, p.Get("a"))
}

// nested objects reconcile recursively against the fresh state
func TestSyncNested(t *testing.T) {
	h := reactive.NewManualHost()
	t.Cleanup(h.Teardown)

	newState := func(city string) reactive.Object {
		return reactive.Object{"user": reactive.Object{"city": city, "name": "ada"}}
	}

	var p *reactive.Proxy
	h.Render(func() { p, _, _ = reactive.UseReactive(h, newState("london"), nil) })
	user := p.Get("user").(*reactive.Proxy)
	require.True(t, user.Set("name", "grace"))

	h.Render(func() { p, _, _ = reactive.UseReactive(h, newState("paris"), nil) })
	user = p.Get("user").(*reactive.Proxy)
	assert.Equal(t, "paris", user.Get("city"))
	assert.Equal(t, "grace", user.Get("name"))
}

func TestInitRunsExactlyOnce(t *testing.T) {
	h := reactive.NewManualHost()
	t.Cleanup(h.Teardown)

	inits := 0
	opts := &reactive.Options{
		Init: func(p *reactive.Proxy, _ reactive.SubscribeFunc, _ *reactive.History) {
			inits++
			p.Set("a", 42)
		},
	}
	for i := 0; i < 3; i++ {
		h.Render(func() {
			p, _, _ := reactive.UseReactive(h, reactive.Object{"a": 1}, opts)
			assert.Equal(t, 42, p.Get("a"))
		})
	}
	assert.Equal(t, 1, inits)
}

func TestEffects(t *testing.T) {
	h := reactive.NewManualHost()
	t.Cleanup(h.Teardown)

	runs, cleanups := 0, 0
	var p *reactive.Proxy
	opts := &reactive.Options{
		Effects: []reactive.EffectPair{{
			Fn: func() func() {
				runs++
				return func() { cleanups++ }
			},
			Deps: func() []any { return []any{p.Get("a")} },
		}},
	}
	component := func() {
		p, _, _ = reactive.UseReactive(h, reactive.Object{"a": 1}, opts)
	}

	h.Render(component)
	assert.Equal(t, 1, runs)

	// Unchanged deps: no re-run.
	h.Render(component)
	assert.Equal(t, 1, runs)
	assert.Equal(t, 0, cleanups)

	// Changed deps: cleanup, then re-run.
	p.Set("a", 2)
	h.Render(component)
	assert.Equal(t, 2, runs)
	assert.Equal(t, 1, cleanups)

	h.Teardown()
	assert.Equal(t, 2, cleanups)
}

// NoRender suppresses the render trigger entirely
func TestNoRender(t *testing.T) {
	h := reactive.NewManualHost()
	t.Cleanup(h.Teardown)

	p, _, history := reactive.UseReactive(h, reactive.Object{"a": 1}, &reactive.Options{
		NoRender: true,
		History:  reactive.HistorySettings{Enabled: true},
	})
	h.Render(func() {})

	require.True(t, p.Set("a", 2))
	history.Clear()
	assert.Equal(t, 0, h.RenderRequests())
}

// the dev-mode full diff drops tracking entries for keys the caller
// removed from the underlying object
func TestDevSyncPrunesStaleKeys(t *testing.T) {
	h := reactive.NewManualHost()
	t.Cleanup(h.Teardown)

	state := reactive.Object{"a": 1, "b": 2}
	opts := &reactive.Options{DevSync: true}
	var p *reactive.Proxy
	h.Render(func() { p, _, _ = reactive.UseReactive(h, state, opts) })
	require.True(t, p.Set("b", 3))

	delete(state, "b")
	h.Render(func() { p, _, _ = reactive.UseReactive(h, state, opts) })
	assert.False(t, p.Set("b", 4))
}

// two call sites on one host stay independent via Options.Name
func TestNamedCallSites(t *testing.T) {
	h := reactive.NewManualHost()
	t.Cleanup(h.Teardown)

	p1, _, _ := reactive.UseReactive(h, reactive.Object{"a": 1}, nil)
	p2, _, _ := reactive.UseReactive(h, reactive.Object{"b": 2}, &reactive.Options{Name: "second"})

	assert.NotSame(t, p1, p2)
	assert.Equal(t, 1, p1.Get("a"))
	assert.Equal(t, 2, p2.Get("b"))
}
