package reactive_test

import (
	"testing"

	"github.com/delaneyj/usereactive/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writing a non-selected key never fires; a selected key fires exactly once
func TestDependencyTracking(t *testing.T) {
	h := reactive.NewManualHost()
	p, subscribe, _ := reactive.UseReactive(h, reactive.Object{"a": 1, "b": 2}, nil)

	var gotKey string
	var gotNew, gotOld any
	calls := 0
	subscribe(func() { p.Get("a") }, func(_ *reactive.Proxy, key string, value, prev any, isRead bool) {
		calls++
		gotKey, gotNew, gotOld = key, value, prev
		assert.False(t, isRead)
	}, reactive.RecurseNone, false)

	p.Set("b", 20)
	assert.Equal(t, 0, calls)

	p.Set("a", 10)
	require.Equal(t, 1, calls)
	assert.Equal(t, "a", gotKey)
	assert.Equal(t, 10, gotNew)
	assert.Equal(t, 1, gotOld)
}

// selectors that read through a getter subscribe to the getter's inputs
func TestGetterSelectorRecordsInputs(t *testing.T) {
	h := reactive.NewManualHost()
	p, subscribe, _ := reactive.UseReactive(h, reactive.Object{
		"a": 1,
		"b": 2,
		"sum": reactive.Getter(func(self *reactive.Proxy) any {
			return self.Get("a").(int) + self.Get("b").(int)
		}),
	}, nil)

	calls := 0
	subscribe(func() { p.Get("sum") }, func(_ *reactive.Proxy, _ string, _, _ any, _ bool) {
		calls++
	}, reactive.RecurseNone, false)

	p.Set("a", 5)
	assert.Equal(t, 1, calls)
	p.Set("b", 7)
	assert.Equal(t, 2, calls)
}

func TestRecursiveSubscription(t *testing.T) {
	newState := func() reactive.Object {
		return reactive.Object{
			"obj": reactive.Object{
				"top":   1,
				"inner": reactive.Object{"x": 1},
			},
		}
	}

	mutateDeep := func(p *reactive.Proxy, v int) {
		inner := p.Get("obj").(*reactive.Proxy).Get("inner").(*reactive.Proxy)
		require.True(t, inner.Set("x", v))
	}

	t.Run("none does not see child writes", func(t *testing.T) {
		h := reactive.NewManualHost()
		p, subscribe, _ := reactive.UseReactive(h, newState(), nil)
		calls := 0
		subscribe(func() { p.Get("obj") }, func(_ *reactive.Proxy, _ string, _, _ any, _ bool) {
			calls++
		}, reactive.RecurseNone, false)

		mutateDeep(p, 2)
		assert.Equal(t, 0, calls)
	})

	t.Run("children sees one level only", func(t *testing.T) {
		h := reactive.NewManualHost()
		p, subscribe, _ := reactive.UseReactive(h, newState(), nil)
		calls := 0
		subscribe(func() { p.Get("obj") }, func(_ *reactive.Proxy, _ string, _, _ any, _ bool) {
			calls++
		}, reactive.RecurseChildren, false)

		require.True(t, p.Get("obj").(*reactive.Proxy).Set("top", 9))
		assert.Equal(t, 1, calls)

		mutateDeep(p, 2)
		assert.Equal(t, 1, calls)
	})

	t.Run("deep sees all levels", func(t *testing.T) {
		h := reactive.NewManualHost()
		p, subscribe, _ := reactive.UseReactive(h, newState(), nil)
		calls := 0
		subscribe(func() { p.Get("obj") }, func(_ *reactive.Proxy, _ string, _, _ any, _ bool) {
			calls++
		}, reactive.RecurseDeep, false)

		mutateDeep(p, 2)
		assert.Equal(t, 1, calls)
	})
}

func TestOnReadNotification(t *testing.T) {
	h := reactive.NewManualHost()
	p, subscribe, _ := reactive.UseReactive(h, reactive.Object{"a": 1}, nil)

	reads := 0
	subscribe(func() { p.Get("a") }, func(_ *reactive.Proxy, key string, value, prev any, isRead bool) {
		if isRead {
			reads++
			assert.Equal(t, value, prev)
		}
	}, reactive.RecurseNone, true)

	assert.Equal(t, 0, reads)
	p.Get("a")
	assert.Equal(t, 1, reads)
	p.Get("a")
	assert.Equal(t, 2, reads)
}

// read notifications cover object- and array-valued targets too
func TestOnReadNotificationForContainers(t *testing.T) {
	h := reactive.NewManualHost()
	p, subscribe, _ := reactive.UseReactive(h, reactive.Object{
		"user":  reactive.Object{"name": "ada"},
		"items": []any{1, 2},
	}, nil)

	var keys []string
	subscribe(func() { p.Get("user"); p.Get("items") }, func(_ *reactive.Proxy, key string, value, prev any, isRead bool) {
		if isRead {
			keys = append(keys, key)
			assert.Equal(t, value, prev)
		}
	}, reactive.RecurseNone, true)
	assert.Empty(t, keys)

	_, isProxy := p.Get("user").(*reactive.Proxy)
	require.True(t, isProxy)
	_, isArray := p.Get("items").(*reactive.ArrayProxy)
	require.True(t, isArray)
	assert.Equal(t, []string{"user", "items"}, keys)
}

// subscribers fire synchronously in registration order
func TestNotificationOrder(t *testing.T) {
	h := reactive.NewManualHost()
	p, subscribe, _ := reactive.UseReactive(h, reactive.Object{"a": 1}, nil)

	var order []string
	subscribe(func() { p.Get("a") }, func(_ *reactive.Proxy, _ string, _, _ any, _ bool) {
		order = append(order, "first")
	}, reactive.RecurseNone, false)
	subscribe(func() { p.Get("a") }, func(_ *reactive.Proxy, _ string, _, _ any, _ bool) {
		order = append(order, "second")
	}, reactive.RecurseNone, false)

	p.Set("a", 2)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	h := reactive.NewManualHost()
	p, subscribe, _ := reactive.UseReactive(h, reactive.Object{"a": 1}, nil)

	calls := 0
	unsubscribe := subscribe(func() { p.Get("a") }, func(_ *reactive.Proxy, _ string, _, _ any, _ bool) {
		calls++
	}, reactive.RecurseNone, false)

	p.Set("a", 2)
	assert.Equal(t, 1, calls)

	unsubscribe()
	unsubscribe()
	p.Set("a", 3)
	assert.Equal(t, 1, calls)
}

// a callback may unsubscribe itself mid-notification
func TestUnsubscribeDuringNotification(t *testing.T) {
	h := reactive.NewManualHost()
	p, subscribe, _ := reactive.UseReactive(h, reactive.Object{"a": 1}, nil)

	calls := 0
	var unsubscribe func()
	unsubscribe = subscribe(func() { p.Get("a") }, func(_ *reactive.Proxy, _ string, _, _ any, _ bool) {
		calls++
		unsubscribe()
	}, reactive.RecurseNone, false)

	p.Set("a", 2)
	p.Set("a", 3)
	assert.Equal(t, 1, calls)
}
