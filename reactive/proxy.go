package reactive

import "sort"

// Proxy is the reactive facade over one tracked object. Reads record
// dependencies for any subscriber currently in recording mode, getters are
// recomputed on every read bound to the facade, nested objects come back
// as cached nested proxies, arrays come back as ArrayProxy wrappers and
// methods come back bound to the facade.
type Proxy struct {
	inst *Instance
	obj  Object
	tm   *trackMap
}

func (p *Proxy) id() uintptr {
	return objectID(p.obj)
}

func (p *Proxy) effective() Object {
	return cowEffective(p.inst, p.obj)
}

// Underlying exposes the canonical plain object behind the facade. Mutating
// it directly bypasses every engine guarantee.
func (p *Proxy) Underlying() Object {
	return p.obj
}

// Keys lists the tracked object's own keys in sorted order, excluding the
// engine's bookkeeping keys.
func (p *Proxy) Keys() []string {
	src := p.effective()
	keys := make([]string, 0, len(src))
	for k := range src {
		if isBookkeepingKey(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether key is part of the tracked shape.
func (p *Proxy) Has(key string) bool {
	_, ok := p.effective()[key]
	return ok
}

func (p *Proxy) Get(key string) any {
	p.inst.registry.record(p.id(), key)

	src := p.effective()
	v, ok := src[key]
	if !ok {
		return nil
	}

	switch tv := v.(type) {
	case Getter:
		out := tv(p)
		p.inst.registry.notifyRead(p, key, out)
		return out
	case Method:
		return BoundMethod(func(args ...any) any {
			return tv(p, args...)
		})
	case Object:
		out := p.childProxy(key, tv)
		p.inst.registry.notifyRead(p, key, out)
		return out
	case []any:
		out := &ArrayProxy{owner: p, key: key}
		p.inst.registry.notifyRead(p, key, out)
		return out
	default:
		p.inst.registry.notifyRead(p, key, v)
		return v
	}
}

// Set assigns a new value to a tracked key. Keys outside the tracked shape
// are rejected with a false return and nothing else happens; that is the
// documented unknown-key policy. Writing a value equal to the current one
// is a successful no-op: no modified flag, no history entry, no render
// request, no notification.
func (p *Proxy) Set(key string, value any) bool {
	return p.inst.setValue(p, key, value, true)
}

// Call invokes the Method stored at key with the facade bound as receiver.
// Returns nil when the key does not hold a Method.
func (p *Proxy) Call(key string, args ...any) any {
	p.inst.registry.record(p.id(), key)
	m, ok := p.effective()[key].(Method)
	if !ok {
		return nil
	}
	return m(p, args...)
}

func (p *Proxy) childProxy(key string, child Object) *Proxy {
	entry := p.tm.ensure(key)
	if entry.child == nil {
		// First sight of this nested object outside a sync pass (for
		// example right after the parent key was replaced wholesale).
		entry.child = newTrackMap()
		syncObject(child, entry.child, nil)
	}
	return p.inst.wrap(child, entry.child)
}
