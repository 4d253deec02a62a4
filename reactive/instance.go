package reactive

// Instance is the engine state behind one UseReactive call site. It lives
// in a host ref slot, so the same instance is handed back on every render
// of the owning component.
type Instance struct {
	host Host
	opts Options

	root     Object
	tracking *trackMap
	proxies  map[uintptr]*Proxy
	registry *registry
	history  *History

	initialized bool
	disposed    bool
	cowIDs      []uintptr
}

func newInstance(h Host, state Object, opts Options) *Instance {
	in := &Instance{
		host:     h,
		opts:     opts,
		root:     state,
		tracking: newTrackMap(),
		proxies:  map[uintptr]*Proxy{},
		registry: &registry{},
	}
	in.history = newHistory(in, opts.History)
	return in
}

// UseReactive is the entry point. state is the current (possibly freshly
// constructed) input object; the first call's object becomes the canonical
// underlying object and later calls are reconciled into it by the sync
// pass, so the returned facade keeps its identity across renders.
//
// Panics with ErrNilHost when called without a host environment. Options
// other than Effects are latched on first call; Effects re-register with
// the host every render, as the effect contract requires.
func UseReactive(h Host, state Object, opts *Options) (*Proxy, SubscribeFunc, *History) {
	if h == nil {
		panic(ErrNilHost)
	}
	var o Options
	if opts != nil {
		o = *opts
	}
	refKey := refKeyInstance
	if o.Name != "" {
		refKey = symbol("instance:" + o.Name)
	}

	in, ok := h.Ref(refKey, func() any { return newInstance(h, state, o) }).(*Instance)
	if !ok {
		panic("reactive: host ref slot holds a foreign value")
	}

	var incoming Object
	if objectID(state) != objectID(in.root) {
		incoming = state
	}
	syncObject(in.effectiveRoot(), in.tracking, incoming)
	if in.opts.DevSync {
		in.tracking.pruneStale(in.effectiveRoot())
	}

	p := in.wrap(in.root, in.tracking)
	if !in.initialized {
		in.initialized = true
		if in.opts.Init != nil {
			in.opts.Init(p, in.Subscribe, in.history)
		}
	}
	for _, ep := range in.opts.Effects {
		h.Effect(ep.Fn, ep.Deps)
	}
	return p, in.Subscribe, in.history
}

func (in *Instance) effectiveRoot() Object {
	return cowEffective(in, in.root)
}

// wrap returns the proxy for obj, creating and registering it on first
// use. Proxies are cached per object identity, so repeated access yields
// the same facade.
func (in *Instance) wrap(obj Object, tm *trackMap) *Proxy {
	id := objectID(obj)
	if p, ok := in.proxies[id]; ok {
		return p
	}
	p := &Proxy{inst: in, obj: obj, tm: tm}
	in.proxies[id] = p
	cowRegister(in, obj)
	in.cowIDs = append(in.cowIDs, id)
	return p
}

// setValue is the single write path: proxy sets, array write-backs and
// history replay all land here. Returns false for keys outside the tracked
// shape (the closed-shape contract: assignment never introduces new keys)
// and true otherwise, including for equal-value no-ops.
func (in *Instance) setValue(p *Proxy, key string, value any, record bool) bool {
	entry, ok := p.tm.entries[key]
	if !ok {
		return false
	}

	target := p.effective()
	prev := target[key]
	if IsEqual(prev, value) {
		return true
	}

	if objectID(target) == objectID(p.obj) {
		// Writing the shared object: insulate other instances first. An
		// instance already diverged onto its override skips this and keeps
		// mutating its private branch.
		cowPreempt(in, p.obj)
	} else {
		// Writing an override: the lagging snapshot may still be shared
		// with other lagging instances, so split onto a private copy.
		target = cowSplit(in, p.obj, target)
	}

	entry.modified = true
	if _, isObj := value.(Object); isObj {
		// A replaced sub-object starts from a clean child map.
		entry.child = nil
	}
	if prevObj, isObj := prev.(Object); isObj {
		in.release(prevObj)
	}
	target[key] = value

	if record {
		in.history.record(p, key, prev, value)
	}
	in.requestRender()
	in.registry.notifyWrite(p, key, value, prev)
	return true
}

// release drops the proxy cache entry and copy-on-write registration of a
// nested object this instance no longer references, so sub-object churn on
// a long-lived instance does not accumulate stale registrations.
func (in *Instance) release(obj Object) {
	id := objectID(obj)
	if _, ok := in.proxies[id]; !ok {
		return
	}
	delete(in.proxies, id)
	for i, cid := range in.cowIDs {
		if cid == id {
			in.cowIDs = append(in.cowIDs[:i], in.cowIDs[i+1:]...)
			break
		}
	}
	cowRelease(in, id)
}

func (in *Instance) requestRender() {
	if in.disposed || in.opts.NoRender {
		return
	}
	in.host.RequestRender()
}

// History returns the instance's change log handle.
func (in *Instance) History() *History {
	return in.history
}

// Dispose tears the instance down: it leaves the copy-on-write registry
// and stops triggering renders. Safe to call more than once.
func (in *Instance) Dispose() {
	if in.disposed {
		return
	}
	in.disposed = true
	cowUnregister(in)
	in.registry.subs = nil
}
