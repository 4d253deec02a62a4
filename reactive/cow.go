package reactive

import "sync"

// The copy-on-write coordinator is the one piece of genuinely shared
// mutable state in the engine: a process-global registry keyed by object
// identity, consulted whenever more than one instance wraps the same
// underlying object. The mutex keeps registration and preemption atomic;
// everything else in the engine is per-instance and single-threaded.

type cowView struct {
	seen            uint64
	override        Object
	allowBackground bool
}

type cowRecord struct {
	// obj pins the shared map so its identity cannot be recycled while
	// instances are still registered against it.
	obj     Object
	version uint64
	views   map[*Instance]*cowView
}

var cow = struct {
	mu      sync.Mutex
	records map[uintptr]*cowRecord
}{records: map[uintptr]*cowRecord{}}

func cowRegister(in *Instance, obj Object) {
	id := objectID(obj)
	cow.mu.Lock()
	defer cow.mu.Unlock()

	rec, ok := cow.records[id]
	if !ok {
		rec = &cowRecord{obj: obj, views: map[*Instance]*cowView{}}
		cow.records[id] = rec
	}
	if _, ok := rec.views[in]; !ok {
		rec.views[in] = &cowView{
			seen:            rec.version,
			allowBackground: in.opts.AllowBackgroundMutations,
		}
	}
}

func cowUnregister(in *Instance) {
	cow.mu.Lock()
	defer cow.mu.Unlock()

	for _, id := range in.cowIDs {
		rec, ok := cow.records[id]
		if !ok {
			continue
		}
		delete(rec.views, in)
		if len(rec.views) == 0 {
			delete(cow.records, id)
		}
	}
}

// cowEffective resolves the object an instance should actually read and
// write: its private override once it has fallen behind, otherwise the
// live shared object.
func cowEffective(in *Instance, obj Object) Object {
	cow.mu.Lock()
	defer cow.mu.Unlock()

	if rec, ok := cow.records[objectID(obj)]; ok {
		if v := rec.views[in]; v != nil && v.override != nil {
			return v.override
		}
	}
	return obj
}

// cowSplit runs before an override-holder's own write lands. The lagging
// snapshot may still be shared with other lagging instances, so the writer
// moves onto a private shallow copy first; from then on it diverges alone.
// Returns the object the write should target.
func cowSplit(in *Instance, obj, override Object) Object {
	cow.mu.Lock()
	defer cow.mu.Unlock()

	rec, ok := cow.records[objectID(obj)]
	if !ok {
		return override
	}
	view := rec.views[in]
	if view == nil || view.override == nil {
		return override
	}
	for other, v := range rec.views {
		if other != in && v.override != nil && objectID(v.override) == objectID(view.override) {
			view.override = shallowCopyObject(view.override)
			break
		}
	}
	return view.override
}

// cowRelease drops one object registration for an instance, used when the
// instance stops referencing the object before its own disposal.
func cowRelease(in *Instance, id uintptr) {
	cow.mu.Lock()
	defer cow.mu.Unlock()

	rec, ok := cow.records[id]
	if !ok {
		return
	}
	delete(rec.views, in)
	if len(rec.views) == 0 {
		delete(cow.records, id)
	}
}

// cowPreempt runs before a value-changing write lands on a shared object.
// The writer bumps the shared version; every other lagging instance that
// has not opted in to background mutations receives a shallow pre-write
// snapshot as its override. The snapshot is computed once and shared by
// all lagging instances. Opted-in instances keep the live object and get a
// render request so they reflect the mutation on their next paint.
func cowPreempt(in *Instance, obj Object) {
	cow.mu.Lock()
	defer cow.mu.Unlock()

	rec, ok := cow.records[objectID(obj)]
	if !ok || len(rec.views) < 2 {
		return
	}

	rec.version++
	var snap Object
	for other, view := range rec.views {
		if other == in {
			view.seen = rec.version
			continue
		}
		if view.allowBackground {
			view.seen = rec.version
			other.requestRender()
			continue
		}
		if view.override != nil {
			// Already diverged onto a private branch.
			view.seen = rec.version
			continue
		}
		if view.seen < rec.version {
			if snap == nil {
				snap = shallowCopyObject(obj)
			}
			view.override = snap
			view.seen = rec.version
		}
	}
}
