package reactive

// trackEntry is the per-property metadata of a tracked object. cached holds
// the last value observed from an externally supplied state (not proxy
// writes); modified flips when a write arrives through the facade and makes
// proxy values win over prop values on the next sync.
type trackEntry struct {
	modified bool
	cached   any
	child    *trackMap
}

// trackMap holds the tracking metadata of one tracked object, keyed by
// property name.
type trackMap struct {
	entries map[string]*trackEntry
}

func newTrackMap() *trackMap {
	return &trackMap{entries: map[string]*trackEntry{}}
}

func (tm *trackMap) ensure(key string) *trackEntry {
	e, ok := tm.entries[key]
	if !ok {
		e = &trackEntry{}
		tm.entries[key] = e
	}
	return e
}

// syncObject reconciles obj's tracking metadata against an externally
// supplied fresh copy. incoming may be nil, in which case the current
// values stand in for the replacement values (first render, or a caller
// that reuses the same object every render).
//
// Scalar and array keys take the incoming value unless a proxy write
// already marked them modified and the incoming value matches what was
// supplied last time; functions and getters are redefined as-is and never
// tracked as data; nested objects get a lazily created child map and
// recurse. Keys absent from incoming keep their current value. Nothing is
// ever deleted here; see pruneStale.
func syncObject(obj Object, tm *trackMap, incoming Object) {
	for key, cur := range obj {
		if isBookkeepingKey(key) {
			continue
		}

		switch cur.(type) {
		case Getter, Method:
			if incoming != nil {
				if nv, ok := incoming[key]; ok {
					obj[key] = nv
				}
			}
			continue
		}

		if nested, ok := cur.(Object); ok {
			entry := tm.ensure(key)
			if entry.child == nil {
				entry.child = newTrackMap()
			}
			var inChild Object
			if incoming != nil {
				inChild, _ = incoming[key].(Object)
			}
			syncObject(nested, entry.child, inChild)
			continue
		}

		entry := tm.ensure(key)
		next := cur
		if incoming != nil {
			if nv, ok := incoming[key]; ok {
				next = nv
			}
		}
		if !entry.modified || !IsEqual(entry.cached, next) {
			// The modified flag is preserved; only the value is refreshed.
			obj[key] = next
		}
		if arr, ok := next.([]any); ok {
			// Arrays are cached as plain copies so in-place divergence of
			// the live slice cannot alias the snapshot.
			entry.cached = copySlice(arr)
		} else {
			entry.cached = next
		}
	}
}

// pruneStale drops tracking entries whose key is no longer present on the
// object. This is the optional full-diff reconciliation pass; it touches
// only the engine's own bookkeeping, never user properties.
func (tm *trackMap) pruneStale(obj Object) {
	for key, entry := range tm.entries {
		cur, ok := obj[key]
		if !ok {
			delete(tm.entries, key)
			continue
		}
		if entry.child != nil {
			if nested, isObj := cur.(Object); isObj {
				entry.child.pruneStale(nested)
			} else {
				entry.child = nil
			}
		}
	}
}
