package reactive

import (
	mapset "github.com/deckarep/golang-set/v2"
)

type targetKey struct {
	obj uintptr
	key string
}

type subscriber struct {
	cb        ChangeFunc
	recording bool
	onRead    bool
	active    bool
	targets   mapset.Set[targetKey]
}

// registry is the ordered list of live subscribers for one instance.
// Notification order is registration order, always synchronous.
type registry struct {
	subs []*subscriber
}

// record appends (object, key) to the target set of every subscriber that
// is currently replaying its selector.
func (r *registry) record(obj uintptr, key string) {
	for _, s := range r.subs {
		if s.active && s.recording {
			s.targets.Add(targetKey{obj: obj, key: key})
		}
	}
}

func (r *registry) notifyWrite(p *Proxy, key string, value, prev any) {
	tk := targetKey{obj: p.id(), key: key}
	// Snapshot so a callback may unsubscribe (or subscribe) mid-flight.
	subs := make([]*subscriber, len(r.subs))
	copy(subs, r.subs)
	for _, s := range subs {
		if s.active && !s.recording && s.targets.Contains(tk) {
			s.cb(p, key, value, prev, false)
		}
	}
}

func (r *registry) notifyRead(p *Proxy, key string, value any) {
	tk := targetKey{obj: p.id(), key: key}
	subs := make([]*subscriber, len(r.subs))
	copy(subs, r.subs)
	for _, s := range subs {
		if s.active && !s.recording && s.onRead && s.targets.Contains(tk) {
			s.cb(p, key, value, value, true)
		}
	}
}

func (r *registry) remove(target *subscriber) {
	for i, s := range r.subs {
		if s == target {
			r.subs = append(r.subs[:i], r.subs[i+1:]...)
			return
		}
	}
}

// Subscribe runs selector exactly once with this subscriber in recording
// mode: every property read through any of the instance's proxies becomes
// a target (duplicates suppressed by the set). Afterwards the subscriber
// fires synchronously on every value-changing write to a target, and on
// matching reads too when onRead is set. The returned unsubscribe closure
// is idempotent.
func (in *Instance) Subscribe(selector func(), cb ChangeFunc, mode RecurseMode, onRead bool) (unsubscribe func()) {
	s := &subscriber{
		cb:        cb,
		onRead:    onRead,
		recording: true,
		active:    true,
		targets:   mapset.NewThreadUnsafeSet[targetKey](),
	}
	in.registry.subs = append(in.registry.subs, s)
	selector()
	s.recording = false

	if mode != RecurseNone {
		in.widenTargets(s, mode)
	}

	return func() {
		if !s.active {
			return
		}
		s.active = false
		in.registry.remove(s)
	}
}

// widenTargets folds child properties of every selected nested object into
// the target set: one level for RecurseChildren, all levels for
// RecurseDeep. Arrays are walked element-wise for nested objects rather
// than subscribed directly.
func (in *Instance) widenTargets(s *subscriber, mode RecurseMode) {
	for _, tk := range s.targets.ToSlice() {
		p, ok := in.proxies[tk.obj]
		if !ok {
			continue
		}
		if nested, isObj := p.effective()[tk.key].(Object); isObj {
			walkTargets(s, nested, mode == RecurseDeep)
		}
	}
}

func walkTargets(s *subscriber, obj Object, deep bool) {
	id := objectID(obj)
	for k, v := range obj {
		if isBookkeepingKey(k) {
			continue
		}
		switch v.(type) {
		case Getter, Method:
			continue
		}
		s.targets.Add(targetKey{obj: id, key: k})
		if !deep {
			continue
		}
		switch tv := v.(type) {
		case Object:
			walkTargets(s, tv, true)
		case []any:
			for _, el := range tv {
				if o, ok := el.(Object); ok {
					walkTargets(s, o, true)
				}
			}
		}
	}
}
