package reactive

import "errors"

// Object is the shape of a tracked plain object. Nested objects are nested
// Objects, arrays are []any, everything else is treated as a scalar value.
// The alias (rather than a defined type) lets callers pass ordinary
// map[string]any literals without conversion.
type Object = map[string]any

// Getter is a computed property stored as a value on an Object. It is
// re-evaluated on every read, bound to the live facade, and never cached.
type Getter func(self *Proxy) any

// Method is a callable stored as a value on an Object. Invocation always
// substitutes the live facade as the receiver, so state reads and writes
// inside a method go through the reactive paths.
type Method func(self *Proxy, args ...any) any

// BoundMethod is what reading a Method-valued key returns: the original
// function with the facade already bound.
type BoundMethod func(args ...any) any

// ChangeFunc is a subscriber callback. For writes it receives the new and
// previous values with isRead false; for read notifications both value
// arguments carry the value that was read and isRead is true.
type ChangeFunc func(p *Proxy, key string, value, previous any, isRead bool)

// SubscribeFunc registers a subscriber; see Instance.Subscribe.
type SubscribeFunc func(selector func(), cb ChangeFunc, mode RecurseMode, onRead bool) (unsubscribe func())

// RecurseMode controls how far Subscribe widens the recorded target set
// after the selector has run.
type RecurseMode int

const (
	// RecurseNone subscribes exactly the properties the selector read.
	RecurseNone RecurseMode = iota
	// RecurseChildren additionally folds in one level of each selected
	// nested object's own data properties.
	RecurseChildren
	// RecurseDeep recurses through all levels of nested objects; arrays
	// are walked element-wise for nested objects, not subscribed directly.
	RecurseDeep
)

// EffectPair couples an effect body with its dependency selector. Fn may
// return a cleanup that runs before the next invocation. Fn re-runs
// whenever Deps() yields a dependency slice unequal to the previous one.
type EffectPair struct {
	Fn   func() func()
	Deps func() []any
}

// HistorySettings configures the change log at instance creation.
type HistorySettings struct {
	Enabled  bool
	MaxDepth int
}

// Options is the bag accepted by UseReactive.
type Options struct {
	// Name distinguishes multiple UseReactive call sites sharing one host.
	Name string
	// Init runs exactly once, at first proxy construction.
	Init func(p *Proxy, subscribe SubscribeFunc, h *History)
	// Effects are registered with the host's effect mechanism every render.
	Effects []EffectPair
	// History configures the change log.
	History HistorySettings
	// AllowBackgroundMutations opts this instance in to observing live
	// mutations performed by other instances sharing the same underlying
	// object, instead of being insulated by a copy-on-write override.
	AllowBackgroundMutations bool
	// NoRender suppresses the host re-render trigger entirely, for callers
	// where an external store owns the render-triggering responsibility.
	NoRender bool
	// DevSync enables the full-diff pass that drops tracking entries for
	// keys no longer present on the object.
	DevSync bool
}

// ErrNilHost is the panic value when UseReactive is invoked without a host
// environment. This is a usage error and is not recoverable.
var ErrNilHost = errors.New("reactive: UseReactive called with a nil host")
