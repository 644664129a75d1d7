// Package fresh provides Value, a lazily computed value that is recomputed
// when it is judged stale.
//
// A Value wraps a zero-argument producer. The first Get computes the value;
// later Gets reuse it until it expires. Expiry is the logical OR of:
//
//   - Time expiry: the value is older than Policy.Expiry.
//   - Referential expiry: Policy.Probe returned two consecutive present
//     signatures that differ.
//
// The referential rule is deliberately asymmetric. A probe that goes from
// absent to present, or from present to absent, does not expire the value;
// only a change between two present signatures does. This keeps a value
// stable while the object it tracks is temporarily gone.
//
// # Locking
//
// Lock suspends expiry until Unlock, so several Gets made during one
// evaluation step observe the same value. Invalidate forces the next Get to
// recompute whether or not the value is locked. Lock is a policy flag, not a
// mutex: a Value is not safe for concurrent use and callers sharing one across
// goroutines must serialize access themselves.
package fresh

import (
	"time"
)

// DefaultExpiry is used when Policy.Expiry is zero.
const DefaultExpiry = 10 * time.Second

// NeverExpire disables time expiry.
const NeverExpire time.Duration = -1

// Producer computes a fresh value.
type Producer[T any] func() (T, error)

// Probe reports the current signature of the object a value depends on.
// Build one with ProbeOf; the zero Probe disables referential expiry.
type Probe struct {
	fn func() (any, bool)
}

// ProbeOf wraps fn as a Probe. fn reports the current signature and whether
// there is anything to compare (present is false when, for example, the
// tracked window does not exist). The type parameter keeps signatures
// comparable with ==.
func ProbeOf[S comparable](fn func() (S, bool)) Probe {
	return Probe{fn: func() (any, bool) {
		s, ok := fn()
		if !ok {
			return nil, false
		}
		return s, true
	}}
}

// Enabled reports whether p was built by ProbeOf.
func (p Probe) Enabled() bool {
	return p.fn != nil
}

// Observe samples the probe once. An absent observation is (nil, false).
func (p Probe) Observe() (signature any, present bool) {
	if p.fn == nil {
		return nil, false
	}
	return p.fn()
}

// Policy configures when a Value expires.
type Policy struct {
	// Expiry is the maximum age of a value. Zero means DefaultExpiry and
	// NeverExpire (or any negative duration) disables time expiry.
	Expiry time.Duration
	// Probe enables referential expiry when built by ProbeOf.
	Probe Probe
	// Now overrides the clock. Default: time.Now.
	Now func() time.Time
}

func (p *Policy) defaults() {
	if p.Expiry == 0 {
		p.Expiry = DefaultExpiry
	}
	if p.Now == nil {
		p.Now = time.Now
	}
}

// Value holds a lazily computed T.
type Value[T any] struct {
	produce Producer[T]
	policy  Policy

	current      T
	needsRefresh bool
	computedAt   time.Time
	locked       bool

	lastSig     any
	lastPresent bool
}

// New creates an unpopulated Value. The producer is not called until the
// first Get.
func New[T any](produce Producer[T], policy Policy) *Value[T] {
	policy.defaults()
	return &Value[T]{
		produce:      produce,
		policy:       policy,
		needsRefresh: true,
	}
}

// Get returns the current value, recomputing it first if a refresh is
// pending, or if it has expired and the Value is not locked.
//
// If the producer fails, the previous value is kept and returned together
// with the error, and the next Get tries again.
func (v *Value[T]) Get() (T, error) {
	if v.needsRefresh {
		return v.refresh(true)
	}
	if v.locked {
		return v.current, nil
	}
	// Both checks run so the probe observation is always recorded.
	timeExpired := v.timeExpired()
	refExpired := v.observe()
	if timeExpired || refExpired {
		return v.refresh(false)
	}
	return v.current, nil
}

// Peek returns the current value without refreshing. ok is false until the
// first successful compute.
func (v *Value[T]) Peek() (value T, ok bool) {
	return v.current, !v.computedAt.IsZero()
}

// Invalidate marks the value as needing a refresh. The next Get recomputes
// even if the Value is locked.
func (v *Value[T]) Invalidate() {
	v.needsRefresh = true
}

// NeedsRefresh reports whether the next Get will recompute unconditionally.
func (v *Value[T]) NeedsRefresh() bool {
	return v.needsRefresh
}

// Lock prevents expiry from refreshing the value until Unlock.
func (v *Value[T]) Lock() {
	v.locked = true
}

// Unlock re-enables expiry.
func (v *Value[T]) Unlock() {
	v.locked = false
}

// Locked reports whether the Value is locked.
func (v *Value[T]) Locked() bool {
	return v.locked
}

// ComputedAt returns when the value was last computed, or the zero time.
func (v *Value[T]) ComputedAt() time.Time {
	return v.computedAt
}

// Expired reports whether the value is older than the configured expiry. It
// does not consult the probe.
func (v *Value[T]) Expired() bool {
	return !v.computedAt.IsZero() && v.timeExpired()
}

func (v *Value[T]) timeExpired() bool {
	if v.policy.Expiry < 0 {
		return false
	}
	return v.policy.Now().After(v.computedAt.Add(v.policy.Expiry))
}

// observe calls the probe once, records the observation and reports whether
// it expires the value.
func (v *Value[T]) observe() bool {
	if !v.policy.Probe.Enabled() {
		return false
	}
	sig, present := v.policy.Probe.Observe()
	changed := v.lastPresent && present && sig != v.lastSig
	v.lastSig, v.lastPresent = sig, present
	return changed
}

// refresh runs the producer. When probe is set the probe is sampled after a
// successful compute to become the new baseline; callers that already
// observed the probe during this Get pass false so it runs once per Get.
func (v *Value[T]) refresh(probe bool) (T, error) {
	val, err := v.produce()
	if err != nil {
		v.needsRefresh = true
		return v.current, err
	}
	v.current = val
	v.needsRefresh = false
	v.computedAt = v.policy.Now()
	if probe && v.policy.Probe.Enabled() {
		v.lastSig, v.lastPresent = v.policy.Probe.Observe()
	}
	return v.current, nil
}
