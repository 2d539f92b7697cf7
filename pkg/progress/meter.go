// Package progress tracks completion of a multi-step task and reports it as a
// whole percentage through a callback.
//
// A Meter is not safe for concurrent use; guard it with a mutex when several
// goroutines advance the same task.
package progress

// Integer constrains the step counter to a built-in integer type.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Callback receives the current completion percentage, from 0 to 100.
type Callback[T Integer] func(percent T)

// Notification selects when Notify invokes the callback.
type Notification int

const (
	// Auto invokes the callback only when the whole percentage changed since
	// the previous notification.
	Auto Notification = iota

	// Force invokes the callback unconditionally.
	Force
)

// Meter tracks the current step of a task against its total and reports
// progress as a whole percentage. Steps are treated as non-negative counts;
// totals must fit in an int64.
type Meter[T Integer] struct {
	total       T
	current     T
	pastPercent T
	callback    Callback[T]
}

// NewMeter creates a meter for a task of total steps. A total below 1 is
// raised to 1 to keep the percentage well defined. A nil callback disables
// notifications until SetCallback provides one.
func NewMeter[T Integer](total T, callback Callback[T]) *Meter[T] {
	if total < 1 {
		total = 1
	}
	return &Meter[T]{total: total, callback: callback}
}

// SetTotal replaces the total number of steps. A total below 1 is raised to 1.
func (m *Meter[T]) SetTotal(total T) {
	if total < 1 {
		total = 1
	}
	m.total = total
}

// SetCallback replaces the notification callback.
func (m *Meter[T]) SetCallback(callback Callback[T]) {
	m.callback = callback
}

// Increment advances the current step by one.
func (m *Meter[T]) Increment() {
	m.current++
}

// IncrementBy advances the current step by amount.
func (m *Meter[T]) IncrementBy(amount T) {
	m.current += amount
}

// Reset returns the current step to zero without touching the last reported
// percentage, so the next Auto notification fires as soon as progress resumes.
func (m *Meter[T]) Reset() {
	m.current = 0
}

// Current returns the current step, unclamped.
func (m *Meter[T]) Current() T {
	return m.current
}

// Notify reports progress through the callback. The current step is clamped
// to the total first. With Auto the callback runs only when the whole
// percentage changed since the last report; with Force it always runs.
func (m *Meter[T]) Notify(n Notification) {
	if m.current > m.total {
		m.current = m.total
	}

	// Widened so small integer types survive the multiplication by 100.
	percent := T(int64(m.current) * 100 / int64(m.total))
	if percent != m.pastPercent || n == Force {
		m.pastPercent = percent
		if m.callback != nil {
			m.callback(percent)
		}
	}
}
