// Package history keeps full-snapshot undo/redo stacks for a value type.
//
// Every entry is an independent deep copy produced by the value's Clone
// method. Clone must not share mutable storage between the original and the
// copy; if it does, later edits would rewrite entries already on the stacks.
package history

// DefaultLimit is the maximum depth of each stack.
const DefaultLimit = 20

// Snapshot is implemented by values that can produce a deep copy of
// themselves.
type Snapshot[T any] interface {
	Clone() T
}

// Manager holds the current value together with its history (undo) and
// future (redo) stacks. It is not safe for concurrent use.
type Manager[T Snapshot[T]] struct {
	current T
	past    []T
	future  []T
	limit   int
}

// New returns a Manager starting at initial with empty stacks. A limit
// below 1 means DefaultLimit.
func New[T Snapshot[T]](initial T, limit int) *Manager[T] {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Manager[T]{current: initial.Clone(), limit: limit}
}

// Current returns a copy of the current value.
func (m *Manager[T]) Current() T {
	return m.current.Clone()
}

// Apply clones the current value, runs fn on the clone and, if fn succeeds,
// pushes the previous value onto the history stack, clears the future stack
// and installs the clone. When fn fails nothing changes.
func (m *Manager[T]) Apply(fn func(*T) error) error {
	next := m.current.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	m.past = push(m.past, m.current, m.limit)
	m.future = nil
	m.current = next
	return nil
}

// Undo restores the most recent history entry. It reports false and does
// nothing when there is nothing to undo.
func (m *Manager[T]) Undo() bool {
	if len(m.past) == 0 {
		return false
	}
	prev := m.past[len(m.past)-1]
	m.past = m.past[:len(m.past)-1]
	m.future = push(m.future, m.current, m.limit)
	m.current = prev
	return true
}

// Redo re-applies the most recently undone value.
func (m *Manager[T]) Redo() bool {
	if len(m.future) == 0 {
		return false
	}
	next := m.future[len(m.future)-1]
	m.future = m.future[:len(m.future)-1]
	m.past = push(m.past, m.current, m.limit)
	m.current = next
	return true
}

// CanUndo reports whether Undo would change the value.
func (m *Manager[T]) CanUndo() bool { return len(m.past) > 0 }

// CanRedo reports whether Redo would change the value.
func (m *Manager[T]) CanRedo() bool { return len(m.future) > 0 }

// Depth returns the sizes of the history and future stacks.
func (m *Manager[T]) Depth() (past, future int) {
	return len(m.past), len(m.future)
}

// Reset installs v as the current value and clears both stacks.
func (m *Manager[T]) Reset(v T) {
	m.current = v.Clone()
	m.past = nil
	m.future = nil
}

// push appends v, evicting the oldest entries beyond limit.
func push[T any](stack []T, v T, limit int) []T {
	stack = append(stack, v)
	if over := len(stack) - limit; over > 0 {
		// Drop the oldest entries and zero the vacated tail.
		n := copy(stack, stack[over:])
		clear(stack[n:])
		stack = stack[:n]
	}
	return stack
}
