package domain

import "fmt"

// LockMap records which slot positions are pinned during regeneration.
// A missing key means unlocked.
type LockMap map[string]bool

// LockKey builds the key for a slot position, e.g. "0-breakfast-0" or "3-snack-1".
// Breakfast, lunch and dinner always use position 0.
func LockKey(dayIndex int, kind SlotKind, position int) string {
	return fmt.Sprintf("%d-%s-%d", dayIndex, kind.lockName(), position)
}

// IsLocked reports whether the given position is pinned
func (m LockMap) IsLocked(dayIndex int, kind SlotKind, position int) bool {
	return m[LockKey(dayIndex, kind, position)]
}

// Toggle returns a copy of the map with the position's lock flipped
func (m LockMap) Toggle(dayIndex int, kind SlotKind, position int) LockMap {
	out := make(LockMap, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	key := LockKey(dayIndex, kind, position)
	if out[key] {
		delete(out, key)
	} else {
		out[key] = true
	}
	return out
}
