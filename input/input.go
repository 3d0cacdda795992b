// Package input turns raw key and mouse events into one snapshot per tick.
package input

import (
	"fmt"
	"strings"
)

type Key uint8

const (
	Forward Key = iota
	Back
	Left
	Right
	Jump
)

var keyNames = [...]string{
	Forward: "forward",
	Back:    "back",
	Left:    "left",
	Right:   "right",
	Jump:    "jump",
}

func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return fmt.Sprintf("key(%d)", uint8(k))
}

func ParseKey(name string) (Key, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range keyNames {
		if n == name {
			return Key(k), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", name)
}

// Snapshot is what the player sees of the input devices for one tick.
type Snapshot struct {
	Held    map[Key]bool
	Pressed []Key // rising edges since the previous snapshot, in order
	MouseDX float64
	MouseDY float64
}

func (s Snapshot) IsHeld(k Key) bool { return s.Held[k] }

func (s Snapshot) WasPressed(k Key) bool {
	for _, p := range s.Pressed {
		if p == k {
			return true
		}
	}
	return false
}

// Tracker accumulates events between snapshots. It is not safe for
// concurrent use; feed it from the goroutine that polls the window.
type Tracker struct {
	held    map[Key]bool
	pressed []Key
	dx, dy  float64
}

func NewTracker() *Tracker {
	return &Tracker{held: make(map[Key]bool)}
}

// KeyDown records a press. Auto-repeat and presses of an already held key
// are not new edges.
func (t *Tracker) KeyDown(k Key, repeat bool) {
	if repeat || t.held[k] {
		return
	}
	t.held[k] = true
	t.pressed = append(t.pressed, k)
}

func (t *Tracker) KeyUp(k Key) {
	delete(t.held, k)
}

func (t *Tracker) MouseMove(dx, dy float64) {
	t.dx += dx
	t.dy += dy
}

// Release drops every held key, e.g. when the window loses focus.
func (t *Tracker) Release() {
	clear(t.held)
}

// Snapshot returns the current state and clears edges and mouse motion.
func (t *Tracker) Snapshot() Snapshot {
	held := make(map[Key]bool, len(t.held))
	for k, v := range t.held {
		held[k] = v
	}
	s := Snapshot{Held: held, Pressed: t.pressed, MouseDX: t.dx, MouseDY: t.dy}
	t.pressed = nil
	t.dx, t.dy = 0, 0
	return s
}
