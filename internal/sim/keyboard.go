package sim

import (
	"errors"
	"fmt"
	"sync"

	"liveframe/internal/hotkey"
)

// ErrHotkeyTaken is returned when a binding is already registered, the way
// RegisterHotKey fails when another program owns the combination.
var ErrHotkeyTaken = errors.New("hotkey already registered")

// Keyboard is a hotkey.Registrar whose presses are simulated with Press.
type Keyboard struct {
	mu       sync.Mutex
	byID     map[int]hotkey.Binding
	taken    map[hotkey.Binding]bool
	dispatch func(id int)
}

// NewKeyboard creates a keyboard with no registrations.
func NewKeyboard() *Keyboard {
	return &Keyboard{
		byID:  make(map[int]hotkey.Binding),
		taken: make(map[hotkey.Binding]bool),
	}
}

// Reserve marks b as owned by another program.
func (k *Keyboard) Reserve(b hotkey.Binding) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.taken[b] = true
}

// SetHandler sets where presses of registered bindings are reported.
func (k *Keyboard) SetHandler(fn func(id int)) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.dispatch = fn
}

func (k *Keyboard) Register(id int, b hotkey.Binding) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.taken[b] {
		return fmt.Errorf("%s: %w", b, ErrHotkeyTaken)
	}
	k.taken[b] = true
	k.byID[id] = b
	return nil
}

func (k *Keyboard) Unregister(id int) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	b, ok := k.byID[id]
	if !ok {
		return fmt.Errorf("hotkey %d is not registered", id)
	}
	delete(k.byID, id)
	delete(k.taken, b)
	return nil
}

// Registered returns how many hotkeys are currently registered.
func (k *Keyboard) Registered() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.byID)
}

// Press reports b if it is registered. It returns false for unbound keys.
func (k *Keyboard) Press(b hotkey.Binding) bool {
	k.mu.Lock()
	id := -1
	for i, reg := range k.byID {
		if reg == b {
			id = i
			break
		}
	}
	fn := k.dispatch
	k.mu.Unlock()

	if id < 0 || fn == nil {
		return false
	}
	fn(id)
	return true
}
