package carousel

// Key is a directional input understood by the controller.
type Key int

const (
	KeyLeft Key = iota
	KeyRight
)

func (k Key) String() string {
	switch k {
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	}
	return "unknown"
}

// Action is a navigation bound to a key.
type Action func(*Controller) bool

// Keymap binds keys to navigation actions.
type Keymap map[Key]Action

// DefaultKeymap binds Left to Previous and Right to Next.
func DefaultKeymap() Keymap {
	return Keymap{
		KeyLeft:  (*Controller).Previous,
		KeyRight: (*Controller).Next,
	}
}

// HandleKey runs the action bound to k. It reports whether the key is bound;
// a bound key is consumed even when the controller is locked. After Close no
// key is bound.
func (c *Controller) HandleKey(k Key) bool {
	c.mu.Lock()
	action, ok := c.keymap[k]
	c.mu.Unlock()
	if !ok || action == nil {
		return false
	}
	action(c)
	return true
}

// Bind replaces the key bindings. It has no effect after Close.
func (c *Controller) Bind(km Keymap) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.keymap = km
}
