package session

// cursor tracks the highlighted index of one list. Both the browse list and
// the result list share this single implementation; the mode decides which
// cursor is authoritative. Movement wraps circularly.
type cursor struct {
	index  int
	active bool
}

// reset points the cursor at the first item, or deactivates it for an empty
// list.
func (c *cursor) reset(length int) {
	c.index = 0
	c.active = length > 0
}

// clamp keeps the selection valid after the list shrinks or grows.
func (c *cursor) clamp(length int) {
	if length == 0 {
		c.index = 0
		c.active = false
		return
	}
	if !c.active {
		c.reset(length)
		return
	}
	if c.index >= length {
		c.index = length - 1
	}
}

// next moves down one item, wrapping past the end to the first.
func (c *cursor) next(length int) {
	if length == 0 {
		c.active = false
		return
	}
	if !c.active {
		c.reset(length)
		return
	}
	c.index = (c.index + 1) % length
}

// prev moves up one item, wrapping past the start to the last.
func (c *cursor) prev(length int) {
	if length == 0 {
		c.active = false
		return
	}
	if !c.active {
		c.reset(length)
		return
	}
	c.index = (c.index - 1 + length) % length
}

// selection returns the selected index, or ok=false for an empty list.
func (c *cursor) selection() (int, bool) {
	if !c.active {
		return 0, false
	}
	return c.index, true
}
