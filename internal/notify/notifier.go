package notify

import (
	"sync"
	"time"
)

// Kind distinguishes a status message from an error message.
type Kind int

const (
	Message Kind = iota
	Error
)

// DefaultDuration is how long a notification stays visible unless the
// caller asks for something else.
const DefaultDuration = 5 * time.Second

// Notification is a transient user-facing text with automatic expiry.
type Notification struct {
	Kind Kind
	Text string
}

// Notifier holds at most one live notification. Every Show cancels the
// pending expiry and schedules a new one; there is no queueing. The
// generation counter keeps a superseded expiry from clearing a newer
// notification, since AfterFunc callbacks race with Show.
type Notifier struct {
	mu       sync.Mutex
	current  *Notification
	timer    *time.Timer
	gen      uint64
	onChange func()
}

func New() *Notifier {
	return &Notifier{}
}

// OnChange registers fn to run after every visible change: a new
// notification, an expiry, or an explicit Clear. The hook runs without
// the lock held and may call back into the Notifier.
func (n *Notifier) OnChange(fn func()) {
	n.mu.Lock()
	n.onChange = fn
	n.mu.Unlock()
}

// Show replaces the current notification and restarts its expiry.
// A non-positive duration means DefaultDuration.
func (n *Notifier) Show(kind Kind, text string, d time.Duration) {
	if d <= 0 {
		d = DefaultDuration
	}
	n.mu.Lock()
	n.gen++
	gen := n.gen
	if n.timer != nil {
		n.timer.Stop()
	}
	n.current = &Notification{Kind: kind, Text: text}
	n.timer = time.AfterFunc(d, func() { n.expire(gen) })
	fn := n.onChange
	n.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Clear drops the current notification and its pending expiry.
func (n *Notifier) Clear() {
	n.mu.Lock()
	n.gen++
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	changed := n.current != nil
	n.current = nil
	fn := n.onChange
	n.mu.Unlock()
	if changed && fn != nil {
		fn()
	}
}

// Current returns the live notification, if any.
func (n *Notifier) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notification{}, false
	}
	return *n.current, true
}

func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	if gen != n.gen || n.current == nil {
		n.mu.Unlock()
		return
	}
	n.current = nil
	n.timer = nil
	fn := n.onChange
	n.mu.Unlock()
	if fn != nil {
		fn()
	}
}
