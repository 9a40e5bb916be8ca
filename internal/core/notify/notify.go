// Package notify is the user-visible message surface. The core publishes
// info/warning/error notifications to a synchronous bus; the CLI prints
// them, the browser shows them as toasts, tests record them.
package notify

import (
	"fmt"
	"time"
)

// Level represents the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a single user-facing message.
type Notification struct {
	Level     Level
	Message   string
	CreatedAt time.Time
}

// Bus fans notifications out to subscribers synchronously, in subscribe
// order. All use is on the host event loop; there is no locking.
type Bus struct {
	subs []func(Notification)
	now  func() time.Time
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{now: time.Now}
}

// Subscribe registers a handler for every subsequent notification.
func (b *Bus) Subscribe(fn func(Notification)) {
	b.subs = append(b.subs, fn)
}

// Publish delivers a notification to all subscribers.
func (b *Bus) Publish(level Level, message string) {
	n := Notification{Level: level, Message: message, CreatedAt: b.now()}
	for _, fn := range b.subs {
		fn(n)
	}
}

// Infof publishes a formatted info notification.
func (b *Bus) Infof(format string, args ...any) {
	b.Publish(LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf publishes a formatted warning notification.
func (b *Bus) Warnf(format string, args ...any) {
	b.Publish(LevelWarning, fmt.Sprintf(format, args...))
}

// Errorf publishes a formatted error notification.
func (b *Bus) Errorf(format string, args ...any) {
	b.Publish(LevelError, fmt.Sprintf(format, args...))
}

// Recorder is a test subscriber that keeps every notification.
type Recorder struct {
	Notifications []Notification
}

// Attach subscribes the recorder to a bus.
func (r *Recorder) Attach(b *Bus) {
	b.Subscribe(func(n Notification) {
		r.Notifications = append(r.Notifications, n)
	})
}

// Messages returns the recorded messages at a level.
func (r *Recorder) Messages(level Level) []string {
	var out []string
	for _, n := range r.Notifications {
		if n.Level == level {
			out = append(out, n.Message)
		}
	}
	return out
}
