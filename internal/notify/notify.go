// Package notify carries the transient messages shown to the user after an operation.
package notify

import "sync"

// Level of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is one transient message.
type Notification struct {
	Level   Level  `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Notifier receives notifications.
type Notifier interface {
	Notify(Notification)
}

// Success builds a success notification.
func Success(title, message string) Notification {
	return Notification{Level: LevelSuccess, Title: title, Message: message}
}

// Error builds an error notification.
func Error(title, message string) Notification {
	return Notification{Level: LevelError, Title: title, Message: message}
}

// Recorder collects notifications, typically for the lifetime of one request.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Notify implements Notifier.
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	r.items = append(r.items, n)
	r.mu.Unlock()
}

// All returns the notifications recorded so far, oldest first.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification{}, r.items...)
}
