package notify

import (
	"fmt"
	"io"
	"sync"
)

// Notifier reports user-facing failure messages. Calls are fire-and-forget.
type Notifier interface {
	ReportError(message string)
}

// WriterNotifier prints messages for a terminal user.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) ReportError(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	// write errors are dropped, there is nobody left to tell
	_, _ = fmt.Fprintf(n.w, "error: %s\n", message)
}

// Multi fans a message out to every notifier in order.
type Multi []Notifier

func (m Multi) ReportError(message string) {
	for _, n := range m {
		n.ReportError(message)
	}
}
