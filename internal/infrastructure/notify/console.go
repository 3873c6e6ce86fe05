// Package notify prints user-facing notifications for the planner shell
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/savorly/savorly/internal/ports/outbound"
	"go.uber.org/zap"
)

// ConsoleNotifier writes each notification as a toast line and logs it
type ConsoleNotifier struct {
	mu     sync.Mutex
	out    io.Writer
	logger *zap.Logger
}

// NewConsoleNotifier creates a notifier writing to out
func NewConsoleNotifier(out io.Writer, logger *zap.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{out: out, logger: logger.Named("notifier")}
}

// Notify prints the toast. Failures are logged at warn level.
func (n *ConsoleNotifier) Notify(note outbound.Notification) {
	mark := "✓"
	if note.Kind == outbound.NotifyError {
		mark = "✗"
		n.logger.Warn("Notification", zap.String("kind", string(note.Kind)), zap.String("message", note.Message))
	} else {
		n.logger.Info("Notification", zap.String("kind", string(note.Kind)), zap.String("message", note.Message))
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "%s %s\n", mark, note.Message)
}

var _ outbound.Notifier = (*ConsoleNotifier)(nil)
