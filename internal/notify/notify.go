// Package notify carries user-visible, fire-and-forget messages out of the
// cart subsystem. Failures surface here instead of crashing the caller.
package notify

import "log"

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notifier displays a message to the user.
type Notifier interface {
	Display(title, description string, severity Severity)
}

type logNotifier struct {
	logger *log.Logger
}

// NewLog returns a Notifier that writes notifications to the given logger.
func NewLog(logger *log.Logger) Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Display(title, description string, severity Severity) {
	n.logger.Printf("notify severity=%s title=%q description=%q", severity, title, description)
}
