package log

// SessionLogger stamps a session ID on every event before forwarding it to
// the wrapped logger. Events that already carry a session ID pass through
// unchanged.
type SessionLogger struct {
	inner     Logger
	sessionID string
}

// NewSessionLogger wraps inner so that all events carry sessionID.
func NewSessionLogger(inner Logger, sessionID string) *SessionLogger {
	return &SessionLogger{inner: OrNoop(inner), sessionID: sessionID}
}

// Log stamps the session ID and forwards the event.
func (s *SessionLogger) Log(event Event) {
	if event.SessionID == "" {
		event.SessionID = s.sessionID
	}
	s.inner.Log(event)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SessionLogger)(nil)
