// File: internal/repository/interface.go
package repository

// Logger is the logging contract repositories report store failures through.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Page bounds a listing query.
type Page struct {
	Limit  int
	Offset int
}

// Normalize clamps the page to sane bounds, using def when no limit was given.
func (p Page) Normalize(def, max int) Page {
	if p.Limit <= 0 {
		p.Limit = def
	}
	if p.Limit > max {
		p.Limit = max
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
