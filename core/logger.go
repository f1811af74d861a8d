package core

// Logger is the app wide logger.
// args may contain errors, maps of extra data and at most one person to attach to the report.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Person identifies the caller a log entry is attributed to.
type Person struct {
	ID       string
	Username string
}
