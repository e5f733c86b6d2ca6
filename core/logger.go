package core

// Logger is the application logger.
// args may carry an error, a map[string]interface{} of extra fields and the acting Person.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Person identifies the account behind a logged event.
type Person struct {
	ID    int
	Name  string
	Email string
}
