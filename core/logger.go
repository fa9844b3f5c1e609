package core

// Logger is any leveled logger.
// expected args fmt: error | map[string]interface{} | any value printable with %+v
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Person identifies who a log entry is about: a planner session or a saved schedule owner.
type Person struct {
	ID   string
	Name string
}
