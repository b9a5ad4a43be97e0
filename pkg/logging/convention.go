package logging

import "github.com/rs/zerolog"

// Backplate log lines follow a fixed convention: a status marker prefixes the
// message, a component field tags the subsystem, and everything else travels
// as structured key-value fields (request id, method, path, status, latency,
// size). There is no enforcement beyond these helpers; handlers and services
// are expected to follow suit.
//
//	logging.Component(log, "cache").Info().
//	    Bool("ready", true).
//	    Msg(logging.OK + " connected")
const (
	// Start marks the beginning of an operation or request.
	Start = "[▶]"
	// OK marks successful completion.
	OK = "[✔]"
	// Fail marks an error outcome.
	Fail = "[✖]"
)

// ComponentField is the field name carrying the subsystem tag.
const ComponentField = "component"

// Component returns a child logger tagged with the given component name.
func Component(logger *zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str(ComponentField, name).Logger()
}
