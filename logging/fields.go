package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"
)

// Field applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// ToolName adds a tool name field.
func ToolName(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("tool", name)
	}
}

// PromptCount adds the number of prompts involved.
func PromptCount(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("prompts", n)
	}
}

// ToolCount adds the number of tools involved.
func ToolCount(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("tools", n)
	}
}

// Method adds a JSON-RPC method field.
func Method(method string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("method", method)
	}
}

// Path adds a file path field.
func Path(path string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("path", path)
	}
}

// Component adds a component field.
func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("component", name)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// ErrorField adds an error field. A nil error leaves the event unchanged.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// Int adds an integer field with a custom key.
func Int(key string, value int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int(key, value)
	}
}

// Str adds a string field with a custom key.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}
