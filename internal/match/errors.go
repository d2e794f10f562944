package match

import "fmt"

// InputError reports a request whose input shape prevents any matching work.
// The engine refuses the run instead of producing a misleading result set.
type InputError struct {
	Reason string
}

func (e InputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

// ConfigError reports an engine setting outside its valid range, rejected at
// construction before any matching starts.
type ConfigError struct {
	Field   string
	Message string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Message)
}
