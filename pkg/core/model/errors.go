package model

// ConfigInconsistencyError reports roster configuration that contradicts
// itself, such as an NG rule or fixed-pattern block referencing a member
// who is not on the roster. It is detected before any slot is processed
// and is fatal to the run.
type ConfigInconsistencyError struct {
	Detail string
}

func (e *ConfigInconsistencyError) Error() string {
	return "config inconsistency: " + e.Detail
}
