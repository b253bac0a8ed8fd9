package memutils

// Validatable is accepted by DebugValidate so that it can run consistency checks against
// any layout that knows how to check itself
type Validatable interface {
	Validate() error
}
