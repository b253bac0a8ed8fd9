//go:build !debug_mem_utils

package memutils

// ValidateMagicValue verifies that the poison pattern written by WriteMagicValue is still present
// across data[offset:offset+size]. It returns true if the pattern is intact and false otherwise.
// This method always returns true unless the debug_mem_utils build tag is present.
func ValidateMagicValue(data []byte, offset, size int) bool {
	return true
}

// WriteMagicValue writes an easy-to-identify poison pattern across data[offset:offset+size].
// This method no-ops unless the debug_mem_utils build tag is present.
func WriteMagicValue(data []byte, offset, size int) {
}

// DebugValidate will call Validate on the provided object and panics if any errors are returned. This
// method no-ops unless the debug_mem_utils build tag is present
func DebugValidate(validatable Validatable) {
}
