//go:build debug_mem_utils

package memutils

import "encoding/binary"

// corruptionDetectionMagicValue is the 4-byte pattern written over memory that is not
// handed out to any consumer
const corruptionDetectionMagicValue uint32 = 0x7F84E666

var magicBytes = func() [4]byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], corruptionDetectionMagicValue)
	return b
}()

// WriteMagicValue writes an easy-to-identify poison pattern across data[offset:offset+size].
// The pattern is phased by absolute offset so that adjacent poisoned ranges read as one
// continuous range once they are merged.
// This method no-ops unless the debug_mem_utils build tag is present.
func WriteMagicValue(data []byte, offset, size int) {
	for i := offset; i < offset+size; i++ {
		data[i] = magicBytes[i%len(magicBytes)]
	}
}

// ValidateMagicValue verifies that the poison pattern written by WriteMagicValue is still present
// across data[offset:offset+size]. It returns true if the pattern is intact and false otherwise.
// This method always returns true unless the debug_mem_utils build tag is present.
func ValidateMagicValue(data []byte, offset, size int) bool {
	for i := offset; i < offset+size; i++ {
		if data[i] != magicBytes[i%len(magicBytes)] {
			return false
		}
	}

	return true
}

// DebugValidate will call Validate on the provided object and panics if any errors are returned. This
// method no-ops unless the debug_mem_utils build tag is present
func DebugValidate(validatable Validatable) {
	err := validatable.Validate()
	if err != nil {
		panic(err)
	}
}
