//go:build debug_image_layout

package memutils

// DebugEnabled is true when the debug_image_layout build tag is present
const DebugEnabled = true

// DebugValidate will call Validate on the provided object and panics if any errors are returned. This
// method no-ops unless the debug_image_layout build tag is present
func DebugValidate(validatable Validatable) {
	err := validatable.Validate()
	if err != nil {
		panic(err)
	}
}

// DebugCheckPow2 will verify that the numerical value passed in is a power of two, and panics if it is not.
// This method no-ops unless the debug_image_layout build tag is present.
func DebugCheckPow2[T Number](value T, name string) {
	err := CheckPow2[T](value, name)
	if err != nil {
		panic(err)
	}
}

// DebugAssert panics with err if err is not nil. This method no-ops unless the debug_image_layout
// build tag is present.
func DebugAssert(err error) {
	if err != nil {
		panic(err)
	}
}
