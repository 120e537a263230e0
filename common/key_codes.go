package common

// Virtual key codes for the free camera controls.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW     = 87 // W key (ASCII)
	KeyA     = 65 // A key (ASCII)
	KeyS     = 83 // S key (ASCII)
	KeyD     = 68 // D key (ASCII)
	KeyC     = 67 // C key (ASCII), toggles cursor capture
	KeySpace = 32 // Spacebar (ASCII)

	Key1 = 49 // 1 key (ASCII)
	Key9 = 57 // 9 key (ASCII)
)

// Additional non-printable keys
const (
	KeyLeftShift = 340 // Left Shift (GLFW)
)
