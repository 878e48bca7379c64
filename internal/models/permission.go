package models

// PermissionState tracks the location permission for the assistant session.
// It starts at prompt and resolves to granted or denied exactly once;
// there is no way back to prompt within a session.
type PermissionState string

const (
	PermissionPrompt  PermissionState = "prompt"
	PermissionGranted PermissionState = "granted"
	PermissionDenied  PermissionState = "denied"
)

// Terminal reports whether the state can no longer change.
func (p PermissionState) Terminal() bool {
	return p == PermissionGranted || p == PermissionDenied
}
