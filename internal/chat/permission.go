package chat

import (
	"sync"

	"github.com/agrilink/messaging/internal/models"
)

// PermissionGate is the location permission state machine for the assistant
// session. It starts at prompt and resolves to granted or denied exactly
// once; resolved states are terminal.
type PermissionGate struct {
	mu    sync.Mutex
	state models.PermissionState
}

// NewPermissionGate creates a gate in the prompt state.
func NewPermissionGate() *PermissionGate {
	return &PermissionGate{state: models.PermissionPrompt}
}

// State returns the current permission state.
func (g *PermissionGate) State() models.PermissionState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Grant resolves prompt to granted. Returns false if the state was already
// terminal and unchanged.
func (g *PermissionGate) Grant() bool {
	return g.resolve(models.PermissionGranted)
}

// Deny resolves prompt to denied. Returns false if the state was already
// terminal and unchanged.
func (g *PermissionGate) Deny() bool {
	return g.resolve(models.PermissionDenied)
}

func (g *PermissionGate) resolve(to models.PermissionState) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != models.PermissionPrompt {
		return false
	}
	g.state = to
	return true
}
