package core

import (
	"github.com/aretw0/introspection"
)

// ManagerState exposes internal state for observability.
type ManagerState struct {
	Subscribers int    `json:"subscribers"`
	StorageType string `json:"storage_type"`
	Forwarding  bool   `json:"forwarding_storage_changes"`
}

// State implements introspection.Introspectable.
func (m *Manager) State() any {
	m.mu.Lock()
	defer m.mu.Unlock()

	storageType := "none"
	if m.storage != nil {
		storageType = "storage"
		if comp, ok := m.storage.(introspection.Component); ok {
			storageType = comp.ComponentType()
		}
	}

	return ManagerState{
		Subscribers: m.broker.len(),
		StorageType: storageType,
		Forwarding:  m.stopPump != nil,
	}
}

// ComponentType implements introspection.Component.
func (m *Manager) ComponentType() string {
	return "profile-manager"
}

var _ introspection.Introspectable = (*Manager)(nil)
var _ introspection.Component = (*Manager)(nil)
