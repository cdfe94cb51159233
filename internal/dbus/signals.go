package dbus

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// EmitSchemeChanged emits the SchemeChanged signal.
// Emitted after a scheme is applied, whether through D-Bus, the CLI or a
// hot reload picked up by the daemon.
func (m *Manager) EmitSchemeChanged(name, variant string) error {
	if m.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	err := m.conn.Emit(ObjectPath, Interface+".SchemeChanged", name, variant)
	if err != nil {
		return fmt.Errorf("failed to emit SchemeChanged signal: %w", err)
	}

	m.logger.Debug("emitted SchemeChanged signal", "scheme", name, "variant", variant)
	return nil
}

// EmitApplyFailed emits the ApplyFailed signal.
// Emitted when an apply or reapply could not complete.
func (m *Manager) EmitApplyFailed(name, message string) error {
	if m.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	err := m.conn.Emit(ObjectPath, Interface+".ApplyFailed", name, message)
	if err != nil {
		return fmt.Errorf("failed to emit ApplyFailed signal: %w", err)
	}

	m.logger.Debug("emitted ApplyFailed signal", "scheme", name, "message", message)
	return nil
}

// Connection returns the underlying D-Bus connection.
// This can be used for advanced operations like calling methods on other services.
func (m *Manager) Connection() *dbus.Conn {
	return m.conn
}
