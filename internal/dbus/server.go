// Package dbus exposes the aether manager on the session bus.
package dbus

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/jmylchreest/aether/internal/state"
)

const (
	// BusName is the well-known bus name the daemon claims.
	BusName = "io.github.jmylchreest.aether"
	// ObjectPath is the manager object path.
	ObjectPath = "/io/github/jmylchreest/aether"
	// Interface is the manager interface name.
	Interface = "io.github.jmylchreest.aether.Manager"
)

// ApplyHandler applies a scheme by name and returns a result summary.
type ApplyHandler func(name string) (string, error)

// ReapplyHandler re-applies the current scheme and returns a result summary.
type ReapplyHandler func() (string, error)

// ListHandler returns the names of available schemes.
type ListHandler func() []string

// StatusHandler returns the applied-scheme state.
type StatusHandler func() *state.Applied

// Manager exposes scheme management over D-Bus.
type Manager struct {
	conn   *dbus.Conn
	logger *slog.Logger

	// Handlers
	applyHandler   ApplyHandler
	reapplyHandler ReapplyHandler
	listHandler    ListHandler
	statusHandler  StatusHandler

	mu          sync.RWMutex
	serviceInfo ServiceInfo
	running     bool
}

// NewManager creates a new D-Bus manager.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		logger:      logger,
		serviceInfo: DefaultServiceInfo(),
	}
}

// SetApplyHandler sets the handler called for ApplyScheme requests.
func (m *Manager) SetApplyHandler(handler ApplyHandler) {
	m.applyHandler = handler
}

// SetReapplyHandler sets the handler called for Reapply requests.
func (m *Manager) SetReapplyHandler(handler ReapplyHandler) {
	m.reapplyHandler = handler
}

// SetListHandler sets the handler called for ListSchemes requests.
func (m *Manager) SetListHandler(handler ListHandler) {
	m.listHandler = handler
}

// SetStatusHandler sets the handler backing CurrentScheme and Status.
func (m *Manager) SetStatusHandler(handler StatusHandler) {
	m.statusHandler = handler
}

// SetServiceInfo sets the identification returned by Info.
func (m *Manager) SetServiceInfo(info ServiceInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.serviceInfo = info
}

// Start connects to the session bus and exports the manager service.
func (m *Manager) Start() error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("manager already running")
	}
	m.mu.Unlock()

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	m.conn = conn

	// Export the manager object
	if err := conn.Export(m, ObjectPath, Interface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	// Export introspection data
	node := &introspect.Node{
		Name: ObjectPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    Interface,
				Methods: managerMethods(),
				Signals: managerSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), ObjectPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	// Request the bus name
	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue|dbus.NameFlagReplaceExisting)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", BusName)
	}

	m.mu.Lock()
	m.running = true
	m.mu.Unlock()

	m.logger.Info("D-Bus manager started", "interface", Interface, "path", ObjectPath)
	return nil
}

// Stop releases the bus name and stops serving requests.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil
	}
	m.running = false

	if m.conn != nil {
		_, err := m.conn.ReleaseName(BusName)
		if err != nil {
			m.logger.Warn("failed to release bus name", "error", err)
		}
		// Don't close the connection as it's shared (SessionBus)
	}

	m.logger.Info("D-Bus manager stopped")
	return nil
}

// ApplyScheme applies a scheme by name.
// D-Bus method: ApplyScheme(s) -> s
func (m *Manager) ApplyScheme(name string) (string, *dbus.Error) {
	m.logger.Debug("ApplyScheme called", "scheme", name)

	if m.applyHandler == nil {
		return "", dbus.MakeFailedError(fmt.Errorf("apply is not available"))
	}

	summary, err := m.applyHandler(name)
	if err != nil {
		if emitErr := m.EmitApplyFailed(name, err.Error()); emitErr != nil {
			m.logger.Warn("failed to emit ApplyFailed signal", "error", emitErr)
		}
		return "", dbus.MakeFailedError(err)
	}

	if st := m.appliedState(); st.HasScheme() {
		if err := m.EmitSchemeChanged(st.SchemeName, st.Variant); err != nil {
			m.logger.Warn("failed to emit SchemeChanged signal", "error", err)
		}
	}

	return summary, nil
}

// Reapply re-applies the currently applied scheme.
// D-Bus method: Reapply() -> s
func (m *Manager) Reapply() (string, *dbus.Error) {
	m.logger.Debug("Reapply called")

	if m.reapplyHandler == nil {
		return "", dbus.MakeFailedError(fmt.Errorf("reapply is not available"))
	}

	summary, err := m.reapplyHandler()
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	return summary, nil
}

// ListSchemes returns the names of all available schemes.
// D-Bus method: ListSchemes() -> as
func (m *Manager) ListSchemes() ([]string, *dbus.Error) {
	m.logger.Debug("ListSchemes called")

	if m.listHandler == nil {
		return nil, nil
	}
	return m.listHandler(), nil
}

// CurrentScheme returns the name and variant of the applied scheme.
// Both are empty when nothing has been applied yet.
// D-Bus method: CurrentScheme() -> (ss)
func (m *Manager) CurrentScheme() (string, string, *dbus.Error) {
	m.logger.Debug("CurrentScheme called")

	st := m.appliedState()
	return st.SchemeName, st.Variant, nil
}

// Status returns the applied-scheme state as a dictionary.
// D-Bus method: Status() -> a{sv}
func (m *Manager) Status() (map[string]dbus.Variant, *dbus.Error) {
	m.logger.Debug("Status called")
	return statusMap(m.appliedState()), nil
}

// Info returns daemon identification.
// D-Bus method: Info() -> (sss)
func (m *Manager) Info() (string, string, string, *dbus.Error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.serviceInfo.Name, m.serviceInfo.Vendor, m.serviceInfo.Version, nil
}

// appliedState resolves the applied-scheme state through the handler, or
// straight from disk when no handler is wired.
func (m *Manager) appliedState() *state.Applied {
	if m.statusHandler != nil {
		return m.statusHandler()
	}
	st, err := state.Load()
	if err != nil {
		return state.Default()
	}
	return st
}

// managerMethods returns the D-Bus method introspection data.
func managerMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "ApplyScheme",
			Args: []introspect.Arg{
				{Name: "name", Type: "s", Direction: "in"},
				{Name: "summary", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "Reapply",
			Args: []introspect.Arg{
				{Name: "summary", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "ListSchemes",
			Args: []introspect.Arg{
				{Name: "names", Type: "as", Direction: "out"},
			},
		},
		{
			Name: "CurrentScheme",
			Args: []introspect.Arg{
				{Name: "name", Type: "s", Direction: "out"},
				{Name: "variant", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "Status",
			Args: []introspect.Arg{
				{Name: "status", Type: "a{sv}", Direction: "out"},
			},
		},
		{
			Name: "Info",
			Args: []introspect.Arg{
				{Name: "name", Type: "s", Direction: "out"},
				{Name: "vendor", Type: "s", Direction: "out"},
				{Name: "version", Type: "s", Direction: "out"},
			},
		},
	}
}

// managerSignals returns the D-Bus signal introspection data.
func managerSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: "SchemeChanged",
			Args: []introspect.Arg{
				{Name: "name", Type: "s"},
				{Name: "variant", Type: "s"},
			},
		},
		{
			Name: "ApplyFailed",
			Args: []introspect.Arg{
				{Name: "name", Type: "s"},
				{Name: "message", Type: "s"},
			},
		},
	}
}
