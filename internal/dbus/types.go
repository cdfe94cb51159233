package dbus

import (
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/aether/internal/state"
)

// ServiceInfo identifies the daemon on the bus.
type ServiceInfo struct {
	Name    string // "aetherd"
	Vendor  string // "aether"
	Version string // Build version
}

// DefaultServiceInfo returns the default service information.
func DefaultServiceInfo() ServiceInfo {
	return ServiceInfo{
		Name:    "aetherd",
		Vendor:  "aether",
		Version: "0.0.1", // Will be replaced by build-time version
	}
}

// statusMap converts applied-scheme state into a D-Bus a{sv} payload.
// Keys beyond has_scheme are only present once a scheme has been applied.
func statusMap(a *state.Applied) map[string]dbus.Variant {
	m := map[string]dbus.Variant{
		"has_scheme": dbus.MakeVariant(a.HasScheme()),
	}
	if !a.HasScheme() {
		return m
	}

	m["scheme"] = dbus.MakeVariant(a.SchemeName)
	m["source"] = dbus.MakeVariant(a.SchemeSource)
	if a.Variant != "" {
		m["variant"] = dbus.MakeVariant(a.Variant)
	}
	if a.AppliedAt != 0 {
		m["applied_at"] = dbus.MakeVariant(a.AppliedTime().Format(time.RFC3339))
	}
	if a.LastEventID != "" {
		m["last_event_id"] = dbus.MakeVariant(a.LastEventID)
	}
	return m
}
