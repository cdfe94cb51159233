// Package dbus exposes the aether manager on the session bus.
// It provides the io.github.jmylchreest.aether.Manager interface with
// methods to apply and list schemes and query the applied state, plus a
// SchemeChanged signal other desktop components can subscribe to.
package dbus
