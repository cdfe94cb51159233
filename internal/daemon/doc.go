// Package daemon provides the main orchestration for aetherd.
// It coordinates the D-Bus service, scheme and state file watching,
// configuration hot-reload, and desktop notifications.
package daemon
