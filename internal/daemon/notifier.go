package daemon

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	godbus "github.com/godbus/dbus/v5"
)

// org.freedesktop.Notifications endpoints for desktop notifications.
const (
	notifyBusName    = "org.freedesktop.Notifications"
	notifyObjectPath = "/org/freedesktop/Notifications"
	notifyMethod     = "org.freedesktop.Notifications.Notify"
)

// notifyExpireTimeout is how long daemon notifications stay on screen (ms).
const notifyExpireTimeout = int32(5000)

// NotificationLevel indicates the urgency of a daemon notification.
type NotificationLevel int

const (
	// NotificationLevelInfo is for informational messages (low urgency).
	NotificationLevelInfo NotificationLevel = iota
	// NotificationLevelWarning is for warning messages (normal urgency).
	NotificationLevelWarning
	// NotificationLevelError is for error messages (critical urgency).
	NotificationLevelError
)

// Notifier sends desktop notifications about daemon events through the
// org.freedesktop.Notifications service on the session bus. It rate-limits
// per key so a flapping watcher cannot flood the screen.
type Notifier struct {
	mu     sync.Mutex
	logger *slog.Logger

	conn *godbus.Conn

	// Rate limiting
	lastNotifyTime map[string]time.Time // key -> last notification time
	minInterval    time.Duration        // minimum time between same notifications

	enabled bool
}

// NewNotifier creates a Notifier. The session bus connection is established
// lazily on first use.
func NewNotifier(logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		logger:         logger,
		lastNotifyTime: make(map[string]time.Time),
		minInterval:    5 * time.Second,
		enabled:        true,
	}
}

// SetEnabled enables or disables desktop notifications.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval sets the minimum interval between duplicate notifications.
func (n *Notifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if interval >= 0 {
		n.minInterval = interval
	}
}

// Notify sends a desktop notification if not rate-limited. The key is used
// for rate limiting: the same key won't notify again within minInterval.
func (n *Notifier) Notify(key, summary, body string, level NotificationLevel) {
	n.mu.Lock()
	if !n.enabled {
		n.mu.Unlock()
		return
	}
	if !n.allow(key) {
		n.mu.Unlock()
		n.logger.Debug("notification rate-limited", "key", key, "summary", summary)
		return
	}
	conn, err := n.connection()
	n.mu.Unlock()

	if err != nil {
		n.logger.Debug("notification skipped: no session bus", "summary", summary, "error", err)
		return
	}

	if err := send(conn, summary, body, level); err != nil {
		n.logger.Debug("failed to send notification", "summary", summary, "error", err)
		return
	}

	n.logger.Debug("sent notification", "key", key, "summary", summary, "level", level)
}

// allow records and checks the rate limit for a key. Caller holds the lock.
func (n *Notifier) allow(key string) bool {
	if lastTime, ok := n.lastNotifyTime[key]; ok {
		if time.Since(lastTime) < n.minInterval {
			return false
		}
	}
	n.lastNotifyTime[key] = time.Now()
	return true
}

// connection returns the session bus connection, dialing if needed.
// Caller holds the lock.
func (n *Notifier) connection() (*godbus.Conn, error) {
	if n.conn != nil {
		return n.conn, nil
	}
	conn, err := godbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	n.conn = conn
	return conn, nil
}

// send performs the org.freedesktop.Notifications.Notify call.
func send(conn *godbus.Conn, summary, body string, level NotificationLevel) error {
	icon := "dialog-information"
	urgency := byte(0) // Low
	switch level {
	case NotificationLevelWarning:
		icon = "dialog-warning"
		urgency = 1 // Normal
	case NotificationLevelError:
		icon = "dialog-error"
		urgency = 2 // Critical
	}

	hints := map[string]godbus.Variant{
		"urgency":       godbus.MakeVariant(urgency),
		"transient":     godbus.MakeVariant(true),
		"desktop-entry": godbus.MakeVariant("aetherd"),
	}

	obj := conn.Object(notifyBusName, notifyObjectPath)
	call := obj.Call(notifyMethod, 0,
		"aetherd",  // app_name
		uint32(0),  // replaces_id
		icon,       // app_icon
		summary,    // summary
		body,       // body
		[]string{}, // actions
		hints,      // hints
		notifyExpireTimeout,
	)
	return call.Err
}

// NotifyStartup sends a notification that the daemon has started.
func (n *Notifier) NotifyStartup(version string) {
	n.Notify(
		"startup",
		"aetherd Started",
		"Colorscheme daemon v"+version+" is now running.",
		NotificationLevelInfo,
	)
}

// NotifySchemeApplied sends a notification about a scheme being applied.
func (n *Notifier) NotifySchemeApplied(name, summary string) {
	body := "Scheme '" + name + "' has been applied."
	if summary != "" {
		body += " (" + summary + ")"
	}
	n.Notify(
		"scheme-apply",
		"Colorscheme Applied",
		body,
		NotificationLevelInfo,
	)
}

// NotifyApplyError sends a notification about a failed apply.
func (n *Notifier) NotifyApplyError(name string, err error) {
	n.Notify(
		"apply-error",
		"Colorscheme Apply Failed",
		"Failed to apply '"+name+"': "+err.Error(),
		NotificationLevelWarning,
	)
}

// NotifyConfigReloaded sends a notification about config being reloaded.
func (n *Notifier) NotifyConfigReloaded() {
	n.Notify(
		"config-reload",
		"Configuration Reloaded",
		"aetherd configuration has been successfully reloaded.",
		NotificationLevelInfo,
	)
}

// NotifyConfigError sends a notification about a config validation error.
func (n *Notifier) NotifyConfigError(err error) {
	n.Notify(
		"config-error",
		"Configuration Error",
		"Failed to reload configuration: "+err.Error(),
		NotificationLevelWarning,
	)
}
