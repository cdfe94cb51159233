// Package scheme defines base16 color schemes and their loading rules.
// It supports loading schemes from ~/.config/aether/schemes/ and provides
// embedded bundled schemes for use when no custom scheme is installed.
package scheme
