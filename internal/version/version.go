// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// UserAgent identifies ls-obstars when fetching from a static HTTP root.
const UserAgent = "ls-obstars/" + Version + " (OB Star Catalog Visualizer)"

// Milestones:
// 0.3.0 - HTTP API and page shell, PNG renders, data directory watcher
// 0.2.0 - Chebyshev continuum fit, nighttime fraction panel, CSV export
// 0.1.0 - Initial release: catalog loader, sky view TUI, spectrum panel
