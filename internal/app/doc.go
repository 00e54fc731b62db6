// Package app assembles the assessment analysis server: it loads
// configuration, initializes logging and telemetry, wires the services and
// handlers onto a chi router, and owns the server lifecycle.
package app
