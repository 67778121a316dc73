// Package services wires the collegeroi runtime from configuration.
//
// Build turns a config.Config into a Registry holding the logger,
// telemetry, artifact storage, artifact store and selection controller.
// Both binaries and the HTTP and MCP surfaces obtain their dependencies
// from a Registry and release them with Close.
package services
