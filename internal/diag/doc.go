// Package diag defines the SMP-series outcome codes of path reconstruction and a
// reporter collecting coded reports per reconstruction phase.
//
// Code numbering scheme:
//
//	000–019  A trace exists or was not found
//	020–029  The violation itself was proven impossible
//	030–059  The request failed
//
// Example:
//
//	diag.SMP010NoPath.String()      → "SMP010: NoPath"
//	diag.SMP010NoPath.Description() → "No entry reaches the violation, the diagnosis is suppressed."
//
// Codes are stable, never renumber existing ones.
package diag
