// Package checks implements the individual integrity checks used by the
// integrity feature and the integrity command.
package checks
