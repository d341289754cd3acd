// Package cli holds small helpers shared by the typedict commands: command
// error wrapping and signal-aware shutdown contexts.
package cli
