// Package lib carry helper functions for raw memory blocks obtained
// outside the golang runtime.
package lib
