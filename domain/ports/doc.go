// Package ports defines interfaces for infrastructure operations.
// These ports enable dependency inversion - the host depends on abstractions of the
// sandbox runtime, and infrastructure adapters (wazero) implement them.
package ports
