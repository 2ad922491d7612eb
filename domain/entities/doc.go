// Package entities provides the core domain types shared by the host and its guests.
// These types serve dual purpose: domain entities AND JSON wire format DTOs that cross
// the sandbox boundary.
package entities
