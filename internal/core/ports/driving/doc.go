// Package driving defines the interfaces through which the outside world
// calls INTO the core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// Core services implement them; the HTTP, MCP, and CLI adapters consume
// them.
package driving
