// Package msgs provides L1 protocol support and all message schemas.
package msgs

// L1 protocol is communicated between the bridge exposing a MCV4B board
// (L1 controller) and L2 clients, and uses hardware-agnostic primitives.
//
// Producer: L1 controller
// Consumer: L2 client
