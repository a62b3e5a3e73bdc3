// Package boot provides the update-mode handshake across a reset.
package boot

// The handshake uses a single 32-bit cell which survives a reset
// without power loss:
//
//	EnterUpdateMode: notice -> cell = Magic -> reset
//	boot:            cell == Magic ? (cell = 0, chain-load) : normal startup
//
// The store of Magic must be visible before the reset is issued.
// On power-on the cell content is undefined, a value other than Magic
// simply results in a normal startup.
