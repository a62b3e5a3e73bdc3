// Package comm provides the serial link between the MCV4B firmware
// and a host.
package comm

// The link carries raw bytes, there is no framing or checksum. The
// firmware side consumes one byte at a time through Link and a
// ByteHandler; the host side encodes Requests and parses text replies
// line by line with ReplyParser.
//
// Producer: host (commands), firmware (replies)
// Consumer: firmware (commands), host (replies)
