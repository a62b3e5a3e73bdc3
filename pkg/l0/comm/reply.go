package comm

import (
	"strconv"
	"strings"

	"github.com/robotalks/mcv4b/pkg/l0/boot"
	"github.com/robotalks/mcv4b/pkg/l0/mcv"
)

// MaxReplyLength is the longest reply line accepted, excluding the newline.
const MaxReplyLength = 64

// ReplyKind classifies a reply line.
type ReplyKind int

// Reply kinds.
const (
	ReplyUnknown ReplyKind = iota
	ReplyVersion
	ReplyUpdateNotice
)

// String implements fmt.Stringer.
func (k ReplyKind) String() string {
	switch k {
	case ReplyVersion:
		return "version"
	case ReplyUpdateNotice:
		return "update-notice"
	}
	return "unknown"
}

// Reply is a line of text sent by the firmware.
type Reply struct {
	Kind    ReplyKind
	Line    string
	Version int
}

// ParseResult indicates the result after one parsing step.
type ParseResult struct {
	Reply *Reply
	// Overflow is set when a line was discarded for being too long.
	Overflow bool
}

type parseState int

const (
	stateLine    parseState = iota // collecting a line
	stateDiscard                   // line too long, waiting for newline
)

// ReplyParser parses reply lines byte by byte.
type ReplyParser struct {
	state parseState
	line  []byte
}

// Reset drops any partial line.
func (p *ReplyParser) Reset() {
	p.state, p.line = stateLine, p.line[:0]
}

// Parse consumes one byte.
func (p *ReplyParser) Parse(b byte) (pr ParseResult) {
	switch p.state {
	case stateLine:
		switch b {
		case '\n':
			line := strings.TrimRight(string(p.line), "\r")
			p.line = p.line[:0]
			if line != "" {
				pr.Reply = ClassifyReply(line)
			}
		default:
			if len(p.line) >= MaxReplyLength {
				p.line = p.line[:0]
				p.state = stateDiscard
				pr.Overflow = true
				return
			}
			p.line = append(p.line, b)
		}
	case stateDiscard:
		if b == '\n' {
			p.state = stateLine
		}
	}
	return
}

// ClassifyReply decodes a complete line without the newline.
func ClassifyReply(line string) *Reply {
	r := &Reply{Line: line}
	switch {
	case strings.HasPrefix(line, mcv.VersionPrefix):
		if v, err := strconv.Atoi(line[len(mcv.VersionPrefix):]); err == nil {
			r.Kind, r.Version = ReplyVersion, v
		}
	case line+"\n" == boot.UpdateNotice:
		r.Kind = ReplyUpdateNotice
	}
	return r
}
