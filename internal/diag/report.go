// Package diag reconstructs a forensic view of a decode failure: a window of
// bytes around the cursor position at the moment of failure, with the
// offending byte highlighted, alongside the underlying error.
package diag

import (
	"fmt"
	"strings"
)

const (
	bytesBefore = 10
	windowSize  = 20
)

// Report identifies the byte position of a decode failure and carries a
// snapshot of the bytes around it. It implements error by delegating to the
// wrapped cause, so callers can errors.As a *Report out of any returned error
// without losing access to the underlying *nbt.Error / *region.Error.
type Report struct {
	Err         error
	cursorPos   int // cursor position at the moment of failure
	source      int // index, into buf, of the byte that caused the failure
	windowStart int
	window      []byte
}

// NewReport builds a Report for a failure that occurred after the cursor had
// advanced to cursorPos in buf. The source byte is cursorPos-1 (the last byte
// read before the failure was detected).
func NewReport(buf []byte, cursorPos int, err error) *Report {
	source := cursorPos - 1
	if source < 0 {
		source = 0
	}
	start := 0
	if source >= bytesBefore {
		start = source - bytesBefore
	}
	end := start + windowSize
	if end > len(buf) {
		end = len(buf)
	}
	if start > end {
		start = end
	}

	return &Report{
		Err:         err,
		cursorPos:   cursorPos,
		source:      source,
		windowStart: start,
		window:      buf[start:end],
	}
}

// Error satisfies the error interface by delegating to the wrapped cause.
func (r *Report) Error() string {
	return r.Err.Error()
}

// Unwrap exposes the wrapped cause to errors.Is / errors.As.
func (r *Report) Unwrap() error {
	return r.Err
}

// SourceOffset returns the absolute buffer offset of the byte that triggered
// the failure.
func (r *Report) SourceOffset() int {
	return r.source
}

// HexDump renders the byte window as one "0xADDR 0xBYTE" line per byte, with
// the source line marked, followed by the underlying error message.
func (r *Report) HexDump() string {
	var b strings.Builder
	for i, by := range r.window {
		addr := r.windowStart + i
		marker := "   "
		if addr == r.source {
			marker = " <-- here"
		}
		fmt.Fprintf(&b, "0x%08X 0x%02X%s\n", addr, by, marker)
	}
	fmt.Fprintf(&b, "%s\n", r.Err.Error())
	return b.String()
}
