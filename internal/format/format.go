// Copyright (c) 2025 Bizpaysol Team
// Bizpaysol - ACH payment processing and settlement system
// This source code is licensed under the MIT license found in the LICENSE file.

// Package format holds the fixed-width field primitives for banking records.
// Every field in a NACHA record has an exact width; values longer than the
// field are silently truncated because the format offers nowhere to report
// overflow. Upstream validation rejects over-length input before it gets here.
package format

import "strings"

// LeftPad pads s on the left with pad up to width, truncating to width when s
// is already longer. Numeric fields left-pad with '0', text fields that
// right-align with ' '.
func LeftPad(s string, width int, pad byte) string {
	if len(s) >= width {
		return s[:width]
	}
	return strings.Repeat(string(pad), width-len(s)) + s
}

// RightPad pads s on the right with pad up to width, truncating to width when
// s is already longer. Text fields left-align with ' '.
func RightPad(s string, width int, pad byte) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(string(pad), width-len(s))
}
