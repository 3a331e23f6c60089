package frame

// ScanHeader locates the end of the leading JSON header object in buf.
// It returns the exclusive offset one past the header's closing brace, so a
// successful scan always returns a strictly positive offset.
//
// The scan requires buf[0] to be '{'; anything else means no header starts
// here. It is a structural scan, not a full parse: it tracks nesting depth
// and string-literal context so that braces inside string values (an RPC
// identifier containing '}', say) or inside nested objects do not
// terminate the scan early. The header is only considered complete when the
// depth returns to zero outside a string.
//
// ok is false when buf holds no complete header yet — the partial-read
// state, never an error.
func ScanHeader(buf []byte) (end int, ok bool) {
	if len(buf) == 0 || buf[0] != '{' {
		return 0, false
	}

	depth := 0
	inString := false
	escaped := false
	for i, b := range buf {
		if inString {
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
			continue
		}
		switch b {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}
