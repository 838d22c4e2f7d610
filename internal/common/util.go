package common

import "strings"

// WipeByteArray overwrites b with zeros. Used for passwords read from the
// terminal once they have been sent.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// SafeFileName turns an arbitrary document title into a file name that is
// safe to create in the download directory.
func SafeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "document"
	}
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' || r == '"' || r == '<' || r == '>' || r == '|':
			sb.WriteRune('_')
		case r < 0x20:
			continue
		default:
			sb.WriteRune(r)
		}
	}
	out := strings.Trim(sb.String(), ". ")
	if out == "" {
		return "document"
	}
	return out
}
