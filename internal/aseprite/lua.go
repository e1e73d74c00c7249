package aseprite

import (
	"fmt"
	"strings"
)

// LuaString renders s as a double-quoted Lua string literal. Backslashes,
// quotes, and control characters are escaped, so any free-text value can be
// interpolated into generated script source without breaking out of the
// literal.
func LuaString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				// Lua decimal escape for remaining control characters.
				fmt.Fprintf(&b, `\%d`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
