package stringutils

import (
	"strconv"
	"strings"
)

// Placeholders returns "$from, $from+1, ..." with n entries, for building
// postgres IN lists.
func Placeholders(n, from int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(from + i))
	}
	return b.String()
}
