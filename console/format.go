package console

import (
	"fmt"
	"strings"
)

// sprint joins arguments with spaces the way the browser console does.
func sprint(args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	return strings.Join(parts, " ")
}
