// Package renderer formats tracker data as markdown, ready to be printed
// through a terminal markdown renderer.
package renderer

import (
	"fmt"
	"strings"
)

// builder wraps a strings.Builder with a Printf helper, the building block of
// every markdown renderer in this package.
type builder struct {
	strings.Builder
}

func (b *builder) Printf(format string, args ...any) {
	fmt.Fprintf(&b.Builder, format, args...)
}
