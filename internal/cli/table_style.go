package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// PlainStyle is a kubectl-style table style without box-drawing characters.
// This format is optimized for:
//   - Easy copy/paste operations
//   - Piping to grep, awk, cut and other command-line tools
//   - Terminal-agnostic rendering (no Unicode issues)
func PlainStyle() table.Style {
	style := table.StyleDefault
	style.Name = "Plain"
	style.Box = table.BoxStyle{
		PaddingLeft:      "",
		PaddingRight:     "   ",
		MiddleVertical:   "",
		MiddleHorizontal: " ",
	}
	style.Options = table.Options{
		DrawBorder:      false,
		SeparateColumns: false,
		SeparateFooter:  false,
		SeparateHeader:  false,
		SeparateRows:    false,
	}
	style.Format = table.FormatOptions{
		Header: text.FormatUpper,
		Row:    text.FormatDefault,
		Footer: text.FormatDefault,
	}
	style.Color = table.ColorOptions{}
	return style
}
