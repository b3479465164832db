// Package display renders cards as fixed-width text blocks.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/cbrgm/mtg-bot/mtgio"
)

// Width is the target line width of a rendered card.
const Width = 50

var italic = color.New(color.Italic)

// Divider returns fill repeated width times. Width 0 yields the empty string.
func Divider(width int, fill rune) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat(string(fill), width)
}

// Columns lays out left and right on a single line, padded with spaces so
// the row is exactly width characters long. At least one space always
// separates the columns; if the two fields plus one space already exceed
// width the row simply overflows.
func Columns(left, right string, width int) string {
	pad := width - len(left) - len(right)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right
}

// Wrap breaks text to the given line width by raw character count. A break
// lands before every width-th character, so words are split mid-word.
// Newlines already present in the text reset the column counter.
//
// TODO: wrap nicely around whole words
func Wrap(text string, width int) string {
	var b strings.Builder
	count := 0
	for _, ch := range text {
		if ch == '\n' {
			count = 0
			b.WriteRune(ch)
			continue
		}
		if count == width {
			count = 0
			b.WriteByte('\n')
		}
		b.WriteRune(ch)
		count++
	}
	return b.String()
}

// Card renders a card as a bordered, columned, word-unaware-wrapped text
// block of Width characters per line. The flavor text is italicized when
// the output supports it.
func Card(c mtgio.Card) string {
	var b strings.Builder

	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	line(Divider(Width, '*'))
	line(Columns(c.Name, c.ManaCost, Width))
	line(Divider(Width, '-'))
	line(Columns(c.Type, c.Rarity, Width))
	line(Divider(Width, '-'))
	line(Wrap(c.Text, Width))
	line(Wrap(italic.Sprint(c.Flavor), Width))
	line(Columns("", c.SetName, Width))
	line(Divider(Width, '*'))

	return b.String()
}

// Fprint writes the rendered card to w.
func Fprint(w io.Writer, c mtgio.Card) {
	_, _ = fmt.Fprint(w, Card(c))
}
