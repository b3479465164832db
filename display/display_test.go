package display

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/cbrgm/mtg-bot/mtgio"
)

func TestDivider(t *testing.T) {
	for _, width := range []int{1, 2, 10, 50} {
		d := Divider(width, '*')
		assert.Len(t, d, width)
		assert.Equal(t, strings.Repeat("*", width), d)
	}

	assert.Equal(t, "", Divider(0, '*'))
	assert.Equal(t, "---", Divider(3, '-'))
}

func TestColumns(t *testing.T) {
	row := Columns("a", "b", 10)
	assert.Equal(t, "a        b", row)
	assert.Len(t, row, 10)

	// padding-exclusive content is exactly left+right
	assert.Equal(t, "ab", strings.ReplaceAll(row, " ", ""))
}

func TestColumnsOverflow(t *testing.T) {
	// left+right+1 exceeds the width: a single space still separates the
	// columns and the row overflows.
	row := Columns("abcdef", "ghijk", 10)
	assert.Equal(t, "abcdef ghijk", row)
}

func TestColumnsEmptyLeft(t *testing.T) {
	row := Columns("", "set", 50)
	assert.Len(t, row, 50)
	assert.Equal(t, strings.Repeat(" ", 47)+"set", row)
}

func TestWrap(t *testing.T) {
	assert.Equal(t, "abc\ndef", Wrap("abcdef", 3))
	assert.Equal(t, "abcd\nefgh\nij", Wrap("abcdefghij", 4))
	assert.Equal(t, "ab", Wrap("ab", 3))
	assert.Equal(t, "", Wrap("", 3))
}

func TestWrapResetsOnNewline(t *testing.T) {
	// a literal newline resets the column counter
	assert.Equal(t, "ab\ncde\nf", Wrap("ab\ncdef", 3))
}

func TestWrapPreservesContent(t *testing.T) {
	text := "First strike, hexproof. Whenever Narset attacks, exile the top four cards of your library."
	wrapped := Wrap(text, 7)

	assert.Equal(t, text, strings.ReplaceAll(wrapped, "\n", ""))

	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len(line), 7)
	}
}

func TestCard(t *testing.T) {
	color.NoColor = true

	c := mtgio.Card{
		Name:     "name",
		ManaCost: "mana",
		Type:     "type",
		Rarity:   "rarity",
		SetName:  "set",
		Text:     "body",
		Flavor:   "flavour",
	}

	expected := strings.Join([]string{
		strings.Repeat("*", 50),
		"name" + strings.Repeat(" ", 42) + "mana",
		strings.Repeat("-", 50),
		"type" + strings.Repeat(" ", 40) + "rarity",
		strings.Repeat("-", 50),
		"body",
		"flavour",
		strings.Repeat(" ", 47) + "set",
		strings.Repeat("*", 50),
		"",
	}, "\n")

	assert.Equal(t, expected, Card(c))
}

func TestFprint(t *testing.T) {
	color.NoColor = true

	var b strings.Builder
	c := mtgio.Card{Name: "name"}
	Fprint(&b, c)

	assert.Equal(t, Card(c), b.String())
}
