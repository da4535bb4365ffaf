package checklistform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItemLines(t *testing.T) {
	items := parseItemLines("!Travas instaladas\n+Foto do guarda-corpo\n!+Laudo arquivado\n\nSinalização visível\n")
	require.Len(t, items, 4)

	assert.Equal(t, "Travas instaladas", items[0].Title)
	assert.True(t, items[0].Obligatory)
	assert.False(t, items[0].RequiresAttachment)

	assert.Equal(t, "Foto do guarda-corpo", items[1].Title)
	assert.False(t, items[1].Obligatory)
	assert.True(t, items[1].RequiresAttachment)

	assert.Equal(t, "Laudo arquivado", items[2].Title)
	assert.True(t, items[2].Obligatory)
	assert.True(t, items[2].RequiresAttachment)

	assert.Equal(t, "Sinalização visível", items[3].Title)
	assert.False(t, items[3].Obligatory)
}

func TestParseItemLines_PrefixOnlyLinesDropped(t *testing.T) {
	items := parseItemLines("!\n+ \n! + \nReal item")
	require.Len(t, items, 1)
	assert.Equal(t, "Real item", items[0].Title)
}
