package mutate

import (
	"testing"

	"render/internal/locator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeEdit(t *testing.T) {
	doc := []byte(`{"s": 48, "f": "Helvetica", "t": "Hi"}`)
	edit, err := SizeEdit(doc, locator.Range{Start: 0, End: len(doc)}, 36.5)
	require.NoError(t, err)
	out := Apply(doc, []Edit{edit})
	assert.Contains(t, string(out), `"s": 36.5`)
}

func TestTextEdit_EscapesQuotesBackslashesAndCarriageReturns(t *testing.T) {
	doc := []byte(`{"s": 48, "t": "Hi"}`)
	raw := "say \"hi\\there" + string(rune(13)) + "now"
	edit, err := TextEdit(doc, locator.Range{Start: 0, End: len(doc)}, raw)
	require.NoError(t, err)
	out := string(Apply(doc, []Edit{edit}))
	assert.Contains(t, out, `say \"hi\\there\u000Dnow`)
}

func TestAnimatorEdits_OnlyShiftsNegativeAndOnlyWhenWider(t *testing.T) {
	doc := []byte(`[-30, 0, 0]`)
	ranges := []locator.Range{{Start: 0, End: len(doc)}}

	none := AnimatorEdits(doc, ranges, 0)
	assert.Nil(t, none)

	edits := AnimatorEdits(doc, ranges, 10)
	require.Len(t, edits, 1)
	out := string(Apply(doc, edits))
	assert.Equal(t, `[-40, 0, 0]`, out)
}

func TestApply_MultipleEditsReverseOrder(t *testing.T) {
	doc := []byte(`AAAABBBBCCCC`)
	edits := []Edit{
		{Start: 0, End: 4, Replacement: []byte("1")},
		{Start: 4, End: 8, Replacement: []byte("22")},
		{Start: 8, End: 12, Replacement: []byte("333")},
	}
	out := Apply(doc, edits)
	assert.Equal(t, "122333", string(out))
}
