package testsvc

import (
	"testing"

	"github.com/mbelozerov/caseline/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeSteps_RoundTrip(t *testing.T) {
	steps := []domain.CaseStep{
		{Action: "Open the login page", Expected: "Form is shown"},
		{Action: "Submit empty form", Expected: "Validation errors appear"},
	}

	decoded := DecodeSteps(EncodeSteps(steps))
	assert.Equal(t, steps, decoded)
}

func TestEncodeSteps_EscapesMarkup(t *testing.T) {
	out := EncodeSteps([]domain.CaseStep{{Action: `click "<Save>"`, Expected: "a & b"}})

	assert.NotContains(t, out, "<Save>")
	decoded := DecodeSteps(out)
	require.Len(t, decoded, 1)
	assert.Equal(t, `click "<Save>"`, decoded[0].Action)
	assert.Equal(t, "a & b", decoded[0].Expected)
}

func TestDecodeSteps_StripsEditorMarkup(t *testing.T) {
	raw := `<steps id="0" last="3">` +
		`<step id="2" type="ActionStep">` +
		`<parameterizedString isformatted="true">&lt;DIV&gt;&lt;P&gt;Open page&lt;/P&gt;&lt;/DIV&gt;</parameterizedString>` +
		`<parameterizedString isformatted="true">&lt;P&gt;It loads&lt;/P&gt;</parameterizedString>` +
		`</step></steps>`

	decoded := DecodeSteps(raw)
	require.Len(t, decoded, 1)
	assert.Equal(t, "Open page", decoded[0].Action)
	assert.Equal(t, "It loads", decoded[0].Expected)
}

func TestDecodeSteps_EntitiesInsideMarkup(t *testing.T) {
	raw := `<steps id="0" last="2"><step id="2" type="ActionStep">` +
		`<parameterizedString isformatted="true">&lt;P&gt;save &amp;amp; close&lt;/P&gt;</parameterizedString>` +
		`<parameterizedString isformatted="true">no prompt</parameterizedString>` +
		`</step></steps>`

	decoded := DecodeSteps(raw)
	require.Len(t, decoded, 1)
	assert.Equal(t, "save & close", decoded[0].Action)
	assert.Equal(t, "no prompt", decoded[0].Expected)
}

func TestDecodeSteps_EmptyAndGarbage(t *testing.T) {
	assert.Nil(t, DecodeSteps(""))
	assert.Nil(t, DecodeSteps("   "))
	assert.Nil(t, DecodeSteps("not xml at all"))
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "plain", StripHTML("plain"))
	assert.Equal(t, "two words", StripHTML("<div><b>two</b> words</div>"))
	assert.Equal(t, `quotes "here"`, StripHTML("quotes &quot;here&quot;"))
}
