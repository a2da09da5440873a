package testsvc

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/mbelozerov/caseline/internal/domain"
)

// The Test Service stores test steps as an XML document in a work item
// field. Each step carries two parameterized strings: the action and the
// expected outcome.

// EncodeSteps renders steps into the service's XML steps format. Each
// parameterized string holds XML-escaped HTML, so plain text is escaped
// twice: once into an HTML fragment, once for the XML document.
func EncodeSteps(steps []domain.CaseStep) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<steps id="0" last="%d">`, len(steps)+1)
	for i, s := range steps {
		// Step ids start at 2; id 1 is reserved by the service.
		fmt.Fprintf(&b, `<step id="%d" type="ActionStep">`, i+2)
		fmt.Fprintf(&b, `<parameterizedString isformatted="true">%s</parameterizedString>`,
			html.EscapeString(html.EscapeString(s.Action)))
		fmt.Fprintf(&b, `<parameterizedString isformatted="true">%s</parameterizedString>`,
			html.EscapeString(html.EscapeString(s.Expected)))
		b.WriteString(`</step>`)
	}
	b.WriteString(`</steps>`)
	return b.String()
}

var stepRe = regexp.MustCompile(`(?s)<step\b.*?</step>`)
var paramStringRe = regexp.MustCompile(`(?s)<parameterizedString[^>]*>(.*?)</parameterizedString>`)
var tagRe = regexp.MustCompile(`<[^>]*>`)

// DecodeSteps parses the service's XML steps format back into step pairs.
// Markup inside a step is stripped to plain text. Malformed or empty input
// yields no steps rather than an error; existing cases in the wild carry
// all kinds of hand-edited markup.
func DecodeSteps(raw string) []domain.CaseStep {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var steps []domain.CaseStep
	for _, stepXML := range stepRe.FindAllString(raw, -1) {
		params := paramStringRe.FindAllStringSubmatch(stepXML, -1)
		var step domain.CaseStep
		if len(params) > 0 {
			step.Action = decodeParamString(params[0][1])
		}
		if len(params) > 1 {
			step.Expected = decodeParamString(params[1][1])
		}
		steps = append(steps, step)
	}
	return steps
}

// StripHTML reduces an HTML fragment to its text content.
func StripHTML(s string) string {
	s = tagRe.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}

// decodeParamString recovers plain text from a stored parameterized string.
// The content is XML-escaped HTML, so the editor's tags only become visible
// after the first unescape: unescape to the HTML fragment, strip its tags,
// then unescape the fragment's own entities.
func decodeParamString(s string) string {
	fragment := html.UnescapeString(s)
	return strings.TrimSpace(html.UnescapeString(tagRe.ReplaceAllString(fragment, "")))
}
