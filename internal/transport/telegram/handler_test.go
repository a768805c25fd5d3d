package telegram

import (
	"testing"

	filterDomain "github.com/reshetovitsme/keyword-reply-bot/internal/modules/filter/domain"
	"github.com/stretchr/testify/assert"
)

func TestSplitQuotesUnquoted(t *testing.T) {
	keyword, rest := splitQuotes("hello reply text here")
	assert.Equal(t, "hello", keyword)
	assert.Equal(t, "reply text here", rest)
}

func TestSplitQuotesDoubleQuoted(t *testing.T) {
	keyword, rest := splitQuotes(`"good morning" hello there`)
	assert.Equal(t, "good morning", keyword)
	assert.Equal(t, "hello there", rest)
}

func TestSplitQuotesSingleQuoted(t *testing.T) {
	keyword, rest := splitQuotes("'multi word' reply")
	assert.Equal(t, "multi word", keyword)
	assert.Equal(t, "reply", rest)
}

func TestSplitQuotesUnterminatedFallsBack(t *testing.T) {
	keyword, rest := splitQuotes(`"unterminated reply`)
	assert.Equal(t, `"unterminated`, keyword)
	assert.Equal(t, "reply", rest)
}

func TestSplitQuotesKeywordOnly(t *testing.T) {
	keyword, rest := splitQuotes("hello")
	assert.Equal(t, "hello", keyword)
	assert.Empty(t, rest)
}

func TestSplitQuotesRestIsSuffix(t *testing.T) {
	// The add handler recovers entity offsets from the remainder's position,
	// which requires the remainder to stay a suffix of the input
	in := `"two words"   formatted reply`
	_, rest := splitQuotes(in)
	assert.Equal(t, "formatted reply", rest)
	assert.Equal(t, rest, in[len(in)-len(rest):])
}

func TestContentTypeForText(t *testing.T) {
	assert.Equal(t, filterDomain.ContentTypeText, contentTypeForText(nil))
	assert.Equal(t, filterDomain.ContentTypeButtonText, contentTypeForText([]filterDomain.Button{{Label: "A", URL: "https://a.test"}}))
}
