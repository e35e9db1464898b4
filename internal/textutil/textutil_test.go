package textutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amirgolp/flashcard/internal/textutil"
)

func TestContainsFold(t *testing.T) {
	assert.True(t, textutil.ContainsFold("Animals", "ANI"))
	assert.True(t, textutil.ContainsFold("Äpfel und Birnen", "ÄPFEL"))
	assert.True(t, textutil.ContainsFold("anything", ""))
	assert.False(t, textutil.ContainsFold("Verbs", "noun"))
}

func TestMatcher(t *testing.T) {
	m := textutil.NewMatcher("hund")
	assert.True(t, m.Match("der Hund", "the dog"))
	assert.True(t, m.Match("", "HUNDE"))
	assert.False(t, m.Match("die Katze", "the cat"))
	assert.True(t, textutil.NewMatcher("").Empty())
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "der Hund", textutil.PlainText("<b>der</b> Hund"))
	assert.Equal(t, "Tom & Jerry", textutil.PlainText("Tom &amp; Jerry"))
	assert.Equal(t, "alert", textutil.PlainText("<script>x()</script>alert"))
	assert.Equal(t, "plain", textutil.PlainText("  plain "))
}

func TestTitleFromFilename(t *testing.T) {
	assert.Equal(t, "German Grammar Vol2", textutil.TitleFromFilename("/tmp/german_grammar-vol2.pdf"))
	assert.Equal(t, "Untitled", textutil.TitleFromFilename("___.pdf"))
}

func TestSanitizeToken(t *testing.T) {
	assert.Equal(t, "a_b_c", textutil.SanitizeToken("A/b c"))
	assert.Equal(t, "book_7", textutil.SanitizeToken("  Book  #7 "))
	assert.Equal(t, "unknown", textutil.SanitizeToken("  "))
}
