package diagnostic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderSnippet_Basic(t *testing.T) {
	result := RenderSnippet("avatar @throwOnFieldError", 12, 9, 18, "")

	assert.Contains(t, result, "avatar @throwOnFieldError")
	assert.Contains(t, result, "^^^^^^^^^^^^^^^^^^")
	assert.Contains(t, result, "12")
	assert.Contains(t, result, "|")
}

func TestRenderSnippet_WithMessage(t *testing.T) {
	result := RenderSnippet("avatar @throwOnFieldError", 12, 9, 18, "not protected by an enclosing @catch")

	assert.Contains(t, result, "not protected by an enclosing @catch")
}

func TestRenderSnippet_ZeroLengthAndColumnClampToOne(t *testing.T) {
	result := RenderSnippet("id", 1, 0, 0, "")
	assert.Contains(t, result, "^")
}

func TestRenderSnippet_CaretAlignsUnderColumn(t *testing.T) {
	result := RenderSnippet("user { avatar }", 5, 8, 6, "")

	lines := strings.Split(result, "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[1], "^^^^^^")
}

func TestRenderSnippet_GutterWidthMatchesLineNumber(t *testing.T) {
	result := RenderSnippet("avatar", 1234, 1, 4, "")

	lines := strings.Split(result, "\n")
	underline := stripAnsi(lines[1])
	assert.True(t, strings.HasPrefix(underline, "    "), "underline gutter should match the 4-digit line number's width")
}

func TestRenderLocation(t *testing.T) {
	result := RenderLocation("src/queries/user.ts", 12, 9)
	assert.Contains(t, result, "-->")
	assert.Contains(t, result, "src/queries/user.ts:12:9")
}

func stripAnsi(s string) string {
	var result strings.Builder
	inEscape := false
	for _, r := range s {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if r == 'm' {
				inEscape = false
			}
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}
