package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeTextForMarkdownV2(t *testing.T) {
	assert.Equal(t, "OS\\-2025\\-001", EscapeTextForMarkdownV2("OS-2025-001"))
	assert.Equal(t, "precisão: 3\\.2m", EscapeTextForMarkdownV2("precisão: 3.2m"))
	assert.Equal(t, "sem caracteres especiais", EscapeTextForMarkdownV2("sem caracteres especiais"))
}
