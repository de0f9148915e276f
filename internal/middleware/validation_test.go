package middleware

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTurnText(t *testing.T) {
	assert.NoError(t, ValidateTurnText(""))
	assert.NoError(t, ValidateTurnText("feeling adventurous"))
	assert.Error(t, ValidateTurnText(strings.Repeat("a", 5000)))
	assert.Error(t, ValidateTurnText("bad\xff\xfe"))
}

func TestValidateQueryText(t *testing.T) {
	assert.Error(t, ValidateQueryText(""))
	assert.NoError(t, ValidateQueryText("a dream heist thriller"))
	assert.Error(t, ValidateQueryText(strings.Repeat("a", 5000)))
}
