package middleware

import (
	"errors"
	"unicode/utf8"
)

// ValidateTurnText validates a chat turn's text. Empty text is allowed at
// the transport layer: the chat service treats it as "emit the next
// question" on the first turn and re-prompts otherwise.
func ValidateTurnText(text string) error {
	if len(text) > 4096 {
		return errors.New("text exceeds maximum length")
	}
	if !utf8.ValidString(text) {
		return errors.New("text must be valid UTF-8")
	}
	return nil
}

// ValidateQueryText validates a direct recommendation query.
func ValidateQueryText(text string) error {
	if len(text) == 0 {
		return errors.New("query_text cannot be empty")
	}
	if len(text) > 4096 {
		return errors.New("query_text exceeds maximum length")
	}
	if !utf8.ValidString(text) {
		return errors.New("query_text must be valid UTF-8")
	}
	return nil
}
