package util

import "errors"

var (
	ErrNoExtractableText = errors.New("no extractable text found in document")
	ErrTextTooShort      = errors.New("extracted text below minimum viable length")
)
