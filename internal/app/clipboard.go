package app

import "github.com/atotto/clipboard"

// ClipboardWriter is an interface for clipboard operations (allows mocking in tests)
type ClipboardWriter interface {
	WriteText(text string) error
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteText(text string) error {
	return clipboard.WriteAll(text)
}
