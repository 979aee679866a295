package tabular

import (
	"bytes"
	"fmt"
	"os"
)

// Kind classifies file content by its leading bytes.
type Kind int

const (
	KindUnknown Kind = iota
	KindXLS          // OLE compound document (legacy BIFF workbook)
	KindXLSX         // zip container (OOXML workbook)
	KindHTML         // an HTML page, typically a bot-protection interstitial
)

var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
var zipMagic = []byte("PK\x03\x04")

// Sniff classifies the file at path by content. It reports KindHTML for the
// interstitial pages the DMO site serves when bot protection triggers, so
// callers can reject those loudly instead of feeding them to a parser.
func Sniff(path string) (Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return KindUnknown, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if n == 0 && err != nil {
		return KindUnknown, fmt.Errorf("failed to read %s: %w", path, err)
	}
	head := buf[:n]

	switch {
	case bytes.HasPrefix(head, oleMagic):
		return KindXLS, nil
	case bytes.HasPrefix(head, zipMagic):
		return KindXLSX, nil
	}

	lower := bytes.ToLower(bytes.TrimLeft(head, " \t\r\n"))
	if bytes.HasPrefix(lower, []byte("<!doctype")) || bytes.HasPrefix(lower, []byte("<html")) {
		return KindHTML, nil
	}

	return KindUnknown, nil
}
