package markup

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Parse decodes input to UTF-8 and parses it as HTML. When label is empty the
// charset is sniffed from a BOM or <meta charset>, defaulting to UTF-8.
// Otherwise label is any WHATWG encoding label such as "windows-1251".
func Parse(input []byte, label string) (Element, error) {
	enc, err := resolveEncoding(input, label)
	if err != nil {
		return nil, err
	}
	root, err := html.Parse(transform.NewReader(bytes.NewReader(input), enc.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return Wrap(root), nil
}

// resolveEncoding picks the decoder for input. The sniffer falls back to
// windows-1252 when the first KiB is plain ASCII; a document that is valid
// UTF-8 throughout is treated as UTF-8 instead.
func resolveEncoding(input []byte, label string) (encoding.Encoding, error) {
	label = strings.TrimSpace(label)
	if label != "" {
		enc, err := htmlindex.Get(label)
		if err != nil {
			return nil, fmt.Errorf("unknown encoding %q: %w", label, err)
		}
		return enc, nil
	}
	enc, name, _ := charset.DetermineEncoding(input, "")
	if name == "windows-1252" && utf8.Valid(input) {
		return encoding.Nop, nil
	}
	return enc, nil
}
