// Package encoding turns legacy spreadsheet exports into UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	textencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charset names a supported source encoding.
type Charset string

const (
	UTF8        Charset = "UTF-8"
	UTF16LE     Charset = "UTF-16LE"
	UTF16BE     Charset = "UTF-16BE"
	Windows1256 Charset = "windows-1256"
	ISO8859_6   Charset = "ISO-8859-6"
	Windows1252 Charset = "windows-1252"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// ParseCharset accepts the usual spellings of the supported charsets.
func ParseCharset(name string) (Charset, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "_", "-")) {
	case "utf-8", "utf8":
		return UTF8, nil
	case "utf-16le", "utf-16":
		return UTF16LE, nil
	case "utf-16be":
		return UTF16BE, nil
	case "windows-1256", "cp1256", "arabic":
		return Windows1256, nil
	case "iso-8859-6", "iso8859-6":
		return ISO8859_6, nil
	case "windows-1252", "cp1252", "iso-8859-1", "latin1":
		return Windows1252, nil
	}

	return "", fmt.Errorf("unsupported charset %q", name)
}

func decoder(cs Charset) textencoding.Encoding {
	switch cs {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case Windows1256:
		return charmap.Windows1256
	case ISO8859_6:
		return charmap.ISO8859_6
	case Windows1252:
		return charmap.Windows1252
	}

	return nil
}

// NewReader decodes r from an explicitly chosen charset. A UTF-8 BOM is dropped.
func NewReader(r io.Reader, cs Charset) (io.Reader, error) {
	if cs == UTF8 {
		br := bufio.NewReader(r)
		if buf, _ := br.Peek(len(bomUTF8)); bytes.Equal(buf, bomUTF8) {
			_, _ = br.Discard(len(bomUTF8))
		}

		return br, nil
	}

	enc := decoder(cs)
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", cs)
	}

	return transform.NewReader(r, enc.NewDecoder()), nil
}

// NewUTF8Reader detects the encoding of the input and returns a reader
// that decodes the content to UTF-8, along with the charset it settled on.
//
// Detection order:
//  1. Check for BOM (UTF-8 BOM is stripped; UTF-16 LE/BE is decoded)
//  2. Validate if the content is valid UTF-8 and return as-is
//  3. Heuristic detection via chardet
//  4. Fallback to Windows-1252
func NewUTF8Reader(r io.Reader) (io.Reader, Charset, error) {
	br := bufio.NewReader(r)

	buf, err := br.Peek(4096)
	if err != nil && err != io.EOF {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, UTF8, nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		return transform.NewReader(br, decoder(UTF16LE).NewDecoder()), UTF16LE, nil
	case bytes.HasPrefix(buf, bomUTF16BE):
		return transform.NewReader(br, decoder(UTF16BE).NewDecoder()), UTF16BE, nil
	}

	if utf8.Valid(buf) {
		return br, UTF8, nil
	}

	cs := Windows1252

	if result, err := chardet.NewTextDetector().DetectBest(buf); err == nil {
		switch result.Charset {
		case "UTF-8":
			return br, UTF8, nil
		case "windows-1256":
			cs = Windows1256
		case "ISO-8859-6":
			cs = ISO8859_6
		}
	}

	return transform.NewReader(br, decoder(cs).NewDecoder()), cs, nil
}
