package table

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

var (
	utf8BOM = []byte("\xef\xbb\xbf")

	detectCharset = func(data []byte) string { // mockable
		res, err := chardet.NewTextDetector().DetectBest(data)
		if err != nil || res == nil {
			return ""
		}
		return strings.ToLower(res.Charset)
	}

	// single-byte encodings spreadsheet tools commonly export CSVs with
	fallbackDecoders = map[string]encoding.Encoding{
		"iso-8859-1":   charmap.Windows1252, // superset, C1 range is unused in practice
		"windows-1252": charmap.Windows1252,
		"iso-8859-15":  charmap.ISO8859_15,
	}
)

// Decode turns raw file bytes into text.
// A leading UTF-8 BOM is dropped. Content that is not valid UTF-8 is transcoded
// when its detected charset is a supported single-byte encoding.
func Decode(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if bytes.IndexByte(data, 0) != -1 {
		return "", &DecodeError{Err: errBinaryContent}
	}
	if utf8.Valid(data) {
		return string(data), nil
	}

	cs := detectCharset(data)
	enc, ok := fallbackDecoders[cs]
	if !ok {
		return "", &DecodeError{Charset: cs, Err: errUnsupportedCharset}
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", &DecodeError{Charset: cs, Err: err}
	}
	return string(out), nil
}
