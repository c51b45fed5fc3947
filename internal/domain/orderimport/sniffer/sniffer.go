// Package sniffer decides the byte encoding of uploaded CSV files before they
// are decoded to text. Spreadsheet tools on Arabic-locale machines routinely
// emit Windows-1256 CSV, and some of those files even survive a UTF-8 decode
// without erroring, so a plain utf8-or-bust read silently garbles every
// Arabic field.
package sniffer

import (
	"bytes"
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Encoding labels the two encodings this pipeline accepts.
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1256 Encoding = "windows-1256"
)

var ErrEmptyFile = errors.New("file is empty")

// BOM is the UTF-8 byte-order mark.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Detect inspects raw CSV bytes and picks the encoding to decode them with.
func Detect(data []byte) Encoding {
	if bytes.HasPrefix(data, BOM) {
		return EncodingUTF8
	}
	if !utf8.Valid(data) {
		return EncodingWindows1256
	}
	if looksLikeMojibake(string(data)) {
		return EncodingWindows1256
	}
	return EncodingUTF8
}

// DecodeText decodes raw CSV bytes to UTF-8 text using the detected encoding.
// A leading BOM is stripped.
func DecodeText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	if Detect(data) == EncodingWindows1256 {
		decoded, _, err := transform.Bytes(charmap.Windows1256.NewDecoder(), data)
		if err != nil {
			return "", fmt.Errorf("failed to decode windows-1256 file: %w", err)
		}
		return string(decoded), nil
	}
	return string(bytes.TrimPrefix(data, BOM)), nil
}

// looksLikeMojibake reports whether text that decoded cleanly as UTF-8 carries
// the signature of a Windows-1256 file read under the wrong encoding: no
// Arabic script at all, but runs of two or more Latin-1 supplement characters.
func looksLikeMojibake(text string) bool {
	run := 0
	found := false
	for _, r := range text {
		if unicode.Is(unicode.Arabic, r) {
			return false
		}
		if r >= 0x80 && r <= 0xFF {
			run++
			if run >= 2 {
				found = true
			}
		} else {
			run = 0
		}
	}
	return found
}
