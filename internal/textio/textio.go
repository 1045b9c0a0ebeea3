// Copyright 2026 QuakeWatch
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package textio reads narrative input files and returns their content as
// UTF-8 text. Model output is normally UTF-8 already, but narratives pasted
// through editors or fetched from feeds show up in Windows-1252, Latin-1,
// and the occasional UTF-16 dump, so decoding goes through charset
// detection instead of trusting the bytes.
package textio

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// ReadFile reads path and returns its content decoded to UTF-8.
// It refuses binary files.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return DecodeBytes(data)
}

// ReadAll drains r and returns its content decoded to UTF-8.
func ReadAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return DecodeBytes(data)
}

// DecodeBytes decodes data to UTF-8 text. Binary content is rejected.
func DecodeBytes(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	if !IsText(data) {
		return "", fmt.Errorf("input is %s, not text", mimetype.Detect(data).String())
	}
	return decode(data), nil
}

// DecodeBytesAs decodes data using the named charset instead of detection.
// An empty charset falls back to DecodeBytes.
func DecodeBytesAs(data []byte, charset string) (string, error) {
	if charset == "" {
		return DecodeBytes(data)
	}
	enc := lookupEncoding(charset)
	if enc == nil {
		return "", fmt.Errorf("unsupported charset %q", charset)
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode as %s: %w", charset, err)
	}
	return strings.ToValidUTF8(string(decoded), "�"), nil
}

// IsText reports whether data sniffs as a textual MIME type.
func IsText(data []byte) bool {
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	mime := mt.String()
	return strings.HasPrefix(mime, "text/") ||
		strings.HasPrefix(mime, "application/json")
}

func decode(data []byte) string {
	// Clean UTF-8 without high bytes needs no detection at all.
	if utf8.Valid(data) && !hasHighBytes(data) {
		return string(data)
	}
	if utf8.Valid(data) {
		s := string(data)
		if !strings.ContainsRune(s, '�') {
			return s
		}
	}

	detector := chardet.NewTextDetector()
	results, err := detector.DetectAll(data)
	if err == nil {
		best, bestScore := "", -1
		for _, r := range results {
			enc := lookupEncoding(r.Charset)
			if enc == nil {
				continue
			}
			decoded, err := enc.NewDecoder().Bytes(data)
			if err != nil {
				continue
			}
			s := string(decoded)
			if score := scoreDecoded(s, r.Confidence); score > bestScore {
				best, bestScore = s, score
			}
		}
		if best != "" {
			return best
		}
	}

	// Last resort: replace invalid sequences rather than fail.
	return strings.ToValidUTF8(string(data), "�")
}

// scoreDecoded ranks a candidate decoding. Detector confidence alone is not
// enough: Latin-1 will happily map Windows-1252 punctuation onto C1 control
// characters, so those have to cost more than the confidence gap.
func scoreDecoded(text string, confidence int) int {
	score := confidence
	for _, r := range text {
		switch {
		case r == '�':
			score -= 10
		case r < 0x20 && r != '\n' && r != '\r' && r != '\t':
			score -= 5
		case r >= 0x80 && r <= 0x9F:
			score -= 5
		case r >= 'A' && r <= 'z':
			score++
		}
	}
	return score
}

func hasHighBytes(data []byte) bool {
	for _, b := range data {
		if b > 0x7F {
			return true
		}
	}
	return false
}

// lookupEncoding maps detector charset names to decoders. Narratives are
// western text, so the table only covers encodings those actually arrive in.
func lookupEncoding(charset string) encoding.Encoding {
	switch strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(charset, "-", ""), "_", "")) {
	case "utf8", "utf8bom", "ascii", "usascii":
		return unicode.UTF8
	case "utf16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case "utf16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case "iso88591", "latin1", "windows1252", "cp1252":
		// Latin-1 labelled text is almost always Windows-1252 in practice,
		// same superset treatment browsers apply.
		return charmap.Windows1252
	case "iso885915":
		return charmap.ISO8859_15
	case "windows1250", "cp1250":
		return charmap.Windows1250
	case "windows1254", "cp1254":
		return charmap.Windows1254
	}
	return nil
}
