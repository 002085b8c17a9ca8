// Package textrepair repairs drug-registry payloads whose declared character
// encoding (ISO-8859-1) does not match the actual bytes (UTF-8). Left alone,
// accented letters arrive as the replacement character or as mismatched
// multi-byte sequences such as "Ã¡" for "á".
//
// Repair is a pure function over the raw bytes and is idempotent: applying it
// to already-repaired or already-correct text returns the text unchanged.
package textrepair

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/medregistry/search-gateway/logging"
)

// declared is the charset the upstream announces. Windows-1252 is its
// practical superset and round-trips all 256 byte values, which the reversal
// step depends on.
var declared = charmap.Windows1252

// literalFixes maps high-frequency mis-decoded sequences to the intended
// letters. Applied after the byte-reversal heuristic to catch runs the
// reversal could not prove it understood. Broken forms are spelled with \u
// escapes: several contain C1 controls or typographic punctuation that do
// not survive as source literals.
var literalFixes = []struct {
	broken string
	fixed  string
}{
	{"\u00c3\u00a1", "\u00e1"}, // a-acute
	{"\u00c3\u00a9", "\u00e9"}, // e-acute
	{"\u00c3\u00ad", "\u00ed"}, // i-acute
	{"\u00c3\u00b3", "\u00f3"}, // o-acute
	{"\u00c3\u00b6", "\u00f6"}, // o-umlaut
	{"\u00c3\u00ba", "\u00fa"}, // u-acute
	{"\u00c3\u00bc", "\u00fc"}, // u-umlaut
	{"\u00c5\u2018", "\u0151"}, // o-double-acute, the classic "A-ring + left quote" corruption
	{"\u00c5\u00b1", "\u0171"}, // u-double-acute
	{"\u00c3\u0081", "\u00c1"},
	{"\u00c3\u2030", "\u00c9"},
	{"\u00c3\u008d", "\u00cd"},
	{"\u00c3\u201c", "\u00d3"},
	{"\u00c3\u2013", "\u00d6"},
	{"\u00c3\u0161", "\u00da"},
	{"\u00c3\u0153", "\u00dc"},
	{"\u00c5\u0090", "\u0150"},
	{"\u00c5\u00b0", "\u0170"},
}

// Repair decodes a raw upstream payload into text, fixing the known
// declared-vs-actual charset mismatch when its fingerprints are present.
// Payloads without fingerprints are returned exactly as decoded. Repair never
// fails: if anything goes wrong the original decoded text is returned, since
// a visually degraded result beats failing the whole request.
func Repair(raw []byte) (out string) {
	var text string
	if utf8.Valid(raw) {
		text = string(raw)
	} else {
		text = decodeDeclared(raw)
	}

	defer func() {
		if r := recover(); r != nil {
			logging.Error("Encoding repair failed, returning unrepaired text", "panic", r)
			out = text
		}
	}()

	// Doubly mangled payloads exist, so repeat until the text is clean or a
	// pass stops changing it. Every effective pass shortens the text, which
	// bounds the loop.
	for looksCorrupted(text) {
		next, ok := reverseMisdecode(text)
		if !ok || next == text {
			next = applyLiteralFixes(text)
		}
		if next == text {
			break
		}
		text = next
	}

	return text
}

// decodeDeclared decodes bytes under the declared charset. A charmap decode
// cannot fail; every byte maps to exactly one rune.
func decodeDeclared(raw []byte) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, c := range raw {
		b.WriteRune(declared.DecodeByte(c))
	}
	return b.String()
}

// looksCorrupted reports whether text carries a known corruption fingerprint:
// the replacement character, or a UTF-8 lead byte (as decoded under the
// declared charset) followed by a character that maps back into the
// continuation-byte range 0x80..0xBF.
func looksCorrupted(text string) bool {
	if strings.ContainsRune(text, utf8.RuneError) {
		return true
	}

	prevWasLead := false
	for _, r := range text {
		if prevWasLead {
			if b, ok := declared.EncodeRune(r); ok && b >= 0x80 && b <= 0xBF {
				return true
			}
		}
		prevWasLead = r >= 0x00C2 && r <= 0x00F4 // lead bytes C2..F4 under the declared charset
	}
	return false
}

// reverseMisdecode undoes the incorrect declared-charset decoding by mapping
// every character back to its original byte, then decodes those bytes as
// UTF-8. The result is only accepted when every character maps back and the
// recovered bytes form valid UTF-8; otherwise the input is left for the
// literal table.
func reverseMisdecode(text string) (string, bool) {
	raw := make([]byte, 0, len(text))
	for _, r := range text {
		b, ok := declared.EncodeRune(r)
		if !ok {
			return "", false
		}
		raw = append(raw, b)
	}
	if !utf8.Valid(raw) {
		return "", false
	}
	return string(raw), true
}

func applyLiteralFixes(text string) string {
	for _, f := range literalFixes {
		if strings.Contains(text, f.broken) {
			text = strings.ReplaceAll(text, f.broken, f.fixed)
		}
	}
	return text
}
