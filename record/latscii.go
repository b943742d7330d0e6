/*
latscii.go - Latin-1 to printable-ASCII transliteration

PURPOSE:
  The receiving validator rejects any body byte outside 0x20..0x7E, so
  every text field is transliterated before padding and truncation.
  Accented Latin letters map to their unaccented proxy; a handful of
  Latin-1 punctuation marks map to visually close ASCII.

STABILITY:
  This table is part of the file format. Changing any entry changes
  the bytes delivered to the validator, so the table is frozen and
  covered by an exhaustive golden test (latscii_test.go). Do not edit
  entries without re-freezing the golden string.

FALLBACK:
  Any codepoint not in the table and not printable ASCII becomes the
  replacement character '?'. Control characters never pass through.
*/
package record

import "strings"

// Replacement is emitted for every codepoint the table cannot cover.
const Replacement = '?'

// latscii maps each supported non-ASCII codepoint to its ASCII proxy.
// Proxies may be longer than one character (AE, ss); expansion happens
// before field truncation, so column widths are unaffected.
var latscii = map[rune]string{
	'\u00a0': " ", // no-break space
	'¡':      "!",
	'¢':      "c",
	'£':      "L",
	'¤':      "$",
	'¥':      "Y",
	'¦':      "|",
	'§':      "S",
	'¨':      "\"",
	'©':      "C",
	'ª':      "a",
	'«':      "<",
	'¬':      "-",
	'\u00ad': "-", // soft hyphen
	'®':      "R",
	'¯':      "-",
	'°':      "o",
	'±':      "+",
	'²':      "2",
	'³':      "3",
	'´':      "'",
	'µ':      "u",
	'¶':      "P",
	'·':      ".",
	'¸':      ",",
	'¹':      "1",
	'º':      "o",
	'»':      ">",
	'¼':      "1/4",
	'½':      "1/2",
	'¾':      "3/4",
	'¿':      "?",
	'À':      "A",
	'Á':      "A",
	'Â':      "A",
	'Ã':      "A",
	'Ä':      "A",
	'Å':      "A",
	'Æ':      "AE",
	'Ç':      "C",
	'È':      "E",
	'É':      "E",
	'Ê':      "E",
	'Ë':      "E",
	'Ì':      "I",
	'Í':      "I",
	'Î':      "I",
	'Ï':      "I",
	'Ð':      "D",
	'Ñ':      "N",
	'Ò':      "O",
	'Ó':      "O",
	'Ô':      "O",
	'Õ':      "O",
	'Ö':      "O",
	'×':      "x",
	'Ø':      "O",
	'Ù':      "U",
	'Ú':      "U",
	'Û':      "U",
	'Ü':      "U",
	'Ý':      "Y",
	'Þ':      "TH",
	'ß':      "ss",
	'à':      "a",
	'á':      "a",
	'â':      "a",
	'ã':      "a",
	'ä':      "a",
	'å':      "a",
	'æ':      "ae",
	'ç':      "c",
	'è':      "e",
	'é':      "e",
	'ê':      "e",
	'ë':      "e",
	'ì':      "i",
	'í':      "i",
	'î':      "i",
	'ï':      "i",
	'ð':      "d",
	'ñ':      "n",
	'ò':      "o",
	'ó':      "o",
	'ô':      "o",
	'õ':      "o",
	'ö':      "o",
	'÷':      "/",
	'ø':      "o",
	'ù':      "u",
	'ú':      "u",
	'û':      "u",
	'ü':      "u",
	'ý':      "y",
	'þ':      "th",
	'ÿ':      "y",
}

// Transliterate converts s to printable 7-bit ASCII. Printable ASCII
// passes through unchanged; mapped Latin-1 codepoints become their
// proxy; everything else becomes Replacement.
func Transliterate(s string) string {
	// Fast path: already printable ASCII.
	clean := true
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			clean = false
			break
		}
	}
	if clean {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 0x20 && r <= 0x7e:
			b.WriteRune(r)
		default:
			if proxy, ok := latscii[r]; ok {
				b.WriteString(proxy)
			} else {
				b.WriteByte(Replacement)
			}
		}
	}
	return b.String()
}
