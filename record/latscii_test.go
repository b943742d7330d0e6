package record_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warp/sintegra-engine/record"
)

// latin1Golden freezes the transliteration of every Latin-1 codepoint
// from 0xA0 to 0xFF, in order. The table is part of the file format:
// if this test fails, the bytes delivered to the validator changed.
const latin1Golden = ` !cL$Y|S"Ca<--R-o+23'uP.,1o>1/41/23/4?` +
	`AAAAAAAECEEEEIIIIDNOOOOOxOUUUUYTHss` +
	`aaaaaaaeceeeeiiiidnooooo/ouuuuythy`

func TestTransliterate_Latin1Golden(t *testing.T) {
	var in []rune
	for r := rune(0xa0); r <= 0xff; r++ {
		in = append(in, r)
	}
	assert.Equal(t, latin1Golden, record.Transliterate(string(in)))
}

func TestTransliterate_Latin1IsAlwaysPrintableASCII(t *testing.T) {
	for r := rune(0xa0); r <= 0xff; r++ {
		out := record.Transliterate(string(r))
		assert.NotEmpty(t, out, "U+%04X produced nothing", r)
		for _, b := range []byte(out) {
			assert.True(t, b >= 0x20 && b <= 0x7e, "U+%04X produced byte 0x%02x", r, b)
		}
	}
}

func TestTransliterate_ASCIIPassesThrough(t *testing.T) {
	s := `The quick brown fox: 0123456789 !"#$%&'()*+,-./ <=>?@ [\]^_` + "`{|}~"
	assert.Equal(t, s, record.Transliterate(s))
}

func TestTransliterate_ControlCharactersBecomeReplacement(t *testing.T) {
	assert.Equal(t, "a?b", record.Transliterate("a\tb"))
	assert.Equal(t, "??", record.Transliterate("\x00\x1f"))
}

func TestTransliterate_UnmappedCodepointsBecomeReplacement(t *testing.T) {
	assert.Equal(t, "?", record.Transliterate("€"))
	assert.Equal(t, "cafe ?", record.Transliterate("café ☕"))
}

func TestTransliterate_BrazilianNames(t *testing.T) {
	assert.Equal(t, "Sao Joao da Boa Vista", record.Transliterate("São João da Boa Vista"))
	assert.Equal(t, "ACOUGUE E PADARIA CORACAO", record.Transliterate("AÇOUGUE E PADARIA CORAÇÃO"))
	assert.Equal(t, "Moveis Irmaos Muller", record.Transliterate("Móveis Irmãos Müller"))
}
