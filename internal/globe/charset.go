package globe

import (
	"fmt"
	"strings"
)

// Charset selects the glyph ramp used to shade the sphere.
type Charset int

const (
	CharsetASCII Charset = iota
	CharsetBlocks
	CharsetBraille
)

func ParseCharset(s string) (Charset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "blocks":
		return CharsetBlocks, nil
	case "ascii":
		return CharsetASCII, nil
	case "braille":
		return CharsetBraille, nil
	default:
		return CharsetBlocks, fmt.Errorf("unknown charset %q (want ascii, blocks or braille)", s)
	}
}

func (c Charset) String() string {
	switch c {
	case CharsetASCII:
		return "ascii"
	case CharsetBraille:
		return "braille"
	default:
		return "blocks"
	}
}

var (
	asciiLand   = []rune("-=+*#%@")
	blocksLand  = []rune("░▒▓█")
	brailleLand = []rune("⠂⠆⠖⠶⡶⣶⣾⣿")
)

// landGlyph maps a light intensity in [0,1] onto the charset's ramp.
func landGlyph(shade float64, c Charset) rune {
	ramp := blocksLand
	switch c {
	case CharsetASCII:
		ramp = asciiLand
	case CharsetBraille:
		ramp = brailleLand
	}
	if shade < 0 {
		shade = 0
	}
	i := int(shade * float64(len(ramp)))
	if i >= len(ramp) {
		i = len(ramp) - 1
	}
	return ramp[i]
}

func oceanGlyph(shade float64, c Charset) rune {
	if shade < 0.35 {
		return ' '
	}
	if c == CharsetBraille {
		return '⠄'
	}
	return '.'
}

func atmosphereGlyph(c Charset) rune {
	switch c {
	case CharsetASCII:
		return ':'
	case CharsetBraille:
		return '⠁'
	default:
		return '░'
	}
}
