package normalize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var combining = map[string]string{
	"'": "\u0301", // acute
	"`": "\u0300", // grave
	`"`: "\u0308", // diaeresis
	"^": "\u0302", // circumflex
	"~": "\u0303", // tilde
	"=": "\u0304", // macron
	".": "\u0307", // dot above
	"d": "\u0323", // dot below
	"b": "\u0331", // macron below
	"H": "\u030b", // double acute
	"c": "\u0327", // cedilla
	"k": "\u0328", // ogonek
	"r": "\u030a", // ring above
	"u": "\u0306", // breve
	"v": "\u030c", // caron
}

// Symbol accents may touch their letter (\'e); letter accents need a brace or a space
// (\c{c}, \c c) so that control words such as \url are left alone.
const (
	symbolAccents = "['`\"\\^~=.]"
	letterAccents = "[dbHckruv]"
)

var (
	bracedSymbol = regexp.MustCompile(`\{\\(` + symbolAccents + `)(?:\s*\{([^{}]+)\}|([A-Za-z]))\}`)
	bracedLetter = regexp.MustCompile(`\{\\(` + letterAccents + `)(?:\s*\{([^{}]+)\}|\s+([A-Za-z]))\}`)
	bareSymbol   = regexp.MustCompile(`\\(` + symbolAccents + `)(?:\s*\{([^{}]+)\}|([A-Za-z]))`)
	bareLetter   = regexp.MustCompile(`\\(` + letterAccents + `)(?:\s*\{([^{}]+)\}|\s+([A-Za-z]))`)

	macroPattern = regexp.MustCompile(`\{\\(ae|AE|oe|OE|aa|AA|ss|o|O|l|L)\}|\\(ae|AE|oe|OE|aa|AA|ss|o|O|l|L)(\{\}|[^A-Za-z]|$)`)
	singleBraced = regexp.MustCompile(`\{([^{}])\}`)
)

var macros = map[string]string{
	"ae": "æ", "AE": "Æ",
	"oe": "œ", "OE": "Œ",
	"aa": "å", "AA": "Å",
	"ss": "ß",
	"o": "ø", "O": "Ø",
	"l": "ł", "L": "Ł",
}

var dotless = map[string]string{`\i`: "i", `\j`: "j"}

// ConvertAccents replaces LaTeX accent commands and letter macros in a field value with
// NFC composed characters and drops braces around a lone non-ASCII character.
func ConvertAccents(value string) string {
	if !strings.Contains(value, `\`) {
		return value
	}
	for _, re := range []*regexp.Regexp{bracedSymbol, bracedLetter, bareSymbol, bareLetter} {
		value = replaceSubmatch(re, value, composeAccent)
	}
	// A bare macro consumes the character after it, so adjacent macros need another pass.
	for {
		next := replaceSubmatch(macroPattern, value, replaceMacro)
		if next == value {
			break
		}
		value = next
	}
	return replaceSubmatch(singleBraced, value, func(m []string) string {
		r, _ := utf8.DecodeRuneInString(m[1])
		if r >= utf8.RuneSelf {
			return m[1]
		}
		return m[0]
	})
}

func replaceMacro(m []string) string {
	if m[1] != "" {
		return macros[m[1]]
	}
	tail := m[3]
	if tail == "{}" {
		tail = ""
	}
	return macros[m[2]] + tail
}

func composeAccent(m []string) string {
	target := m[2]
	if target == "" {
		target = m[3]
	}
	base := strings.TrimSpace(target)
	if b, ok := dotless[base]; ok {
		base = b
	}
	if utf8.RuneCountInString(base) != 1 {
		return m[0]
	}
	mark, ok := combining[m[1]]
	if !ok {
		return m[0]
	}
	return norm.NFC.String(base + mark)
}

// replaceSubmatch is ReplaceAllStringFunc with access to the capture groups.
func replaceSubmatch(re *regexp.Regexp, s string, fn func(groups []string) string) string {
	idx := re.FindAllStringSubmatchIndex(s, -1)
	if idx == nil {
		return s
	}
	var b strings.Builder
	last := 0
	for _, loc := range idx {
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = s[loc[2*i]:loc[2*i+1]]
			}
		}
		b.WriteString(s[last:loc[0]])
		b.WriteString(fn(groups))
		last = loc[1]
	}
	b.WriteString(s[last:])
	return b.String()
}
