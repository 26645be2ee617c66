package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// Japanese prefecture suffixes, used to strip the administrative segment from
// the front of an address so street-level text is compared.
var prefectureSuffixes = []rune{'都', '道', '府', '県'}

// punctuation stripped by NormalizeText, beyond what unicode.IsPunct covers.
const strippedSymbols = "・〜~－―‐"

// NormalizeText canonicalizes free text for comparison: width-folds
// full-width ASCII to half-width (and half-width kana to full-width),
// lower-cases, and strips whitespace and punctuation.
func NormalizeText(s string) string {
	folded := width.Fold.String(s)
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			continue
		}
		if strings.ContainsRune(strippedSymbols, r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// NormalizeName canonicalizes a person or building name.
func NormalizeName(s string) string {
	return NormalizeText(s)
}

// NormalizePhone reduces a phone number to its digits. Full-width digits are
// folded to ASCII first, so "０９０−１２３４" and "090-1234" normalize equally.
func NormalizePhone(s string) string {
	folded := width.Fold.String(s)
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeAddress canonicalizes an address and strips a leading prefecture
// segment (…都, …道, …府, …県) so that two records differing only in how much
// administrative prefix they carry still compare on the street-level text.
func NormalizeAddress(s string) string {
	normalized := NormalizeText(s)
	runes := []rune(normalized)

	// Prefecture names are two kanji plus a suffix (東京都, 大阪府, 千葉県,
	// 北海道) or, for a handful of cases, three kanji plus 県 (神奈川県).
	if len(runes) > 3 {
		for _, suffix := range prefectureSuffixes {
			if runes[2] == suffix {
				return string(runes[3:])
			}
		}
	}
	if len(runes) > 4 && runes[3] == '県' {
		return string(runes[4:])
	}
	return normalized
}
