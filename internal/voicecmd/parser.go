// Package voicecmd extracts dialable phone numbers from freeform commands
// like "call +918001234567 now". It is pattern extraction only, not an
// intent classifier.
package voicecmd

import (
	"regexp"
	"strings"
)

// candidatePattern matches a run that starts with + or a digit and continues
// with digits/spaces/dashes/parentheses. Separators are stripped afterwards.
var candidatePattern = regexp.MustCompile(`[+\d][\d\s\-()]{7,}`)

// digitsPattern validates the normalized candidate: optional +, 8-15 digits.
var digitsPattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

var separators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

// ExtractNumber returns the first phone-number-looking substring in text,
// with separators removed. The second return is false when nothing matched.
func ExtractNumber(text string) (string, bool) {
	for _, candidate := range candidatePattern.FindAllString(text, -1) {
		number := separators.Replace(strings.TrimSpace(candidate))
		if digitsPattern.MatchString(number) {
			return number, true
		}
	}
	return "", false
}
