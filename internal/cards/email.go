package cards

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/models"
)

// MaxLocalPart is the longest local part (before "@") a derived address may have.
const MaxLocalPart = 15

// DeriveEmail builds "<name><n>@student.example". The name part is the lower-cased
// first and last names with whitespace and periods removed, cut so that name plus
// the digits of n fit in [MaxLocalPart] characters. The digits are never cut.
func DeriveEmail(first, last string, n int) string {
	name := []rune(squash(first) + squash(last))
	digits := strconv.Itoa(n)

	keep := MaxLocalPart - len(digits)
	if keep < 0 {
		keep = 0
	}
	if len(name) > keep {
		name = name[:keep]
	}
	return string(name) + digits + "@" + models.EmailDomain
}

func squash(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '.' || unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}
