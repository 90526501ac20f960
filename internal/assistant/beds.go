package assistant

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/wolfman30/swasthyasathi/internal/records"
)

const (
	msgNoBeds       = "❌ No available beds."
	bedsHeading     = "🏥 **Available Beds:**\n\n"
	bedsTableHeader = "| Bed No | Ward | Type |\n|--------|------|------|\n"
)

// availableBeds lists beds whose status is "available" and, when ward is
// given, whose ward matches too. Rows keep table order.
func availableBeds(beds *records.Table, ward string) string {
	ward = normalize(ward)

	var rows strings.Builder
	for i := 0; i < beds.Len(); i++ {
		bed := records.BedAt(beds, i)
		if normalize(bed.Status) != "available" {
			continue
		}
		bedWard := normalize(bed.Ward)
		if ward != "" && bedWard != ward {
			continue
		}
		fmt.Fprintf(&rows, "| %s | %s | %s |\n", bed.BedNo, titleCase(bedWard), titleCase(bed.BedType))
	}
	if rows.Len() == 0 {
		return msgNoBeds
	}
	return bedsHeading + bedsTableHeader + rows.String()
}

// titleCase capitalises each word, treating an apostrophe as a word break
// so "o'neil wing" renders as "O'Neil Wing".
func titleCase(s string) string {
	title := cases.Title(language.Und)
	var b strings.Builder
	for {
		i := strings.IndexAny(s, "'\u2019")
		if i < 0 {
			b.WriteString(title.String(s))
			return b.String()
		}
		_, width := utf8.DecodeRuneInString(s[i:])
		b.WriteString(title.String(s[:i]))
		b.WriteString(s[i : i+width])
		s = s[i+width:]
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
