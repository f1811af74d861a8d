package grading

import (
	"strconv"
	"strings"
)

// Locales
const (
	Bengali = "bn"
	English = "en"
)

var (
	failLabels = map[string]string{
		Bengali: "ফেল",
		English: "Fail",
	}

	bengaliDigits = strings.NewReplacer(
		"0", "০", "1", "১", "2", "২", "3", "৩", "4", "৪",
		"5", "৫", "6", "৬", "7", "৭", "8", "৮", "9", "৯",
	)
)

// Display resolves a grade label for the given locale.
// Rule labels are printed as-is; unknown locales fall back to Bengali.
func Display(label, locale string) string {
	if label != Fail {
		return label
	}
	if s, ok := failLabels[locale]; ok {
		return s
	}
	return failLabels[Bengali]
}

// DisplayRank renders a 1-based rank as an ordinal, eg. "2nd" or "২য়".
func DisplayRank(rank int, locale string) string {
	if rank <= 0 {
		return ""
	}
	if locale == English {
		return strconv.Itoa(rank) + englishSuffix(rank)
	}
	return bengaliDigits.Replace(strconv.Itoa(rank)) + bengaliSuffix(rank)
}

func englishSuffix(n int) string {
	if n%100 >= 11 && n%100 <= 13 {
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

func bengaliSuffix(n int) string {
	switch n {
	case 1, 5, 7, 8, 9, 10:
		return "ম"
	case 2, 3:
		return "য়"
	case 4:
		return "র্থ"
	case 6:
		return "ষ্ঠ"
	default:
		return "তম"
	}
}

// BengaliDigits replaces ASCII digits in s with Bengali digits.
func BengaliDigits(s string) string {
	return bengaliDigits.Replace(s)
}
