package result

import (
	"sort"
	"strings"

	"github.com/madrasahbd/natija/core/grading"
)

// Tie-breaks
const (
	TieBreakNone = "none"
	TieBreakRoll = "roll"
	TieBreakName = "name"
)

var TieBreaks = []string{TieBreakNone, TieBreakRoll, TieBreakName}

// Comparator orders two results: negative when a ranks before b, positive when after, 0 on a tie.
type Comparator func(a, b *StudentResult) int

// ByTotalDesc ranks higher totals first.
func ByTotalDesc(a, b *StudentResult) int {
	switch {
	case a.TotalObtained > b.TotalObtained:
		return -1
	case a.TotalObtained < b.TotalObtained:
		return 1
	default:
		return 0
	}
}

// ByRollNo ranks lower roll numbers first.
func ByRollNo(a, b *StudentResult) int {
	return a.RollNo - b.RollNo
}

// ByName ranks alphabetically, ignoring case.
func ByName(a, b *StudentResult) int {
	return strings.Compare(strings.ToLower(a.StudentName), strings.ToLower(b.StudentName))
}

// Chain returns a Comparator trying each cmp in turn until one breaks the tie.
func Chain(cmps ...Comparator) Comparator {
	return func(a, b *StudentResult) int {
		for _, cmp := range cmps {
			if c := cmp(a, b); c != 0 {
				return c
			}
		}
		return 0
	}
}

// TieBreakComparator returns the ranking Comparator for a tie-break name; unknown names rank by total only.
func TieBreakComparator(tieBreak string) Comparator {
	switch tieBreak {
	case TieBreakRoll:
		return Chain(ByTotalDesc, ByRollNo)
	case TieBreakName:
		return Chain(ByTotalDesc, ByName)
	default:
		return ByTotalDesc
	}
}

func IsTieBreak(s string) bool {
	for _, tb := range TieBreaks {
		if s == tb {
			return true
		}
	}
	return false
}

// Rank stable-sorts results in place with cmp (ByTotalDesc when nil) and numbers them 1..N.
//
// Ranks are always distinct: results cmp considers equal keep their input order
// and receive consecutive ranks, eg. totals [90, 90, 70] rank [1, 2, 3].
func Rank(results []StudentResult, cmp Comparator, locale string) []StudentResult {
	if cmp == nil {
		cmp = ByTotalDesc
	}
	sort.SliceStable(results, func(i, j int) bool { return cmp(&results[i], &results[j]) < 0 })
	for i := range results {
		results[i].Rank = i + 1
		results[i].RankDisplay = grading.DisplayRank(i+1, locale)
	}
	return results
}

func sortByRoll(results []StudentResult) {
	sort.SliceStable(results, func(i, j int) bool { return results[i].RollNo < results[j].RollNo })
}
