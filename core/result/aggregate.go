package result

import (
	"sort"
	"strconv"
)

// AggregateOptions tunes the Subject Mark Aggregator.
type AggregateOptions struct {
	// MaxMarkTypes caps how many mark configs of a subject are matched, in configured order.
	// 0 matches all of them.
	MaxMarkTypes int
}

func (o AggregateOptions) markConfigs(sc SubjectMarkConfig) []MarkConfig {
	if o.MaxMarkTypes > 0 && len(sc.MarkConfigs) > o.MaxMarkTypes {
		return sc.MarkConfigs[:o.MaxMarkTypes]
	}
	return sc.MarkConfigs
}

type subjectGroup struct {
	result  StudentSubjectResult
	configs []SubjectMarkConfig
}

// groupKey is shared by configs reported on the same row: same serial and same non-empty combined name.
func groupKey(sc SubjectMarkConfig) string {
	if sc.CombinedSubjectName == "" {
		return "cfg:" + strconv.Itoa(sc.ID) + ":" + strconv.Itoa(sc.SubjectID)
	}
	return "grp:" + strconv.Itoa(sc.SubjectSerial) + ":" + sc.CombinedSubjectName
}

// groupSubjects orders configs by serial and merges the ones reported together.
func groupSubjects(configs []SubjectMarkConfig) []*subjectGroup {
	sorted := make([]SubjectMarkConfig, len(configs))
	copy(sorted, configs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].SubjectSerial < sorted[j].SubjectSerial })

	groups := make([]*subjectGroup, 0, len(sorted))
	byKey := make(map[string]*subjectGroup, len(sorted))
	for _, sc := range sorted {
		key := groupKey(sc)
		grp, ok := byKey[key]
		if !ok {
			grp = &subjectGroup{
				result: StudentSubjectResult{
					SubjectName: sc.DisplayName(),
					Serial:      sc.SubjectSerial,
					SubjectType: Choosable,
				},
			}
			byKey[key] = grp
			groups = append(groups, grp)
		}
		if sc.IsCompulsory() {
			grp.result.SubjectType = Compulsory
		}
		grp.configs = append(grp.configs, sc)
	}
	return groups
}

// Aggregate combines a student's mark entries into one result per reported subject.
//
// Marks are summed across every matched mark config of the subject, as are max and pass marks.
// A mark config without an entry counts as 0 obtained.
// A subject is absent when any of its entries is absent, and then counts 0 obtained.
// A subject fails when it is not absent and obtained < pass mark.
func Aggregate(entries map[int]MarkEntry, configs []SubjectMarkConfig, opts AggregateOptions) []StudentSubjectResult {
	groups := groupSubjects(configs)
	results := make([]StudentSubjectResult, 0, len(groups))
	for _, grp := range groups {
		res := grp.result
		for _, sc := range grp.configs {
			for _, mc := range opts.markConfigs(sc) {
				res.MaxMark += mc.MaxMark
				res.PassMark += mc.PassMark
				if e, ok := entries[mc.ID]; ok {
					if e.IsAbsent {
						res.IsAbsent = true
					}
					res.Obtained += e.Obtained
				}
			}
		}
		if res.IsAbsent {
			res.Obtained = 0
		}
		res.IsFailed = !res.IsAbsent && res.Obtained < res.PassMark
		results = append(results, res)
	}
	return results
}
