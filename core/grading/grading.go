// Package grading maps an average mark onto an externally supplied grade table.
package grading

// Fail is the label given to a student (or subject) that failed,
// whether by rule or because no grade range matched.
// Use Display to turn it into a printable string.
const Fail = "FAIL"

// GradeRule maps an inclusive mark range onto a grade.
type GradeRule struct {
	ID        int     `json:"id" db:"id"`
	GradeName string  `json:"grade_name" db:"grade_name"`
	MinMark   float64 `json:"min_mark" db:"min_mark"`
	MaxMark   float64 `json:"max_mark" db:"max_mark"`
	GPA       float64 `json:"gpa" db:"gpa"`
	Remarks   string  `json:"remarks" db:"remarks"`
}

// Covers reports whether mark falls within the rule's inclusive range.
func (r GradeRule) Covers(mark float64) bool {
	return r.MinMark <= mark && mark <= r.MaxMark
}

// Table is an ordered set of grade rules.
// Ranges are expected to be contiguous and non-overlapping across 0-100 but this is not enforced.
type Table []GradeRule

// Lookup returns the first rule, in table order, covering mark.
func (t Table) Lookup(mark float64) (GradeRule, bool) {
	for _, r := range t {
		if r.Covers(mark) {
			return r, true
		}
	}
	return GradeRule{}, false
}

// Grade returns the grade label for mark, or Fail when no rule covers it.
func (t Table) Grade(mark float64) string {
	if r, ok := t.Lookup(mark); ok {
		return r.GradeName
	}
	return Fail
}

// FailRule is the rule reported when a student is failed.
func FailRule() GradeRule {
	return GradeRule{GradeName: Fail}
}
