package result

import (
	"github.com/madrasahbd/natija/core"
	"github.com/madrasahbd/natija/core/grading"
)

// Average returns obtained out of 100 rounded to 2 decimals, or 0 when total is not positive.
func Average(obtained, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return core.Round2(obtained / total * 100)
}

func gradeSubject(ssr *StudentSubjectResult, table grading.Table) {
	if ssr.IsFailed || ssr.IsAbsent {
		ssr.Grade = grading.Fail
		ssr.GPA = 0
		return
	}
	rule, ok := table.Lookup(Average(ssr.Obtained, ssr.MaxMark))
	if !ok {
		rule = grading.FailRule()
	}
	ssr.Grade = rule.GradeName
	ssr.GPA = rule.GPA
}

// Calculate applies the grade table and the pass/fail rules to a student's aggregated subjects.
//
// Absent subjects add their max mark to the total. A failed or absent compulsory subject
// fails the student whatever the average; so does an average no grade rule covers.
// A grade worth no grade point is not a pass either.
// The result is not ranked.
func Calculate(student Student, subjects []StudentSubjectResult, table grading.Table) StudentResult {
	res := StudentResult{
		StudentID:   student.ID,
		StudentName: student.Name,
		RollNo:      student.RollNo,
		Subjects:    make([]StudentSubjectResult, len(subjects)),
	}
	copy(res.Subjects, subjects)

	var compulsoryFailed bool
	for i := range res.Subjects {
		ssr := &res.Subjects[i]
		gradeSubject(ssr, table)

		res.TotalObtained += ssr.Obtained
		res.TotalMaxMarks += ssr.MaxMark
		if ssr.IsFailed || ssr.IsAbsent {
			res.FailedSubjects++
			if ssr.IsCompulsory() {
				compulsoryFailed = true
			}
		}
	}
	res.TotalObtained = core.Round2(res.TotalObtained)
	res.TotalMaxMarks = core.Round2(res.TotalMaxMarks)
	res.AverageMarks = Average(res.TotalObtained, res.TotalMaxMarks)

	rule := grading.FailRule()
	if !compulsoryFailed {
		if r, ok := table.Lookup(res.AverageMarks); ok {
			rule = r
		}
	}
	res.Grade = rule.GradeName
	res.GPA = rule.GPA
	res.Remarks = rule.Remarks
	res.IsPassed = rule.GradeName != grading.Fail && rule.GPA > 0
	return res
}
