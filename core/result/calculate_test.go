package result

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/madrasahbd/natija/core/grading"
)

var gradeTable = grading.Table{
	{ID: 1, GradeName: "A+", MinMark: 80, MaxMark: 100, GPA: 5, Remarks: "Excellent"},
	{ID: 2, GradeName: "A", MinMark: 70, MaxMark: 79.99, GPA: 4, Remarks: "Very Good"},
	{ID: 3, GradeName: "B", MinMark: 60, MaxMark: 69.99, GPA: 3.5, Remarks: "Good"},
	{ID: 4, GradeName: "C", MinMark: 50, MaxMark: 59.99, GPA: 3, Remarks: "Satisfactory"},
	{ID: 5, GradeName: "D", MinMark: 33, MaxMark: 49.99, GPA: 2, Remarks: "Passed"},
	{ID: 6, GradeName: "F", MinMark: 0, MaxMark: 32.99, GPA: 0, Remarks: "Failed"},
}

func TestAverage(t *testing.T) {
	tests := []struct {
		obtained, total, want float64
	}{
		{85, 100, 85},
		{2, 3, 66.67},
		{1, 3, 33.33},
		{0, 100, 0},
		{50, 0, 0},
		{50, -10, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Average(tt.obtained, tt.total), "%v/%v", tt.obtained, tt.total)
	}
}

func TestCalculate(t *testing.T) {
	student := Student{ID: 7, Name: "Abdullah", RollNo: 3, ClassID: 1}

	tests := []struct {
		name         string
		subjects     []StudentSubjectResult
		wantTotal    float64
		wantMax      float64
		wantAverage  float64
		wantGrade    string
		wantGPA      float64
		wantRemarks  string
		wantFailed   int
		wantIsPassed bool
	}{
		{
			name: "single subject grades on its average",
			subjects: []StudentSubjectResult{
				{SubjectName: "Arabic", SubjectType: Compulsory, Obtained: 85, MaxMark: 100, PassMark: 33},
			},
			wantTotal: 85, wantMax: 100, wantAverage: 85, wantGrade: "A+", wantGPA: 5, wantRemarks: "Excellent",
			wantIsPassed: true,
		},
		{
			name: "average across subjects",
			subjects: []StudentSubjectResult{
				{SubjectName: "Arabic", SubjectType: Compulsory, Obtained: 70, MaxMark: 100, PassMark: 33},
				{SubjectName: "Math", SubjectType: Compulsory, Obtained: 58, MaxMark: 100, PassMark: 33},
				{SubjectName: "Science", SubjectType: Choosable, Obtained: 50, MaxMark: 100, PassMark: 33},
			},
			wantTotal: 178, wantMax: 300, wantAverage: 59.33, wantGrade: "C", wantGPA: 3, wantRemarks: "Satisfactory",
			wantIsPassed: true,
		},
		{
			name: "absent compulsory subject fails whatever the average",
			subjects: []StudentSubjectResult{
				{SubjectName: "Arabic", SubjectType: Compulsory, Obtained: 95, MaxMark: 100, PassMark: 33},
				{SubjectName: "Math", SubjectType: Compulsory, Obtained: 95, MaxMark: 100, PassMark: 33},
				{SubjectName: "Quran", SubjectType: Compulsory, MaxMark: 100, PassMark: 33, IsAbsent: true},
			},
			wantTotal: 190, wantMax: 300, wantAverage: 63.33, wantGrade: grading.Fail, wantFailed: 1,
		},
		{
			name: "failed compulsory subject fails the student",
			subjects: []StudentSubjectResult{
				{SubjectName: "Arabic", SubjectType: Compulsory, Obtained: 100, MaxMark: 100, PassMark: 33},
				{SubjectName: "Math", SubjectType: Compulsory, Obtained: 20, MaxMark: 100, PassMark: 33, IsFailed: true},
			},
			wantTotal: 120, wantMax: 200, wantAverage: 60, wantGrade: grading.Fail, wantFailed: 1,
		},
		{
			name: "failed choosable subject does not fail the student",
			subjects: []StudentSubjectResult{
				{SubjectName: "Arabic", SubjectType: Compulsory, Obtained: 90, MaxMark: 100, PassMark: 33},
				{SubjectName: "Art", SubjectType: Choosable, Obtained: 10, MaxMark: 100, PassMark: 33, IsFailed: true},
			},
			wantTotal: 100, wantMax: 200, wantAverage: 50, wantGrade: "C", wantGPA: 3, wantRemarks: "Satisfactory",
			wantFailed: 1, wantIsPassed: true,
		},
		{
			name:      "no subjects",
			subjects:  nil,
			wantGrade: "F", wantRemarks: "Failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(student, tt.subjects, gradeTable)

			assert.Equal(t, student.ID, got.StudentID)
			assert.Equal(t, student.Name, got.StudentName)
			assert.Equal(t, student.RollNo, got.RollNo)
			assert.Len(t, got.Subjects, len(tt.subjects))
			assert.Equal(t, tt.wantTotal, got.TotalObtained)
			assert.Equal(t, tt.wantMax, got.TotalMaxMarks)
			assert.Equal(t, tt.wantAverage, got.AverageMarks)
			assert.Equal(t, tt.wantGrade, got.Grade)
			assert.Equal(t, tt.wantGPA, got.GPA)
			assert.Equal(t, tt.wantRemarks, got.Remarks)
			assert.Equal(t, tt.wantFailed, got.FailedSubjects)
			assert.Equal(t, tt.wantIsPassed, got.IsPassed)
			assert.Zero(t, got.Rank)
		})
	}
}

func TestCalculate_subjectGrades(t *testing.T) {
	got := Calculate(Student{ID: 1}, []StudentSubjectResult{
		{SubjectName: "Arabic", SubjectType: Compulsory, Obtained: 36, MaxMark: 50, PassMark: 17},
		{SubjectName: "Art", SubjectType: Choosable, Obtained: 8, MaxMark: 50, PassMark: 17, IsFailed: true},
		{SubjectName: "Quran", SubjectType: Choosable, MaxMark: 50, PassMark: 17, IsAbsent: true},
	}, gradeTable)

	assert.Equal(t, "A", got.Subjects[0].Grade)
	assert.Equal(t, 4.0, got.Subjects[0].GPA)
	assert.Equal(t, grading.Fail, got.Subjects[1].Grade)
	assert.Zero(t, got.Subjects[1].GPA)
	assert.Equal(t, grading.Fail, got.Subjects[2].Grade)
	assert.Equal(t, 150.0, got.TotalMaxMarks)
	assert.Equal(t, 2, got.FailedSubjects)
}

func TestCalculate_emptyGradeTable(t *testing.T) {
	got := Calculate(Student{ID: 1}, []StudentSubjectResult{
		{SubjectName: "Arabic", SubjectType: Compulsory, Obtained: 90, MaxMark: 100, PassMark: 33},
	}, nil)

	assert.Equal(t, grading.Fail, got.Grade)
	assert.Equal(t, grading.Fail, got.Subjects[0].Grade)
	assert.False(t, got.IsPassed)
}

func TestCalculate_doesNotMutateInput(t *testing.T) {
	subjects := []StudentSubjectResult{{SubjectName: "Arabic", SubjectType: Compulsory, Obtained: 90, MaxMark: 100}}
	Calculate(Student{ID: 1}, subjects, gradeTable)
	assert.Empty(t, subjects[0].Grade)
}
