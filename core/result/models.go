package result

import "github.com/pkg/errors"

// Subject types
const (
	Compulsory = "COMPULSORY"
	Choosable  = "CHOOSABLE"
)

var (
	SubjectTypes = []string{Compulsory, Choosable}

	// errors
	ErrNotFound = errors.New("not found")
)

type (
	// MarkConfig is one assessed component (mark-type) of a subject, eg. MCQ or Written.
	MarkConfig struct {
		ID              int     `json:"id" db:"id"`
		SubjectConfigID int     `json:"subject_config_id" db:"subject_config_id"`
		MarkTypeID      int     `json:"mark_type_id" db:"mark_type_id"`
		MarkTypeName    string  `json:"mark_type_name" db:"mark_type_name"`
		MaxMark         float64 `json:"max_mark" db:"max_mark"`
		PassMark        float64 `json:"pass_mark" db:"pass_mark"`
	}

	// SubjectMarkConfig maps one reported subject of a class onto its mark-types.
	SubjectMarkConfig struct {
		ID                  int          `json:"id"`
		SubjectID           int          `json:"subject_id"`
		ClassID             int          `json:"class_id"`
		SubjectName         string       `json:"subject_name"`
		SubjectSerial       int          `json:"subject_serial"`
		SubjectType         string       `json:"subject_type"`
		CombinedSubjectName string       `json:"combined_subject_name"`
		MaxMark             float64      `json:"max_mark"`
		MarkConfigs         []MarkConfig `json:"mark_configs"`
	}

	// ObtainedMark is a student's mark on one mark-type of an exam.
	ObtainedMark struct {
		ID         int     `json:"id" db:"id"`
		StudentID  int     `json:"student_id" db:"student_id"`
		MarkConfID int     `json:"mark_conf_id" db:"mark_conf_id"`
		ExamID     int     `json:"exam_id" db:"exam_id"`
		Obtained   float64 `json:"obtained" db:"obtained"`
		IsAbsent   bool    `json:"is_absent" db:"is_absent"`
	}

	Student struct {
		ID      int    `json:"id" db:"id"`
		Name    string `json:"name" db:"name"`
		RollNo  int    `json:"roll_no" db:"roll_no"`
		ClassID int    `json:"class_id" db:"class_id"`
	}

	// StudentSubjectResult is a student's aggregated result on one reported subject.
	StudentSubjectResult struct {
		SubjectName string  `json:"subject_name"`
		Serial      int     `json:"serial"`
		SubjectType string  `json:"subject_type"`
		Obtained    float64 `json:"obtained"`
		MaxMark     float64 `json:"max_mark"`
		PassMark    float64 `json:"pass_mark"`
		IsFailed    bool    `json:"is_failed"`
		IsAbsent    bool    `json:"is_absent"`
		Grade       string  `json:"grade"`
		GPA         float64 `json:"gpa"`
	}

	StudentResult struct {
		StudentID      int                    `json:"student_id"`
		StudentName    string                 `json:"student_name"`
		RollNo         int                    `json:"roll_no"`
		Subjects       []StudentSubjectResult `json:"subjects"`
		TotalObtained  float64                `json:"total_obtained"`
		TotalMaxMarks  float64                `json:"total_max_marks"`
		AverageMarks   float64                `json:"average_marks"`
		Grade          string                 `json:"grade"`
		GPA            float64                `json:"gpa"`
		Remarks        string                 `json:"remarks"`
		FailedSubjects int                    `json:"failed_subjects"`
		IsPassed       bool                   `json:"is_passed"`
		Rank           int                    `json:"rank"`
		RankDisplay    string                 `json:"rank_display"`
	}
)

// IsCompulsory reports whether failing this subject fails the student.
func (sc SubjectMarkConfig) IsCompulsory() bool {
	return sc.SubjectType == Compulsory
}

// DisplayName is the name the subject is reported under.
func (sc SubjectMarkConfig) DisplayName() string {
	if sc.CombinedSubjectName != "" {
		return sc.CombinedSubjectName
	}
	return sc.SubjectName
}

func (ssr StudentSubjectResult) IsCompulsory() bool {
	return ssr.SubjectType == Compulsory
}

// Percentage is the subject's obtained mark out of 100.
func (ssr StudentSubjectResult) Percentage() float64 {
	if ssr.MaxMark <= 0 {
		return 0
	}
	return ssr.Obtained / ssr.MaxMark * 100
}

func isSubjectType(s string) bool {
	for _, st := range SubjectTypes {
		if s == st {
			return true
		}
	}
	return false
}
