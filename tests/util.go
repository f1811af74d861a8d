package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/madrasahbd/natija/core"
	"github.com/madrasahbd/natija/core/grading"
	"github.com/madrasahbd/natija/core/result"
	inmemdb "github.com/madrasahbd/natija/storage/database/inmem"
)

const (
	ClassID = 1
	ExamID  = 10
)

// Config returns the app config tests run with.
func Config() *core.Config {
	return &core.Config{
		AppName:   "Natija",
		Env:       "TEST",
		TestMode:  true,
		SecretKey: "test-secret",
		Server: core.ServerConfig{
			Host:           "localhost",
			JWTExpiration:  time.Hour,
			DisableReqLogs: true,
		},
		Results: core.ResultsConfig{TieBreak: "none", Locale: grading.English},
		Batch:   core.BatchConfig{Concurrency: 2},
	}
}

// GradeTable is the usual 7-step table, A+ through F.
var GradeTable = grading.Table{
	{GradeName: "A+", MinMark: 80, MaxMark: 100, GPA: 5, Remarks: "Excellent"},
	{GradeName: "A", MinMark: 70, MaxMark: 79.99, GPA: 4, Remarks: "Very Good"},
	{GradeName: "A-", MinMark: 60, MaxMark: 69.99, GPA: 3.5, Remarks: "Good"},
	{GradeName: "B", MinMark: 50, MaxMark: 59.99, GPA: 3, Remarks: "Satisfactory"},
	{GradeName: "C", MinMark: 40, MaxMark: 49.99, GPA: 2, Remarks: "Average"},
	{GradeName: "D", MinMark: 33, MaxMark: 39.99, GPA: 1, Remarks: "Passed"},
	{GradeName: "F", MinMark: 0, MaxMark: 32.99, GPA: 0, Remarks: "Failed"},
}

// Class is a seeded class: 4 students over 3 subjects (250 marks) on ExamID.
//
//	roll  name      arabic  math(mcq+written)  art    total
//	1     Usman     80      35+50              40     205
//	2     Bilal     70      30+40              10     150  (art failed)
//	3     Hasan     absent  40+60              50     150  (compulsory absent)
//	4     Abdullah  95      35+50              25     205
type Class struct {
	Students []result.Student           // by roll
	Subjects []result.SubjectMarkConfig // Arabic, Math, Art
}

func (c Class) Student(rollNo int) result.Student {
	return c.Students[rollNo-1]
}

// SeedGradeTable stores GradeTable in db.
func SeedGradeTable(db *inmemdb.DB) grading.Table {
	table := make(grading.Table, 0, len(GradeTable))
	for _, rule := range GradeTable {
		table = append(table, db.AddGradeRule(rule))
	}
	return table
}

// SeedClass stores GradeTable and the Class in db.
func SeedClass(t *testing.T, db *inmemdb.DB) Class {
	t.Helper()
	SeedGradeTable(db)

	var c Class
	for i, name := range []string{"Usman", "Bilal", "Hasan", "Abdullah"} {
		c.Students = append(c.Students, db.AddStudent(result.Student{Name: name, RollNo: i + 1, ClassID: ClassID}))
	}
	c.Subjects = []result.SubjectMarkConfig{
		db.AddSubjectConfig(result.SubjectMarkConfig{
			SubjectID: 101, ClassID: ClassID, SubjectName: "Arabic", SubjectSerial: 1, SubjectType: result.Compulsory, MaxMark: 100,
			MarkConfigs: []result.MarkConfig{{MarkTypeID: 1, MarkTypeName: "Written", MaxMark: 100, PassMark: 33}},
		}),
		db.AddSubjectConfig(result.SubjectMarkConfig{
			SubjectID: 102, ClassID: ClassID, SubjectName: "Math", SubjectSerial: 2, SubjectType: result.Compulsory, MaxMark: 100,
			MarkConfigs: []result.MarkConfig{
				{MarkTypeID: 2, MarkTypeName: "MCQ", MaxMark: 40, PassMark: 13},
				{MarkTypeID: 1, MarkTypeName: "Written", MaxMark: 60, PassMark: 20},
			},
		}),
		db.AddSubjectConfig(result.SubjectMarkConfig{
			SubjectID: 103, ClassID: ClassID, SubjectName: "Art", SubjectSerial: 3, SubjectType: result.Choosable, MaxMark: 50,
			MarkConfigs: []result.MarkConfig{{MarkTypeID: 3, MarkTypeName: "Practical", MaxMark: 50, PassMark: 17}},
		}),
	}

	arabic := c.Subjects[0].MarkConfigs[0].ID
	mcq, written := c.Subjects[1].MarkConfigs[0].ID, c.Subjects[1].MarkConfigs[1].ID
	art := c.Subjects[2].MarkConfigs[0].ID

	marks := [][4]float64{ // arabic (-1: absent), mcq, written, art
		{80, 35, 50, 40},
		{70, 30, 40, 10},
		{-1, 40, 60, 50},
		{95, 35, 50, 25},
	}
	repo := inmemdb.NewResultRepository(db)
	for i, row := range marks {
		st := c.Students[i].ID
		SaveMark(t, repo, st, arabic, row[0])
		SaveMark(t, repo, st, mcq, row[1])
		SaveMark(t, repo, st, written, row[2])
		SaveMark(t, repo, st, art, row[3])
	}
	return c
}

// SaveMark records a student's mark on ExamID; a negative obtained mark records an absence.
func SaveMark(t *testing.T, repo result.Repository, studentID, markConfID int, obtained float64) result.ObtainedMark {
	t.Helper()
	m := result.ObtainedMark{StudentID: studentID, MarkConfID: markConfID, ExamID: ExamID, Obtained: obtained}
	if obtained < 0 {
		m.Obtained, m.IsAbsent = 0, true
	}
	m, err := repo.SaveObtainedMark(context.Background(), m)
	if err != nil {
		t.Fatalf("SaveMark() failed: %v", err)
	}
	return m
}

// Logger records what it is given; it is safe for concurrent use.
type Logger struct {
	mu      sync.Mutex
	Entries []string
}

func (l *Logger) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, fmt.Sprintf("%s: %s %v", level, msg, args))
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("DEBUG", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("INFO", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("WARN", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("ERROR", msg, args) }
func (l *Logger) Fatal(msg string, args ...interface{}) { l.log("FATAL", msg, args) }

// Len returns how many entries were logged.
func (l *Logger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Entries)
}
