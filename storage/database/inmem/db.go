package inmemdb

import (
	"sync"

	"github.com/madrasahbd/natija/core/grading"
	"github.com/madrasahbd/natija/core/result"
)

type (
	// DB is a process-local stand-in for the app database, used by tests and dev runs.
	DB struct {
		mutex sync.RWMutex
		pk    int

		gradeRules     []grading.GradeRule
		students       map[int]result.Student
		subjectConfigs map[int]result.SubjectMarkConfig // mark configs live in markConfigs
		markConfigs    map[int]result.MarkConfig
		obtainedMarks  map[markKey]result.ObtainedMark
	}

	markKey struct {
		studentID, markConfID, examID int
	}
)

func Open() *DB {
	return &DB{
		students:       make(map[int]result.Student),
		subjectConfigs: make(map[int]result.SubjectMarkConfig),
		markConfigs:    make(map[int]result.MarkConfig),
		obtainedMarks:  make(map[markKey]result.ObtainedMark),
	}
}

// nextPK must be called with the write lock held.
func (db *DB) nextPK() int {
	db.pk++
	return db.pk
}

func (db *DB) AddGradeRule(rule grading.GradeRule) grading.GradeRule {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	rule.ID = db.nextPK()
	db.gradeRules = append(db.gradeRules, rule)
	return rule
}

func (db *DB) AddStudent(st result.Student) result.Student {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	st.ID = db.nextPK()
	db.students[st.ID] = st
	return st
}

// AddSubjectConfig stores sc along with its mark configs, which get their IDs assigned.
func (db *DB) AddSubjectConfig(sc result.SubjectMarkConfig) result.SubjectMarkConfig {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	sc.ID = db.nextPK()
	mcs := make([]result.MarkConfig, 0, len(sc.MarkConfigs))
	for _, mc := range sc.MarkConfigs {
		mc.ID = db.nextPK()
		mc.SubjectConfigID = sc.ID
		db.markConfigs[mc.ID] = mc
		mcs = append(mcs, mc)
	}
	sc.MarkConfigs = nil
	db.subjectConfigs[sc.ID] = sc

	sc.MarkConfigs = mcs
	return sc
}
