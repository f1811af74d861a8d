package inmemdb

import (
	"context"
	"sort"

	"github.com/madrasahbd/natija/core/grading"
	"github.com/madrasahbd/natija/core/result"
)

type resultRepository struct {
	db *DB
}

var _ result.Repository = (*resultRepository)(nil) // interface compliance check

func NewResultRepository(db *DB) result.Repository {
	return &resultRepository{db: db}
}

func (repo *resultRepository) QueryGradeRules(context.Context) ([]grading.GradeRule, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	rules := make([]grading.GradeRule, len(repo.db.gradeRules))
	copy(rules, repo.db.gradeRules)
	return rules, nil
}

// markConfigs must be called with the read lock held.
func (repo *resultRepository) markConfigs(subjectConfigID int) []result.MarkConfig {
	var mcs []result.MarkConfig
	for _, mc := range repo.db.markConfigs {
		if mc.SubjectConfigID == subjectConfigID {
			mcs = append(mcs, mc)
		}
	}
	sort.Slice(mcs, func(i, j int) bool { return mcs[i].ID < mcs[j].ID })
	return mcs
}

func (repo *resultRepository) QuerySubjectConfigs(_ context.Context, classID int) ([]result.SubjectMarkConfig, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	configs := make([]result.SubjectMarkConfig, 0)
	for _, sc := range repo.db.subjectConfigs {
		if sc.ClassID == classID {
			sc.MarkConfigs = repo.markConfigs(sc.ID)
			configs = append(configs, sc)
		}
	}
	sort.Slice(configs, func(i, j int) bool {
		if configs[i].SubjectSerial != configs[j].SubjectSerial {
			return configs[i].SubjectSerial < configs[j].SubjectSerial
		}
		return configs[i].ID < configs[j].ID
	})
	return configs, nil
}

func (repo *resultRepository) GetSubjectConfig(_ context.Context, id int) (result.SubjectMarkConfig, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	sc, ok := repo.db.subjectConfigs[id]
	if !ok {
		return result.SubjectMarkConfig{}, result.ErrNotFound
	}
	sc.MarkConfigs = repo.markConfigs(sc.ID)
	return sc, nil
}

func (repo *resultRepository) QueryStudents(_ context.Context, classID int) ([]result.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := make([]result.Student, 0)
	for _, st := range repo.db.students {
		if st.ClassID == classID {
			students = append(students, st)
		}
	}
	sort.Slice(students, func(i, j int) bool {
		if students[i].RollNo != students[j].RollNo {
			return students[i].RollNo < students[j].RollNo
		}
		return students[i].ID < students[j].ID
	})
	return students, nil
}

func (repo *resultRepository) GetStudent(_ context.Context, id int) (result.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if st, ok := repo.db.students[id]; ok {
		return st, nil
	}
	return result.Student{}, result.ErrNotFound
}

func (repo *resultRepository) QueryObtainedMarks(_ context.Context, classID, examID int) ([]result.ObtainedMark, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	marks := make([]result.ObtainedMark, 0)
	for key, m := range repo.db.obtainedMarks {
		if key.examID != examID {
			continue
		}
		if st, ok := repo.db.students[key.studentID]; ok && st.ClassID == classID {
			marks = append(marks, m)
		}
	}
	sort.Slice(marks, func(i, j int) bool { return marks[i].ID < marks[j].ID })
	return marks, nil
}

func (repo *resultRepository) GetMarkConfig(_ context.Context, id int) (result.MarkConfig, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if mc, ok := repo.db.markConfigs[id]; ok {
		return mc, nil
	}
	return result.MarkConfig{}, result.ErrNotFound
}

func (repo *resultRepository) SaveMarkConfig(_ context.Context, mc result.MarkConfig) (result.MarkConfig, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.subjectConfigs[mc.SubjectConfigID]; !ok {
		return result.MarkConfig{}, result.ErrNotFound
	}
	if mc.ID > 0 {
		old, ok := repo.db.markConfigs[mc.ID]
		if !ok || old.SubjectConfigID != mc.SubjectConfigID {
			return result.MarkConfig{}, result.ErrNotFound
		}
	} else {
		mc.ID = repo.db.nextPK()
	}
	repo.db.markConfigs[mc.ID] = mc
	return mc, nil
}

func (repo *resultRepository) DeleteMarkConfigs(_ context.Context, subjectConfigID int, ids []int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	deleted := make(map[int]bool, len(ids))
	for _, id := range ids {
		if mc, ok := repo.db.markConfigs[id]; ok && mc.SubjectConfigID == subjectConfigID {
			delete(repo.db.markConfigs, id)
			deleted[id] = true
		}
	}
	for key := range repo.db.obtainedMarks {
		if deleted[key.markConfID] {
			delete(repo.db.obtainedMarks, key)
		}
	}
	return nil
}

func (repo *resultRepository) SaveObtainedMark(_ context.Context, m result.ObtainedMark) (result.ObtainedMark, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.students[m.StudentID]; !ok {
		return result.ObtainedMark{}, result.ErrNotFound
	}
	if _, ok := repo.db.markConfigs[m.MarkConfID]; !ok {
		return result.ObtainedMark{}, result.ErrNotFound
	}

	key := markKey{studentID: m.StudentID, markConfID: m.MarkConfID, examID: m.ExamID}
	if old, ok := repo.db.obtainedMarks[key]; ok {
		m.ID = old.ID
	} else {
		m.ID = repo.db.nextPK()
	}
	repo.db.obtainedMarks[key] = m
	return m, nil
}
