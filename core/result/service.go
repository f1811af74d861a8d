package result

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/madrasahbd/natija/core"
	"github.com/madrasahbd/natija/core/batch"
	"github.com/madrasahbd/natija/core/grading"
)

const obtainedExceedsMaxFmt = "obtained mark %v exceeds max mark %v"

var (
	ErrMarkConfigNotInClass = errors.New("mark config is not of the student's class")

	errNegativeObtained = errors.New("obtained mark cannot be negative")
)

type (
	Repository interface {
		QueryGradeRules(ctx context.Context) ([]grading.GradeRule, error)
		// QuerySubjectConfigs returns the class's subject configs with their mark configs in configured order.
		QuerySubjectConfigs(ctx context.Context, classID int) ([]SubjectMarkConfig, error)
		GetSubjectConfig(ctx context.Context, id int) (SubjectMarkConfig, error)
		QueryStudents(ctx context.Context, classID int) ([]Student, error)
		// QueryObtainedMarks returns the marks of the class's students on an exam.
		QueryObtainedMarks(ctx context.Context, classID, examID int) ([]ObtainedMark, error)
		GetStudent(ctx context.Context, id int) (Student, error)
		GetMarkConfig(ctx context.Context, id int) (MarkConfig, error)
		// SaveMarkConfig updates mc when mc.ID is set, creates it otherwise.
		SaveMarkConfig(ctx context.Context, mc MarkConfig) (MarkConfig, error)
		// DeleteMarkConfigs deletes the subject config's mark configs with the given IDs, along with their obtained marks.
		DeleteMarkConfigs(ctx context.Context, subjectConfigID int, ids []int) error
		// SaveObtainedMark upserts m on (student, mark config, exam).
		SaveObtainedMark(ctx context.Context, m ObtainedMark) (ObtainedMark, error)
	}

	Service interface {
		Defaults() Options
		GradeRules(ctx context.Context) ([]grading.GradeRule, error)
		ClassResults(ctx context.Context, classID, examID int, opts Options) ([]StudentResult, error)
		MeritList(ctx context.Context, classID, examID int, opts Options) ([]StudentResult, error)
		StudentResult(ctx context.Context, classID, examID, studentID int, opts Options) (StudentResult, error)
		GetSubjectConfig(ctx context.Context, id int) (SubjectMarkConfig, error)
		SaveMarkConfigs(ctx context.Context, sc SubjectMarkConfig, rows []NewMarkConfig) (batch.Report, error)
		SaveObtainedMarks(ctx context.Context, examID int, rows []NewObtainedMark) (batch.Report, error)
	}

	// Options tunes a result computation.
	Options struct {
		MaxMarkTypes int
		TieBreak     string
		Locale       string
	}

	service struct {
		repo       Repository
		logger     core.Logger
		defaults   Options
		batchLimit int
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, logger core.Logger, conf *core.Config) Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(logger, "logger"),
		vala.IsNotNil(conf, "conf"),
	).CheckAndPanic()

	return &service{
		repo:   repo,
		logger: logger,
		defaults: Options{
			MaxMarkTypes: conf.Results.MaxMarkTypes,
			TieBreak:     conf.Results.TieBreak,
			Locale:       conf.Results.Locale,
		},
		batchLimit: conf.Batch.Concurrency,
	}
}

func (svc *service) Defaults() Options {
	return svc.defaults
}

func (svc *service) GradeRules(ctx context.Context) ([]grading.GradeRule, error) {
	rules, err := svc.repo.QueryGradeRules(ctx)
	return rules, errors.Wrap(err, "querying grade rules")
}

type classData struct {
	table    grading.Table
	configs  []SubjectMarkConfig
	students []Student
	book     MarkBook
}

// loadClass fetches everything a class result needs. The fetches run concurrently; any failure cancels the rest.
func (svc *service) loadClass(ctx context.Context, classID, examID int) (classData, error) {
	var (
		data  classData
		marks []ObtainedMark
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rules, err := svc.repo.QueryGradeRules(gctx)
		data.table = rules
		return errors.Wrap(err, "querying grade rules")
	})
	g.Go(func() error {
		configs, err := svc.repo.QuerySubjectConfigs(gctx, classID)
		data.configs = configs
		return errors.Wrap(err, "querying subject configs")
	})
	g.Go(func() error {
		students, err := svc.repo.QueryStudents(gctx, classID)
		data.students = students
		return errors.Wrap(err, "querying students")
	})
	g.Go(func() error {
		var err error
		marks, err = svc.repo.QueryObtainedMarks(gctx, classID, examID)
		return errors.Wrap(err, "querying obtained marks")
	})
	if err := g.Wait(); err != nil {
		return classData{}, err
	}
	data.book = NewMarkBook(marks)
	return data, nil
}

func (svc *service) compute(data classData, opts Options) []StudentResult {
	aggOpts := AggregateOptions{MaxMarkTypes: opts.MaxMarkTypes}
	results := make([]StudentResult, 0, len(data.students))
	for _, st := range data.students {
		subjects := Aggregate(data.book.ForStudent(st.ID), data.configs, aggOpts)
		results = append(results, Calculate(st, subjects, data.table))
	}
	return Rank(results, TieBreakComparator(opts.TieBreak), opts.Locale)
}

func (svc *service) ClassResults(ctx context.Context, classID, examID int, opts Options) ([]StudentResult, error) {
	data, err := svc.loadClass(ctx, classID, examID)
	if err != nil {
		return nil, errors.Wrap(err, "loading class")
	}
	results := svc.compute(data, opts)

	// ranked results come back in the class's roll order
	sortByRoll(results)
	return results, nil
}

func (svc *service) MeritList(ctx context.Context, classID, examID int, opts Options) ([]StudentResult, error) {
	data, err := svc.loadClass(ctx, classID, examID)
	if err != nil {
		return nil, errors.Wrap(err, "loading class")
	}
	return svc.compute(data, opts), nil
}

func (svc *service) StudentResult(ctx context.Context, classID, examID, studentID int, opts Options) (StudentResult, error) {
	results, err := svc.MeritList(ctx, classID, examID, opts)
	if err != nil {
		return StudentResult{}, err
	}
	for _, res := range results {
		if res.StudentID == studentID {
			return res, nil
		}
	}
	return StudentResult{}, ErrNotFound
}

func (svc *service) GetSubjectConfig(ctx context.Context, id int) (SubjectMarkConfig, error) {
	return svc.repo.GetSubjectConfig(ctx, id)
}

// replaceMarkConfigs maps rows onto sc's stored mark configs. A row without an ID takes over the
// unclaimed stored config of its mark type; stale lists the stored configs no row took.
func replaceMarkConfigs(sc SubjectMarkConfig, rows []NewMarkConfig) (mcs []MarkConfig, stale []int) {
	claimed := make(map[int]bool, len(rows))
	for _, row := range rows {
		if row.ID > 0 {
			claimed[row.ID] = true
		}
	}
	byType := make(map[int]int, len(sc.MarkConfigs))
	for _, mc := range sc.MarkConfigs {
		if _, ok := byType[mc.MarkTypeID]; !ok && !claimed[mc.ID] {
			byType[mc.MarkTypeID] = mc.ID
		}
	}

	mcs = make([]MarkConfig, 0, len(rows))
	for _, row := range rows {
		id := row.ID
		if id == 0 {
			if id = byType[row.MarkTypeID]; id > 0 {
				claimed[id] = true
			}
		}
		mcs = append(mcs, MarkConfig{
			ID:              id,
			SubjectConfigID: sc.ID,
			MarkTypeID:      row.MarkTypeID,
			MarkTypeName:    row.MarkTypeName,
			MaxMark:         row.MaxMark,
			PassMark:        row.PassMark,
		})
	}
	for _, mc := range sc.MarkConfigs {
		if !claimed[mc.ID] {
			stale = append(stale, mc.ID)
		}
	}
	return mcs, stale
}

// SaveMarkConfigs replaces a subject's mark configs once their max marks add up to the subject's.
// Stored configs the rows leave out are deleted. Rows are saved independently; the Report tells which were.
func (svc *service) SaveMarkConfigs(ctx context.Context, sc SubjectMarkConfig, rows []NewMarkConfig) (batch.Report, error) {
	sc, err := svc.repo.GetSubjectConfig(ctx, sc.ID)
	if err != nil {
		return batch.Report{}, errors.Wrap(err, "getting subject config")
	}
	if id, repeated := repeatedMarkType(rows); repeated {
		return batch.Report{}, core.NewValidationError(nil, markTypeRepeatedFieldError(id))
	}
	parts := make([]float64, 0, len(rows))
	for _, row := range rows {
		parts = append(parts, row.MaxMark)
	}
	if dist := CheckDistribution(sc.MaxMark, parts); !dist.Valid() {
		return batch.Report{}, core.NewValidationError(nil, distributionFieldError(dist))
	}

	mcs, stale := replaceMarkConfigs(sc, rows)
	keys := make([]string, 0, len(mcs))
	for _, mc := range mcs {
		keys = append(keys, "mark_type:"+strconv.Itoa(mc.MarkTypeID))
	}
	rep := batch.Run(ctx, keys, svc.batchLimit, func(ctx context.Context, i int) error {
		_, err := svc.repo.SaveMarkConfig(ctx, mcs[i])
		return errors.Wrap(err, "saving mark config")
	})
	if len(stale) > 0 {
		if err = svc.repo.DeleteMarkConfigs(ctx, sc.ID, stale); err != nil {
			return rep, errors.Wrap(err, "deleting replaced mark configs")
		}
	}
	svc.logReport("saving mark configs", rep, map[string]interface{}{"subject_config_id": sc.ID, "deleted": len(stale)})
	return rep, nil
}

// SaveObtainedMarks records marks of an exam. Each row is checked against its mark config, which must be
// of the student's class, and saved independently of the others.
func (svc *service) SaveObtainedMarks(ctx context.Context, examID int, rows []NewObtainedMark) (batch.Report, error) {
	keys := make([]string, 0, len(rows))
	for _, row := range rows {
		keys = append(keys, fmt.Sprintf("student:%d/mark_conf:%d", row.StudentID, row.MarkConfID))
	}
	rep := batch.Run(ctx, keys, svc.batchLimit, func(ctx context.Context, i int) error {
		row := rows[i]
		mc, err := svc.repo.GetMarkConfig(ctx, row.MarkConfID)
		if err != nil {
			return errors.Wrap(err, "getting mark config")
		}
		if err = svc.checkClass(ctx, row.StudentID, mc); err != nil {
			return err
		}
		m := ObtainedMark{
			StudentID:  row.StudentID,
			MarkConfID: row.MarkConfID,
			ExamID:     examID,
			Obtained:   row.Obtained,
			IsAbsent:   row.IsAbsent,
		}
		if m.IsAbsent {
			m.Obtained = 0
		}
		if m.Obtained < 0 {
			return errNegativeObtained
		}
		if m.Obtained > mc.MaxMark {
			return errors.Errorf(obtainedExceedsMaxFmt, m.Obtained, mc.MaxMark)
		}
		_, err = svc.repo.SaveObtainedMark(ctx, m)
		return errors.Wrap(err, "saving obtained mark")
	})
	svc.logReport("saving obtained marks", rep, map[string]interface{}{"exam_id": examID})
	return rep, nil
}

// checkClass fails with ErrMarkConfigNotInClass when mc's subject is not taught in the student's class.
func (svc *service) checkClass(ctx context.Context, studentID int, mc MarkConfig) error {
	st, err := svc.repo.GetStudent(ctx, studentID)
	if err != nil {
		return errors.Wrap(err, "getting student")
	}
	sc, err := svc.repo.GetSubjectConfig(ctx, mc.SubjectConfigID)
	if err != nil {
		return errors.Wrap(err, "getting subject config")
	}
	if sc.ClassID != st.ClassID {
		return ErrMarkConfigNotInClass
	}
	return nil
}

func (svc *service) logReport(op string, rep batch.Report, extra map[string]interface{}) {
	if rep.OK() {
		return
	}
	extra["batch_id"] = rep.ID
	extra["failed"] = len(rep.Failed)
	extra["total"] = rep.Total
	svc.logger.Warn(op+": some items failed", extra)
}
