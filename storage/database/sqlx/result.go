package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/madrasahbd/natija/core"
	"github.com/madrasahbd/natija/core/grading"
	"github.com/madrasahbd/natija/core/result"
)

const (
	gradeRuleColumns     = `id, grade_name, min_mark, max_mark, gpa, remarks`
	subjectConfigColumns = `id, subject_id, class_id, subject_name, subject_serial, subject_type, combined_subject_name, max_mark`
	markConfigColumns    = `id, subject_config_id, mark_type_id, mark_type_name, max_mark, pass_mark`
)

type (
	gradeRuleRow struct {
		ID        int         `db:"id"`
		GradeName string      `db:"grade_name"`
		MinMark   float64     `db:"min_mark"`
		MaxMark   float64     `db:"max_mark"`
		GPA       float64     `db:"gpa"`
		Remarks   null.String `db:"remarks"`
	}

	subjectConfigRow struct {
		ID                  int         `db:"id"`
		SubjectID           int         `db:"subject_id"`
		ClassID             int         `db:"class_id"`
		SubjectName         string      `db:"subject_name"`
		SubjectSerial       int         `db:"subject_serial"`
		SubjectType         string      `db:"subject_type"`
		CombinedSubjectName null.String `db:"combined_subject_name"`
		MaxMark             float64     `db:"max_mark"`
	}

	markConfigRow struct {
		ID              int         `db:"id"`
		SubjectConfigID int         `db:"subject_config_id"`
		MarkTypeID      int         `db:"mark_type_id"`
		MarkTypeName    null.String `db:"mark_type_name"`
		MaxMark         float64     `db:"max_mark"`
		PassMark        float64     `db:"pass_mark"`
	}
)

func (r gradeRuleRow) unbind() grading.GradeRule {
	return grading.GradeRule{
		ID:        r.ID,
		GradeName: r.GradeName,
		MinMark:   r.MinMark,
		MaxMark:   r.MaxMark,
		GPA:       r.GPA,
		Remarks:   r.Remarks.String,
	}
}

func (r subjectConfigRow) unbind(mcs []result.MarkConfig) result.SubjectMarkConfig {
	return result.SubjectMarkConfig{
		ID:                  r.ID,
		SubjectID:           r.SubjectID,
		ClassID:             r.ClassID,
		SubjectName:         r.SubjectName,
		SubjectSerial:       r.SubjectSerial,
		SubjectType:         r.SubjectType,
		CombinedSubjectName: r.CombinedSubjectName.String,
		MaxMark:             r.MaxMark,
		MarkConfigs:         mcs,
	}
}

func bindMarkConfig(mc result.MarkConfig) markConfigRow {
	return markConfigRow{
		ID:              mc.ID,
		SubjectConfigID: mc.SubjectConfigID,
		MarkTypeID:      mc.MarkTypeID,
		MarkTypeName:    null.NewString(mc.MarkTypeName, mc.MarkTypeName != ""),
		MaxMark:         mc.MaxMark,
		PassMark:        mc.PassMark,
	}
}

func (r markConfigRow) unbind() result.MarkConfig {
	return result.MarkConfig{
		ID:              r.ID,
		SubjectConfigID: r.SubjectConfigID,
		MarkTypeID:      r.MarkTypeID,
		MarkTypeName:    r.MarkTypeName.String,
		MaxMark:         r.MaxMark,
		PassMark:        r.PassMark,
	}
}

type resultRepository struct {
	exec core.DBExecutor
}

var _ result.Repository = (*resultRepository)(nil) // interface compliance check

func NewResultRepository(exec core.DBExecutor) *resultRepository {
	return &resultRepository{exec: exec}
}

// trapNoRowsErr maps psql "no rows" err to result.ErrNotFound
func (repo resultRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return result.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo resultRepository) QueryGradeRules(ctx context.Context) ([]grading.GradeRule, error) {
	var rows []gradeRuleRow
	q := `SELECT ` + gradeRuleColumns + ` FROM grade_rules ORDER BY id`
	if err := repo.exec.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting grade rules")
	}
	rules := make([]grading.GradeRule, 0, len(rows))
	for _, r := range rows {
		rules = append(rules, r.unbind())
	}
	return rules, nil
}

// markConfigsBySubjectConfig returns the mark configs of the given subject configs keyed by subject config, in configured order.
func (repo resultRepository) markConfigsBySubjectConfig(ctx context.Context, ids []int) (map[int][]result.MarkConfig, error) {
	byConfig := make(map[int][]result.MarkConfig, len(ids))
	if len(ids) == 0 {
		return byConfig, nil
	}

	q, args, err := sqlx.In(`SELECT `+markConfigColumns+` FROM mark_configs WHERE subject_config_id IN (?) ORDER BY subject_config_id, id`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "building mark configs query")
	}
	var rows []markConfigRow
	if err = repo.exec.SelectContext(ctx, &rows, repo.exec.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "selecting mark configs")
	}
	for _, r := range rows {
		byConfig[r.SubjectConfigID] = append(byConfig[r.SubjectConfigID], r.unbind())
	}
	return byConfig, nil
}

func (repo resultRepository) QuerySubjectConfigs(ctx context.Context, classID int) ([]result.SubjectMarkConfig, error) {
	var rows []subjectConfigRow
	q := `SELECT ` + subjectConfigColumns + ` FROM subject_configs WHERE class_id = $1 ORDER BY subject_serial, id`
	if err := repo.exec.SelectContext(ctx, &rows, q, classID); err != nil {
		return nil, errors.Wrap(err, "selecting subject configs")
	}

	ids := make([]int, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	mcs, err := repo.markConfigsBySubjectConfig(ctx, ids)
	if err != nil {
		return nil, err
	}

	configs := make([]result.SubjectMarkConfig, 0, len(rows))
	for _, r := range rows {
		configs = append(configs, r.unbind(mcs[r.ID]))
	}
	return configs, nil
}

func (repo resultRepository) GetSubjectConfig(ctx context.Context, id int) (result.SubjectMarkConfig, error) {
	var row subjectConfigRow
	q := `SELECT ` + subjectConfigColumns + ` FROM subject_configs WHERE id = $1`
	if err := repo.exec.GetContext(ctx, &row, q, id); err != nil {
		return result.SubjectMarkConfig{}, repo.trapNoRowsErr(err, "getting subject config")
	}
	mcs, err := repo.markConfigsBySubjectConfig(ctx, []int{id})
	if err != nil {
		return result.SubjectMarkConfig{}, err
	}
	return row.unbind(mcs[id]), nil
}

func (repo resultRepository) QueryStudents(ctx context.Context, classID int) ([]result.Student, error) {
	var students []result.Student
	q := `SELECT id, name, roll_no, class_id FROM students WHERE class_id = $1 ORDER BY roll_no, id`
	if err := repo.exec.SelectContext(ctx, &students, q, classID); err != nil {
		return nil, errors.Wrap(err, "selecting students")
	}
	return students, nil
}

func (repo resultRepository) GetStudent(ctx context.Context, id int) (result.Student, error) {
	var st result.Student
	q := `SELECT id, name, roll_no, class_id FROM students WHERE id = $1`
	if err := repo.exec.GetContext(ctx, &st, q, id); err != nil {
		return result.Student{}, repo.trapNoRowsErr(err, "getting student")
	}
	return st, nil
}

func (repo resultRepository) QueryObtainedMarks(ctx context.Context, classID, examID int) ([]result.ObtainedMark, error) {
	var marks []result.ObtainedMark
	q := `
		SELECT om.id, om.student_id, om.mark_conf_id, om.exam_id, om.obtained, om.is_absent
		FROM obtained_marks om
		INNER JOIN students s ON s.id = om.student_id
		WHERE s.class_id = $1 AND om.exam_id = $2
		ORDER BY om.id`
	if err := repo.exec.SelectContext(ctx, &marks, q, classID, examID); err != nil {
		return nil, errors.Wrap(err, "selecting obtained marks")
	}
	return marks, nil
}

func (repo resultRepository) GetMarkConfig(ctx context.Context, id int) (result.MarkConfig, error) {
	var row markConfigRow
	q := `SELECT ` + markConfigColumns + ` FROM mark_configs WHERE id = $1`
	if err := repo.exec.GetContext(ctx, &row, q, id); err != nil {
		return result.MarkConfig{}, repo.trapNoRowsErr(err, "getting mark config")
	}
	return row.unbind(), nil
}

// namedGet runs a named query expected to return exactly one row, scanned into dest.
func (repo resultRepository) namedGet(ctx context.Context, dest interface{}, q string, arg interface{}) error {
	query, args, err := repo.exec.BindNamed(q, arg)
	if err != nil {
		return err
	}
	return repo.exec.QueryRowxContext(ctx, query, args...).Scan(dest)
}

func (repo resultRepository) SaveMarkConfig(ctx context.Context, mc result.MarkConfig) (result.MarkConfig, error) {
	row := bindMarkConfig(mc)
	if row.ID > 0 {
		q := `
			UPDATE mark_configs
			SET mark_type_id = :mark_type_id, mark_type_name = :mark_type_name, max_mark = :max_mark, pass_mark = :pass_mark
			WHERE id = :id AND subject_config_id = :subject_config_id
			RETURNING id`
		if err := repo.namedGet(ctx, &row.ID, q, row); err != nil {
			return result.MarkConfig{}, repo.trapNoRowsErr(err, "updating mark config")
		}
		return row.unbind(), nil
	}

	q := `
		INSERT INTO mark_configs (subject_config_id, mark_type_id, mark_type_name, max_mark, pass_mark)
		VALUES (:subject_config_id, :mark_type_id, :mark_type_name, :max_mark, :pass_mark)
		RETURNING id`
	if err := repo.namedGet(ctx, &row.ID, q, row); err != nil {
		return result.MarkConfig{}, errors.Wrap(err, "inserting mark config")
	}
	return row.unbind(), nil
}

// DeleteMarkConfigs relies on ON DELETE CASCADE to drop the obtained marks.
func (repo resultRepository) DeleteMarkConfigs(ctx context.Context, subjectConfigID int, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM mark_configs WHERE subject_config_id = ? AND id IN (?)`, subjectConfigID, ids)
	if err != nil {
		return errors.Wrap(err, "building mark configs delete")
	}
	_, err = repo.exec.ExecContext(ctx, repo.exec.Rebind(q), args...)
	return errors.Wrap(err, "deleting mark configs")
}

func (repo resultRepository) SaveObtainedMark(ctx context.Context, m result.ObtainedMark) (result.ObtainedMark, error) {
	q := `
		INSERT INTO obtained_marks (student_id, mark_conf_id, exam_id, obtained, is_absent)
		VALUES (:student_id, :mark_conf_id, :exam_id, :obtained, :is_absent)
		ON CONFLICT (student_id, mark_conf_id, exam_id)
		DO UPDATE SET obtained = EXCLUDED.obtained, is_absent = EXCLUDED.is_absent
		RETURNING id`
	if err := repo.namedGet(ctx, &m.ID, q, m); err != nil {
		return result.ObtainedMark{}, errors.Wrap(err, "upserting obtained mark")
	}
	return m, nil
}
