package result

import (
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madrasahbd/natija/core"
)

func newValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate, translator
}

// fieldErrors translates a validation failure into a {field: message} map.
func fieldErrors(t *testing.T, err error, translator ut.Translator) map[string]string {
	t.Helper()
	var verrs validator.ValidationErrors
	require.IsType(t, verrs, err)
	verrs = err.(validator.ValidationErrors)

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[core.FieldPath(fe)] = fe.Translate(translator)
	}
	return out
}

func TestMarkConfigsUpdate_Validate(t *testing.T) {
	validate, translator := newValidator()

	tests := []struct {
		name       string
		update     MarkConfigsUpdate
		subjectMax float64
		wantErrs   map[string]string
	}{
		{
			name: "adds up",
			update: MarkConfigsUpdate{MarkConfigs: []NewMarkConfig{
				{MarkTypeID: 1, MarkTypeName: " MCQ ", MaxMark: 40, PassMark: 13},
				{MarkTypeID: 2, MarkTypeName: "Written", MaxMark: 60, PassMark: 20},
			}},
			subjectMax: 100,
		},
		{
			name: "short of the subject's max mark",
			update: MarkConfigsUpdate{MarkConfigs: []NewMarkConfig{
				{MarkTypeID: 1, MarkTypeName: "MCQ", MaxMark: 40, PassMark: 13},
			}},
			subjectMax: 100,
			wantErrs:   map[string]string{"mark_configs": "mark distribution is short by 60"},
		},
		{
			name: "exceeds the subject's max mark",
			update: MarkConfigsUpdate{MarkConfigs: []NewMarkConfig{
				{MarkTypeID: 1, MaxMark: 40, PassMark: 13},
				{MarkTypeID: 2, MaxMark: 62.5, PassMark: 20},
			}},
			subjectMax: 100,
			wantErrs:   map[string]string{"mark_configs": "mark distribution exceeds the subject's max mark by 2.5"},
		},
		{
			name: "mark type entered twice",
			update: MarkConfigsUpdate{MarkConfigs: []NewMarkConfig{
				{MarkTypeID: 1, MaxMark: 50, PassMark: 17},
				{MarkTypeID: 1, MaxMark: 50, PassMark: 17},
			}},
			subjectMax: 100,
			wantErrs:   map[string]string{"mark_configs": "mark type 1 is entered more than once"},
		},
		{
			name:       "nothing entered",
			update:     MarkConfigsUpdate{},
			subjectMax: 100,
			wantErrs:   map[string]string{"mark_configs": "no mark-type has been entered"},
		},
		{
			name: "invalid rows",
			update: MarkConfigsUpdate{MarkConfigs: []NewMarkConfig{
				{MarkTypeName: "MCQ", MaxMark: 40, PassMark: 13},
				{MarkTypeID: 2, MarkTypeName: "   ", MaxMark: 60, PassMark: 70},
			}},
			subjectMax: 100,
			wantErrs: map[string]string{
				"mark_configs[0].mark_type_id": "this field is required",
				"mark_configs[1].pass_mark":    "pass_mark must be less than or equal to MaxMark",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.update.Validate(validate, tt.subjectMax)
			if tt.wantErrs == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantErrs, fieldErrors(t, err, translator))
		})
	}
}

func TestMarkConfigsUpdate_Validate_cleansNames(t *testing.T) {
	validate, _ := newValidator()
	u := MarkConfigsUpdate{MarkConfigs: []NewMarkConfig{{MarkTypeID: 1, MarkTypeName: "  MCQ\t", MaxMark: 100}}}
	require.NoError(t, u.Validate(validate, 100))
	assert.Equal(t, "MCQ", u.MarkConfigs[0].MarkTypeName)
}

func TestDistributionCheck_Validate(t *testing.T) {
	validate, translator := newValidator()

	assert.NoError(t, (&DistributionCheck{SubjectMax: 100, Parts: []float64{40}}).Validate(validate))
	assert.NoError(t, (&DistributionCheck{SubjectMax: 100}).Validate(validate))

	err := (&DistributionCheck{SubjectMax: 0, Parts: []float64{-1}}).Validate(validate)
	got := fieldErrors(t, err, translator)
	assert.Contains(t, got, "subject_max")
	assert.Contains(t, got, "parts[0]")
}

func TestObtainedMarksUpdate_Validate(t *testing.T) {
	validate, translator := newValidator()

	ok := ObtainedMarksUpdate{Marks: []NewObtainedMark{
		{StudentID: 1, MarkConfID: 11, Obtained: 35},
		{StudentID: 2, MarkConfID: 11, IsAbsent: true},
	}}
	assert.NoError(t, ok.Validate(validate))

	err := (&ObtainedMarksUpdate{}).Validate(validate)
	assert.Equal(t, map[string]string{"marks": "this field is required"}, fieldErrors(t, err, translator))

	bad := ObtainedMarksUpdate{Marks: []NewObtainedMark{{MarkConfID: 11, Obtained: -2}}}
	got := fieldErrors(t, bad.Validate(validate), translator)
	assert.Equal(t, "this field is required", got["marks[0].student_id"])
	assert.Contains(t, got, "marks[0].obtained")
}

func TestDistributionFieldError(t *testing.T) {
	dist := CheckDistribution(100, []float64{40})
	assert.Equal(t, core.FieldError{Field: "mark_configs", Error: "mark distribution is short by 60"}, distributionFieldError(dist))
}

func TestRegisterCustomTranslation_badText(t *testing.T) {
	validate := validator.New()
	translator := core.NewTranslator()
	assert.Panics(t, func() {
		core.RegisterCustomTranslation(validate, translator, "markdist_bad", "short by {1}")
	})
}
