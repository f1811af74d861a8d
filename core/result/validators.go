package result

import (
	"strconv"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/madrasahbd/natija/core"
)

var (
	subjectTypeTag  = "subject_type"
	subjectTypeText = "must be one of COMPULSORY, CHOOSABLE"

	tieBreakTag  = "tiebreak"
	tieBreakText = "must be one of none, roll, name"

	markDistFld   = "mark_configs"
	markDistTexts = map[string]string{
		DistributionEmpty: "no mark-type has been entered",
		DistributionUnder: "mark distribution is short by {0}",
		DistributionOver:  "mark distribution exceeds the subject's max mark by {0}",
	}

	markTypeRepeatedTag  = "marktype_repeated"
	markTypeRepeatedText = "mark type {0} is entered more than once"
)

type (
	NewMarkConfig struct {
		ID           int     `json:"id"`
		MarkTypeID   int     `json:"mark_type_id" validate:"required"`
		MarkTypeName string  `json:"mark_type_name" validate:"omitempty,notblank"`
		MaxMark      float64 `json:"max_mark" validate:"gte=0"`
		PassMark     float64 `json:"pass_mark" validate:"gte=0,ltefield=MaxMark"`
	}

	// MarkConfigsUpdate replaces the mark-type split of one subject config.
	MarkConfigsUpdate struct {
		MarkConfigs []NewMarkConfig `json:"mark_configs" validate:"dive"`

		subjectMax float64
	}

	DistributionCheck struct {
		SubjectMax float64   `json:"subject_max" validate:"gt=0"`
		Parts      []float64 `json:"parts" validate:"dive,gte=0"`
	}

	NewObtainedMark struct {
		StudentID  int     `json:"student_id" validate:"required"`
		MarkConfID int     `json:"mark_conf_id" validate:"required"`
		Obtained   float64 `json:"obtained" validate:"gte=0"`
		IsAbsent   bool    `json:"is_absent"`
	}

	ObtainedMarksUpdate struct {
		Marks []NewObtainedMark `json:"marks" validate:"required,min=1,dive"`
	}
)

// InitValidators registers the result validators & their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(subjectTypeTag, func(fl validator.FieldLevel) bool {
		return isSubjectType(fl.Field().String())
	})
	core.RegisterCustomTranslation(validate, translator, subjectTypeTag, subjectTypeText)

	_ = validate.RegisterValidation(tieBreakTag, func(fl validator.FieldLevel) bool {
		return IsTieBreak(fl.Field().String())
	})
	core.RegisterCustomTranslation(validate, translator, tieBreakTag, tieBreakText)

	validate.RegisterStructValidation(markConfigsUpdateStructValidation, MarkConfigsUpdate{})
	for status, text := range markDistTexts {
		core.RegisterCustomTranslation(validate, translator, markDistTag(status), text)
	}
	core.RegisterCustomTranslation(validate, translator, markTypeRepeatedTag, markTypeRepeatedText)
}

func (u *MarkConfigsUpdate) Validate(validate *validator.Validate, subjectMax float64) error {
	u.subjectMax = subjectMax
	for i := range u.MarkConfigs {
		u.MarkConfigs[i].MarkTypeName = core.CleanString(u.MarkConfigs[i].MarkTypeName)
	}
	return validate.Struct(u)
}

func (u MarkConfigsUpdate) parts() []float64 {
	parts := make([]float64, 0, len(u.MarkConfigs))
	for _, mc := range u.MarkConfigs {
		parts = append(parts, mc.MaxMark)
	}
	return parts
}

func (dc *DistributionCheck) Validate(validate *validator.Validate) error {
	return validate.Struct(dc)
}

func (u *ObtainedMarksUpdate) Validate(validate *validator.Validate) error {
	return validate.Struct(u)
}

// Custom Validators

func markDistTag(status string) string {
	return "markdist_" + status
}

func formatMark(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// repeatedMarkType returns the first mark type entered in more than one row.
func repeatedMarkType(rows []NewMarkConfig) (int, bool) {
	seen := make(map[int]bool, len(rows))
	for _, row := range rows {
		if row.MarkTypeID == 0 {
			continue
		}
		if seen[row.MarkTypeID] {
			return row.MarkTypeID, true
		}
		seen[row.MarkTypeID] = true
	}
	return 0, false
}

// markConfigsUpdateStructValidation rejects a split that repeats a mark type or does not add up to the subject's max mark.
func markConfigsUpdateStructValidation(sl validator.StructLevel) {
	if u, ok := sl.Current().Interface().(MarkConfigsUpdate); ok {
		if id, repeated := repeatedMarkType(u.MarkConfigs); repeated {
			sl.ReportError(u.MarkConfigs, markDistFld, "MarkConfigs", markTypeRepeatedTag, strconv.Itoa(id))
			return
		}
		dist := CheckDistribution(u.subjectMax, u.parts())
		if !dist.Valid() {
			sl.ReportError(u.MarkConfigs, markDistFld, "MarkConfigs", markDistTag(dist.Status), formatMark(dist.Difference))
		}
	}
}

func distributionFieldError(dist Distribution) core.FieldError {
	msg := strings.Replace(markDistTexts[dist.Status], "{0}", formatMark(dist.Difference), 1)
	return core.FieldError{Field: markDistFld, Error: msg}
}

func markTypeRepeatedFieldError(id int) core.FieldError {
	msg := strings.Replace(markTypeRepeatedText, "{0}", strconv.Itoa(id), 1)
	return core.FieldError{Field: markDistFld, Error: msg}
}
