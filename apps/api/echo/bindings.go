package echoapi

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"

	"github.com/madrasahbd/natija/core"
	"github.com/madrasahbd/natija/core/grading"
	"github.com/madrasahbd/natija/core/result"
)

var (
	tieBreakParam     = "tiebreak"
	maxMarkTypesParam = "max_mark_types"
	errNotAnInteger   = "must be a non-negative integer"

	locales       = []string{grading.Bengali, grading.English}
	localeMatcher = language.NewMatcher([]language.Tag{language.Bengali, language.English})
)

// resultQuery holds the query params tuning a result computation.
type resultQuery struct {
	TieBreak     string `json:"tiebreak" validate:"omitempty,tiebreak"`
	MaxMarkTypes *int   `json:"max_mark_types" validate:"omitempty,gte=0"`
}

func (q *resultQuery) Bind(ctx echo.Context) error {
	q.TieBreak = ctx.QueryParam(tieBreakParam)
	if val := ctx.QueryParam(maxMarkTypesParam); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: maxMarkTypesParam, Error: errNotAnInteger})
		}
		q.MaxMarkTypes = &n
	}
	return nil
}

func (q *resultQuery) Validate(validate *validator.Validate) error {
	return validate.Struct(q)
}

// Options overrides defaults with whatever the query sets; the locale comes from Accept-Language.
func (q resultQuery) Options(ctx echo.Context, defaults result.Options) result.Options {
	opts := defaults
	if q.TieBreak != "" {
		opts.TieBreak = q.TieBreak
	}
	if q.MaxMarkTypes != nil {
		opts.MaxMarkTypes = *q.MaxMarkTypes
	}
	opts.Locale = requestLocale(ctx, defaults.Locale)
	return opts
}

func bindResultQuery(ctx echo.Context, validate *validator.Validate, defaults result.Options) (result.Options, error) {
	var q resultQuery
	if err := q.Bind(ctx); err != nil {
		return result.Options{}, err
	}
	if err := q.Validate(validate); err != nil {
		return result.Options{}, err
	}
	return q.Options(ctx, defaults), nil
}

// requestLocale picks the display locale from the Accept-Language header, fallback when it names none we support.
func requestLocale(ctx echo.Context, fallback string) string {
	header := ctx.Request().Header.Get("Accept-Language")
	if header == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, i, confidence := localeMatcher.Match(tags...)
	if confidence == language.No {
		return fallback
	}
	return locales[i]
}

// intParam parses the path param name; a malformed id is reported as not found.
func intParam(ctx echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id < 1 {
		return 0, errHttpNotFound
	}
	return id, nil
}
