package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/madrasahbd/natija/core/batch"
	"github.com/madrasahbd/natija/core/grading"
	"github.com/madrasahbd/natija/core/result"
)

type (
	resultApi struct {
		svc      result.Service
		validate *validator.Validate
	}

	// StudentResultResponse is a StudentResult with its grade resolved for display.
	StudentResultResponse struct {
		result.StudentResult
		GradeDisplay string `json:"grade_display"`
	}
)

func registerResultAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc result.Service, validate *validator.Validate) {
	api := resultApi{
		svc:      svc,
		validate: validate,
	}

	ag := g.Group("", jwt)
	ag.GET("/grade-rules", api.gradeRules)
	ag.POST("/mark-distribution/check", api.checkDistribution)

	cg := ag.Group("/classes/:classID/exams/:examID")
	cg.GET("/results", api.classResults)
	cg.GET("/merit-list", api.meritList)
	cg.GET("/students/:studentID/result", api.studentResult)

	ag.PUT("/subject-configs/:id/mark-configs", api.saveMarkConfigs, adminMiddleware())
	ag.PUT("/exams/:examID/marks", api.saveObtainedMarks, marksMiddleware)
}

func presentResults(results []result.StudentResult, locale string) []StudentResultResponse {
	resp := make([]StudentResultResponse, 0, len(results))
	for _, res := range results {
		resp = append(resp, presentResult(res, locale))
	}
	return resp
}

func presentResult(res result.StudentResult, locale string) StudentResultResponse {
	return StudentResultResponse{StudentResult: res, GradeDisplay: grading.Display(res.Grade, locale)}
}

// batchStatus is 200 when every item was saved, 207 otherwise.
func batchStatus(rep batch.Report) int {
	if rep.OK() {
		return http.StatusOK
	}
	return http.StatusMultiStatus
}

func (api *resultApi) classAndExam(ctx echo.Context) (classID, examID int, err error) {
	if classID, err = intParam(ctx, "classID"); err != nil {
		return
	}
	examID, err = intParam(ctx, "examID")
	return
}

// Handlers

func (api *resultApi) gradeRules(ctx echo.Context) error {
	rules, err := api.svc.GradeRules(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying grade rules")
	}
	return ctx.JSON(http.StatusOK, rules)
}

func (api *resultApi) checkDistribution(ctx echo.Context) error {
	var data result.DistributionCheck
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DistributionCheck")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, result.CheckDistribution(data.SubjectMax, data.Parts))
}

func (api *resultApi) classResults(ctx echo.Context) error {
	classID, examID, err := api.classAndExam(ctx)
	if err != nil {
		return err
	}
	opts, err := bindResultQuery(ctx, api.validate, api.svc.Defaults())
	if err != nil {
		return err
	}

	results, err := api.svc.ClassResults(ctx.Request().Context(), classID, examID, opts)
	if err != nil {
		return errors.Wrap(err, "computing class results")
	}
	return ctx.JSON(http.StatusOK, presentResults(results, opts.Locale))
}

func (api *resultApi) meritList(ctx echo.Context) error {
	classID, examID, err := api.classAndExam(ctx)
	if err != nil {
		return err
	}
	opts, err := bindResultQuery(ctx, api.validate, api.svc.Defaults())
	if err != nil {
		return err
	}

	results, err := api.svc.MeritList(ctx.Request().Context(), classID, examID, opts)
	if err != nil {
		return errors.Wrap(err, "computing merit list")
	}
	return ctx.JSON(http.StatusOK, presentResults(results, opts.Locale))
}

func (api *resultApi) studentResult(ctx echo.Context) error {
	classID, examID, err := api.classAndExam(ctx)
	if err != nil {
		return err
	}
	studentID, err := intParam(ctx, "studentID")
	if err != nil {
		return err
	}
	opts, err := bindResultQuery(ctx, api.validate, api.svc.Defaults())
	if err != nil {
		return err
	}

	res, err := api.svc.StudentResult(ctx.Request().Context(), classID, examID, studentID, opts)
	if err != nil {
		return errors.Wrap(err, "computing student result")
	}
	return ctx.JSON(http.StatusOK, presentResult(res, opts.Locale))
}

func (api *resultApi) saveMarkConfigs(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	sc, err := api.svc.GetSubjectConfig(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting subject config")
	}

	var data result.MarkConfigsUpdate
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkConfigsUpdate")
	}
	if err = data.Validate(api.validate, sc.MaxMark); err != nil {
		return err
	}

	rep, err := api.svc.SaveMarkConfigs(ctx.Request().Context(), sc, data.MarkConfigs)
	if err != nil {
		return errors.Wrap(err, "saving mark configs")
	}
	return ctx.JSON(batchStatus(rep), rep)
}

func (api *resultApi) saveObtainedMarks(ctx echo.Context) error {
	examID, err := intParam(ctx, "examID")
	if err != nil {
		return err
	}

	var data result.ObtainedMarksUpdate
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ObtainedMarksUpdate")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	rep, err := api.svc.SaveObtainedMarks(ctx.Request().Context(), examID, data.Marks)
	if err != nil {
		return errors.Wrap(err, "saving obtained marks")
	}
	return ctx.JSON(batchStatus(rep), rep)
}
