package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/talunzi/gradechain/core"
	"github.com/talunzi/gradechain/core/grade"
	"github.com/talunzi/gradechain/core/session"
	sheetsvc "github.com/talunzi/gradechain/services/spreadsheet"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type gradeApi struct {
	svc      *grade.Service
	mgr      *session.Manager
	validate *validator.Validate
}

func registerGradeAPI(g *echo.Group, jwt, caller echo.MiddlewareFunc, deps ServerDeps) {
	api := gradeApi{
		svc:      deps.GradeSvc,
		mgr:      deps.Manager,
		validate: deps.Validate,
	}

	gg := g.Group("/grades", jwt, caller)

	teacher := roleMiddleware(api.mgr, session.RoleTeacher)
	reviewer := roleMiddleware(api.mgr, session.RoleGradeManager, session.RoleAdmin)
	staff := roleMiddleware(api.mgr, session.RoleTeacher, session.RoleGradeManager, session.RoleAdmin)

	gg.POST("", api.upload, teacher)
	gg.POST("/import", api.importBatch, teacher)
	gg.GET("/pending", api.pendingMine, teacher)

	gg.GET("", api.query, staff)
	gg.GET("/low-score", api.lowScore, reviewer)
	gg.GET("/export", api.export, staff)
	gg.GET("/mine", api.mine)

	gg.GET("/:id", api.retrieve, staff)
	gg.POST("/:id/decision", api.decide, reviewer)
	gg.POST("/:id/active", api.setActive, reviewer)
}

// Handlers

func (api *gradeApi) upload(ctx echo.Context) error {
	var data grade.NewGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGrade")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	created, err := api.svc.Upload(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, created)
}

// importBatch accepts an xlsx upload and submits its rows one at a time. The
// response reports exactly which rows landed; rows confirmed before a failure
// stay on the ledger.
func (api *gradeApi) importBatch(ctx echo.Context) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file upload")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return errors.Wrap(err, "opening upload")
	}
	defer f.Close()

	rows, skipped, err := sheetsvc.ParseGrades(f)
	if err != nil {
		return core.NewValidationError(errors.Wrap(err, "unreadable spreadsheet"))
	}

	report := api.svc.ImportBatch(ctx.Request().Context(), api.validate, rows, skipped)
	return ctx.JSON(http.StatusOK, BatchImportResponse{Report: report})
}

func (api *gradeApi) query(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var (
		grades []grade.Grade
		err    error
	)
	switch {
	case ctx.QueryParam("student_id") != "":
		grades, err = api.svc.ByStudentID(reqCtx, ctx.QueryParam("student_id"))
	case ctx.QueryParam("username") != "":
		grades, err = api.svc.ByUsername(reqCtx, ctx.QueryParam("username"))
	case ctx.QueryParam("account") != "":
		grades, err = api.svc.ByAddress(reqCtx, ctx.QueryParam("account"))
	default:
		grades, err = api.svc.All(reqCtx)
	}
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *gradeApi) lowScore(ctx echo.Context) error {
	grades, err := api.svc.LowScore(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying low-score grades")
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *gradeApi) pendingMine(ctx echo.Context) error {
	snap := api.mgr.Snapshot()
	grades, err := api.svc.PendingByTeacher(ctx.Request().Context(), snap.Account)
	if err != nil {
		return errors.Wrap(err, "querying pending grades")
	}
	return ctx.JSON(http.StatusOK, grades)
}

// mine serves the active session's own records, matched by account and by the
// registered student id. Any role may call it.
func (api *gradeApi) mine(ctx echo.Context) error {
	snap := api.mgr.Snapshot()
	if snap.Session == nil {
		return errUnauthorized
	}
	reqCtx := ctx.Request().Context()

	grades, err := api.svc.ByAddress(reqCtx, snap.Account)
	if err != nil {
		return errors.Wrap(err, "querying own grades")
	}
	if sid := snap.Session.Profile.StudentID; sid != "" {
		byID, err := api.svc.ByStudentID(reqCtx, sid)
		if err != nil {
			return errors.Wrap(err, "querying own grades by student id")
		}
		grades = mergeGrades(grades, byID)
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *gradeApi) retrieve(ctx echo.Context) error {
	g, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, g)
}

func (api *gradeApi) decide(ctx echo.Context) error {
	var data DecisionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DecisionRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	g, err := api.svc.Decide(ctx.Request().Context(), ctx.Param("id"), grade.Status(data.Decision))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, g)
}

func (api *gradeApi) setActive(ctx echo.Context) error {
	var data ActiveRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ActiveRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	g, err := api.svc.SetActive(ctx.Request().Context(), ctx.Param("id"), *data.Active)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, g)
}

// export streams a student's records as an xlsx attachment.
func (api *gradeApi) export(ctx echo.Context) error {
	studentID := core.CleanString(ctx.QueryParam("student_id"))
	if studentID == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "student_id", Error: "this field is required"})
	}

	grades, err := api.svc.ByStudentID(ctx.Request().Context(), studentID)
	if err != nil {
		return errors.Wrap(err, "querying grades for export")
	}
	attachment, err := sheetsvc.WriteGrades(studentID, grades)
	if err != nil {
		return errors.Wrap(err, "rendering spreadsheet")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+attachment.Filename+`"`)
	return ctx.Blob(http.StatusOK, xlsxContentType, attachment.Content.Bytes())
}

func mergeGrades(a, b []grade.Grade) []grade.Grade {
	seen := make(map[string]bool, len(a))
	for _, g := range a {
		seen[g.ID] = true
	}
	for _, g := range b {
		if !seen[g.ID] {
			a = append(a, g)
		}
	}
	return a
}
