package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/campweek/core"
	"github.com/trezcool/campweek/core/camp"
	"github.com/trezcool/campweek/core/catalog"
	"github.com/trezcool/campweek/core/schedule"
)

const campNotInWeekMsg = "camp is not available in this week"

type (
	SessionView struct {
		ID           string             `json:"id"`
		Schedule     *schedule.Schedule `json:"schedule"`
		TotalPrice   int                `json:"total_price"`
		TotalDisplay string             `json:"total_display"`
		CreatedAt    time.Time          `json:"created_at"`
		UpdatedAt    time.Time          `json:"updated_at"`
	}

	ToggleRequest struct {
		CampID string `json:"camp_id"`
	}

	UserRequest struct {
		UserID string `json:"user_id"`
	}
)

func NewSessionView(info schedule.SessionInfo) SessionView {
	total := info.Schedule.TotalPrice()
	return SessionView{
		ID:           info.ID,
		Schedule:     info.Schedule,
		TotalPrice:   total,
		TotalDisplay: camp.FormatPrice(total),
		CreatedAt:    info.CreatedAt,
		UpdatedAt:    info.UpdatedAt,
	}
}

type sessionApi struct {
	sessions *schedule.Sessions
	svc      *schedule.Service
	loader   *catalog.Loader
}

func registerSessionAPI(g *echo.Group, sessions *schedule.Sessions, svc *schedule.Service, loader *catalog.Loader) {
	api := sessionApi{
		sessions: sessions,
		svc:      svc,
		loader:   loader,
	}

	sg := g.Group("/sessions")
	sg.POST("", api.create)

	// detail endpoints
	dg := sg.Group("/:sid")
	dg.GET("", api.retrieve)
	dg.DELETE("", api.destroy)
	dg.POST("/weeks/:week/toggle", api.toggle)
	dg.DELETE("/weeks/:week", api.removeWeek)
	dg.POST("/save", api.save)
	dg.POST("/restore", api.restore)
}

func weekParam(ctx echo.Context) (camp.WeekID, error) {
	n, err := strconv.Atoi(ctx.Param("week"))
	if err != nil || !camp.WeekID(n).IsValid() {
		return 0, core.NewValidationError(nil, core.FieldError{Field: "week", Error: "unknown week"})
	}
	return camp.WeekID(n), nil
}

// Handlers

func (api *sessionApi) create(ctx echo.Context) error {
	return ctx.JSON(http.StatusCreated, NewSessionView(api.sessions.Create()))
}

func (api *sessionApi) retrieve(ctx echo.Context) error {
	info, err := api.sessions.Get(ctx.Param("sid"))
	if err != nil {
		return errors.Wrap(err, "getting session")
	}
	return ctx.JSON(http.StatusOK, NewSessionView(info))
}

func (api *sessionApi) destroy(ctx echo.Context) error {
	api.sessions.Delete(ctx.Param("sid"))
	return ctx.NoContent(http.StatusNoContent)
}

// toggle only assigns a camp to a week it is available in.
func (api *sessionApi) toggle(ctx echo.Context) error {
	week, err := weekParam(ctx)
	if err != nil {
		return err
	}
	var data ToggleRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ToggleRequest")
	}
	if core.CleanString(data.CampID) == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "camp_id", Error: "this field is required"})
	}

	c, found := api.loader.Find(core.CleanString(data.CampID))
	if !found {
		return camp.ErrNotFound
	}
	if !camp.IsAvailableInWeek(c, week) {
		return core.NewValidationError(nil, core.FieldError{Field: "week", Error: campNotInWeekMsg})
	}

	info, err := api.sessions.Update(ctx.Param("sid"), func(s *schedule.Schedule) error {
		s.Toggle(c, week)
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "toggling week")
	}
	return ctx.JSON(http.StatusOK, NewSessionView(info))
}

func (api *sessionApi) removeWeek(ctx echo.Context) error {
	week, err := weekParam(ctx)
	if err != nil {
		return err
	}
	info, err := api.sessions.Update(ctx.Param("sid"), func(s *schedule.Schedule) error {
		s.Remove(week)
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "removing week")
	}
	return ctx.JSON(http.StatusOK, NewSessionView(info))
}

func (api *sessionApi) save(ctx echo.Context) error {
	var data UserRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UserRequest")
	}
	info, err := api.sessions.Get(ctx.Param("sid"))
	if err != nil {
		return errors.Wrap(err, "getting session")
	}

	saved, err := api.svc.Save(ctx.Request().Context(), data.UserID, info.Schedule)
	if err != nil {
		return errors.Wrap(err, "saving schedule")
	}
	return ctx.JSON(http.StatusOK, saved)
}

func (api *sessionApi) restore(ctx echo.Context) error {
	var data UserRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UserRequest")
	}
	if _, err := api.sessions.Get(ctx.Param("sid")); err != nil {
		return errors.Wrap(err, "getting session")
	}

	s, err := api.svc.Load(ctx.Request().Context(), data.UserID, api.loader.Snapshot().Camps)
	if err != nil {
		return errors.Wrap(err, "loading schedule")
	}
	info, err := api.sessions.Replace(ctx.Param("sid"), s)
	if err != nil {
		return errors.Wrap(err, "restoring schedule")
	}
	return ctx.JSON(http.StatusOK, NewSessionView(info))
}
