package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/campweek/core/camp"
	"github.com/trezcool/campweek/core/catalog"
)

// CampView is a camp along with the values derived from it for display.
type CampView struct {
	camp.Camp
	Duration      camp.Duration `json:"duration"`
	DurationLabel string        `json:"duration_label"`
	BgColor       string        `json:"bg_color"`
	PriceDisplay  string        `json:"price_display"`
}

func NewCampView(c camp.Camp) CampView {
	d := camp.DurationTag(c)
	return CampView{
		Camp:          c,
		Duration:      d,
		DurationLabel: d.Label(),
		BgColor:       camp.ExtractPrimaryColorToken(c.Color),
		PriceDisplay:  camp.FormatPrice(c.Price),
	}
}

func newCampViews(camps []camp.Camp) []CampView {
	views := make([]CampView, 0, len(camps))
	for _, c := range camps {
		views = append(views, NewCampView(c))
	}
	return views
}

type campApi struct {
	svc      *camp.Service
	loader   *catalog.Loader
	validate *validator.Validate
}

func registerCampAPI(g *echo.Group, svc *camp.Service, loader *catalog.Loader, validate *validator.Validate) {
	api := campApi{
		svc:      svc,
		loader:   loader,
		validate: validate,
	}

	cg := g.Group("/camps")
	cg.GET("", api.query)
	cg.POST("", api.create)
	cg.GET("/:id", api.retrieve)
	cg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *campApi) query(ctx echo.Context) error {
	category := camp.Category(ctx.QueryParam("category"))
	if category == "" {
		category = camp.CategoryAll
	}
	return ctx.JSON(http.StatusOK, newCampViews(api.loader.Camps(category)))
}

func (api *campApi) retrieve(ctx echo.Context) error {
	c, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting camp")
	}
	return ctx.JSON(http.StatusOK, NewCampView(c))
}

func (api *campApi) create(ctx echo.Context) error {
	var data camp.NewCamp
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCamp")
	}

	c, err := api.loader.Add(ctx.Request().Context(), api.validate, data)
	if err != nil {
		return errors.Wrap(err, "adding camp")
	}
	return ctx.JSON(http.StatusCreated, NewCampView(c))
}

func (api *campApi) destroy(ctx echo.Context) error {
	id := ctx.Param("id")
	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting camp")
	}
	api.loader.Remove(id)
	return ctx.NoContent(http.StatusNoContent)
}
