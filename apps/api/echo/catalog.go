package echoapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/campweek/core"
	"github.com/trezcool/campweek/core/catalog"
)

// CatalogStatus is the loader state as seen by clients.
type CatalogStatus struct {
	State catalog.State `json:"state"`
	Error string        `json:"error,omitempty"`
	Count int           `json:"count"`
}

func newCatalogStatus(snap catalog.Snapshot) CatalogStatus {
	return CatalogStatus{State: snap.State, Error: snap.Error, Count: len(snap.Camps)}
}

type catalogApi struct {
	loader *catalog.Loader
	logger core.Logger
}

func registerCatalogAPI(g *echo.Group, loader *catalog.Loader, logger core.Logger) {
	api := catalogApi{loader: loader, logger: logger}

	cg := g.Group("/catalog")
	cg.GET("", api.status)
	cg.POST("/reload", api.reload)
	cg.GET("/events", api.events)
}

// Handlers

func (api *catalogApi) status(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, newCatalogStatus(api.loader.Snapshot()))
}

// reload is the manual retry after a failed load. Its outcome is reported in the body, not the status code.
func (api *catalogApi) reload(ctx echo.Context) error {
	_ = api.loader.Reload(ctx.Request().Context())
	return ctx.JSON(http.StatusOK, newCatalogStatus(api.loader.Snapshot()))
}

// events streams one `reload` event per completed reload until the client goes away.
func (api *catalogApi) events(ctx echo.Context) error {
	reloaded := make(chan struct{}, 1)
	unregister := api.loader.OnReload(func() {
		select {
		case reloaded <- struct{}{}:
		default: // a pending event already covers this reload
		}
	})
	defer unregister()

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	done := ctx.Request().Context().Done()
	for {
		select {
		case <-done:
			return nil
		case <-reloaded:
			data, err := json.Marshal(newCatalogStatus(api.loader.Snapshot()))
			if err != nil {
				return errors.Wrap(err, "encoding catalog status")
			}
			if _, err = fmt.Fprintf(res, "event: reload\ndata: %s\n\n", data); err != nil {
				api.logger.Debug("catalog events client gone", err)
				return nil
			}
			res.Flush()
		}
	}
}
