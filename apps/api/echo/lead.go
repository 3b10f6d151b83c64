package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-landing/core/lead"
)

type leadApi struct {
	svc      lead.ServiceInterface
	validate *validator.Validate
}

func registerLeadAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc lead.ServiceInterface, validate *validator.Validate) {
	api := leadApi{
		svc:      svc,
		validate: validate,
	}

	// un-authed endpoints
	// TODO: rate limit `/leads` per client IP
	g.POST("/leads", api.submit)

	// authed endpoints
	ag := g.Group("/admin/leads", jwt, adminMiddleware())
	ag.GET("", api.query)
	ag.GET("/:id", api.retrieve)
}

// Handlers

func (api *leadApi) submit(ctx echo.Context) error {
	var data lead.NewLead
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLead")
	}

	receipt, err := api.svc.Submit(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "submitting lead")
	}
	return ctx.JSON(http.StatusCreated, receipt)
}

func (api *leadApi) query(ctx echo.Context) error {
	filter := new(lead.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []lead.Lead{})
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)
	filter.Orderings = ordering.Orderings

	leads, err := api.svc.Query(*filter)
	if err != nil {
		return errors.Wrap(err, "querying leads")
	}
	if leads == nil {
		leads = []lead.Lead{}
	}
	return ctx.JSON(http.StatusOK, leads)
}

func (api *leadApi) retrieve(ctx echo.Context) error {
	l, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == lead.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding lead by ID")
	}
	return ctx.JSON(http.StatusOK, l)
}
