package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-landing/core"
	"github.com/trezcool/masomo-landing/core/flowdemo"
)

type contentApi struct {
	repo flowdemo.ContentRepository
}

func registerContentAPI(g *echo.Group, repo flowdemo.ContentRepository) {
	api := contentApi{repo: repo}

	g.GET("/personas", api.queryPersonas)

	cg := g.Group("/content/:persona", personaMiddleware(repo))
	cg.GET("", api.retrieve)
	cg.GET("/steps/:step", api.retrieveStep)
}

// Handlers

func (api *contentApi) queryPersonas(ctx echo.Context) error {
	personas := api.repo.Personas()
	res := make([]PersonaResponse, 0, len(personas))
	for _, p := range personas {
		res = append(res, PersonaResponse{Value: p, Name: p.Name()})
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *contentApi) retrieve(ctx echo.Context) error {
	p := ctx.Get("persona").(flowdemo.Persona)
	steps, _ := api.repo.Steps(p)
	return ctx.JSON(http.StatusOK, ContentResponse{Persona: p, Steps: steps})
}

func (api *contentApi) retrieveStep(ctx echo.Context) error {
	p := ctx.Get("persona").(flowdemo.Persona)
	step, err := strconv.Atoi(ctx.Param("step"))
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "step", Error: "step must be a number"})
	}

	details, err := flowdemo.StepDetails(api.repo, p, step)
	if err != nil {
		if errors.Cause(err) == flowdemo.ErrInvalidStep {
			return core.NewValidationError(err, core.FieldError{Field: "step", Error: err.Error()})
		}
		return errors.Wrap(err, "getting step details")
	}
	return ctx.JSON(http.StatusOK, details)
}

// personaMiddleware puts the `:persona` path param in the context, or answers 404 when it has no content.
func personaMiddleware(repo flowdemo.ContentRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			p, ok := flowdemo.ParsePersona(ctx.Param("persona"))
			if !ok {
				return errHttpNotFound
			}
			if _, ok = repo.Steps(p); !ok {
				return errHttpNotFound
			}
			ctx.Set("persona", p)
			return next(ctx)
		}
	}
}

type (
	PersonaResponse struct {
		Value flowdemo.Persona `json:"value"`
		Name  string           `json:"name"`
	}

	ContentResponse struct {
		Persona flowdemo.Persona       `json:"persona"`
		Steps   []flowdemo.StepContent `json:"steps"`
	}
)
