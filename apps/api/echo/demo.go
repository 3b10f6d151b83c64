package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-landing/core"
	"github.com/trezcool/masomo-landing/core/flowdemo"
)

type demoApi struct {
	registry   *flowdemo.Registry
	validate   *validator.Validate
	translator ut.Translator
	logger     core.Logger
	upgrader   websocket.Upgrader
}

func registerDemoAPI(g *echo.Group, registry *flowdemo.Registry, validate *validator.Validate, translator ut.Translator, logger core.Logger) {
	api := &demoApi{
		registry:   registry,
		validate:   validate,
		translator: translator,
		logger:     logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // the landing page may be served from anywhere
		},
	}

	dg := g.Group("/demos")
	dg.POST("", api.create)

	// detail endpoints
	sg := dg.Group("/:id", sessionMiddleware(registry))
	sg.GET("", api.retrieve)
	sg.DELETE("", api.destroy)
	sg.POST("/commands", api.dispatch)
	sg.GET("/ws", api.stream)
}

// Handlers

func (api *demoApi) create(ctx echo.Context) error {
	sess, err := api.registry.Create(newBroadcaster())
	if err != nil {
		return errors.Wrap(err, "creating demo session")
	}
	return ctx.JSON(http.StatusCreated, DemoResponse{ID: sess.ID, Snapshot: sess.Controller.Snapshot()})
}

func (api *demoApi) retrieve(ctx echo.Context) error {
	sess := ctx.Get("session").(*flowdemo.Session)
	return ctx.JSON(http.StatusOK, DemoResponse{ID: sess.ID, Snapshot: sess.Controller.Snapshot()})
}

func (api *demoApi) destroy(ctx echo.Context) error {
	sess := ctx.Get("session").(*flowdemo.Session)
	if err := api.registry.Remove(sess.ID); err != nil && errors.Cause(err) != flowdemo.ErrSessionNotFound {
		return errors.Wrap(err, "removing demo session")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *demoApi) dispatch(ctx echo.Context) error {
	sess := ctx.Get("session").(*flowdemo.Session)

	var data CommandRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CommandRequest")
	}
	if err := applyCommand(sess.Controller, data, api.validate); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, DemoResponse{ID: sess.ID, Snapshot: sess.Controller.Snapshot()})
}

// applyCommand validates and dispatches a command; controller rejections become validation errors.
func applyCommand(ctrl *flowdemo.Controller, data CommandRequest, validate *validator.Validate) error {
	if err := data.Validate(validate); err != nil {
		return err
	}
	cmd, err := flowdemo.ParseCommand(data.Type, data.Persona, data.Step)
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "type", Error: err.Error()})
	}

	switch err = ctrl.Dispatch(cmd); errors.Cause(err) {
	case nil:
		return nil
	case flowdemo.ErrInvalidStep:
		return core.NewValidationError(err, core.FieldError{Field: "step", Error: err.Error()})
	case flowdemo.ErrClosed:
		return errHttpNotFound
	default:
		return errors.Wrap(err, "dispatching command")
	}
}

func sessionMiddleware(registry *flowdemo.Registry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess, err := registry.Get(ctx.Param("id"))
			if err != nil {
				if errors.Cause(err) == flowdemo.ErrSessionNotFound {
					return errHttpNotFound
				}
				return errors.Wrap(err, "finding demo session")
			}
			ctx.Set("session", sess)
			return next(ctx)
		}
	}
}

type (
	CommandRequest struct {
		Type    string `json:"type" validate:"required,oneof=select_persona click_step toggle_autoplay start_autoplay stop_autoplay"`
		Persona string `json:"persona" validate:"omitempty,persona"`
		Step    int    `json:"step" validate:"omitempty,min=1,max=5"`
	}

	DemoResponse struct {
		ID       string            `json:"id"`
		Snapshot flowdemo.Snapshot `json:"snapshot"`
	}
)

func (cr *CommandRequest) Validate(validate *validator.Validate) error {
	cr.Type = core.CleanString(cr.Type, true /* lower */)
	cr.Persona = core.CleanString(cr.Persona, true /* lower */)
	return validate.Struct(cr)
}
