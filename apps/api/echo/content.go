package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/easymind/easymind/core"
	"github.com/easymind/easymind/core/content"
)

type contentApi struct {
	conf       *core.Config
	svc        *content.Service
	sessions   *sessionStore
	validate   *validator.Validate
	translator ut.Translator
}

func registerContentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := contentApi{
		conf:       deps.Conf,
		svc:        deps.ContentSvc,
		sessions:   newSessionStore(deps.ContentSvc),
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	// un-authed endpoints
	g.POST("/login", api.login)

	// authed endpoints
	ag := g.Group("", jwt)
	ag.GET("/contents", api.query)
	ag.GET("/covers", api.queryCovers)

	registerAuthoringAPI(ag, &api)
}

// Handlers

func (api *contentApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := authenticate(data.Username, data.Password, api.conf)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	token, err := GenerateToken(claims, api.conf)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

// query returns the merged content listing, filtered and sorted per the
// query params.
func (api *contentApi) query(ctx echo.Context) error {
	mode, err := bindFilterMode(ctx.QueryParam("filter"))
	if err != nil {
		return err
	}
	order, err := bindSortOrder(ctx.QueryParam("sort"))
	if err != nil {
		return err
	}

	items, err := api.svc.List(ctx.Request().Context(), mode, order)
	if err != nil {
		return errors.Wrap(err, "querying contents")
	}
	if items == nil {
		items = []content.Item{}
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *contentApi) queryCovers(ctx echo.Context) error {
	ctype := ctx.QueryParam("type")
	if ctype != "" && ctype != content.TypeMaterial && ctype != content.TypeAssessment {
		return core.NewValidationError(errors.New("invalid content type"))
	}
	return ctx.JSON(http.StatusOK, content.Covers(ctype))
}

func bindFilterMode(raw string) (content.FilterMode, error) {
	switch mode := content.FilterMode(raw); mode {
	case "", content.FilterAll:
		return content.FilterAll, nil
	case content.FilterMaterials, content.FilterAssessments:
		return mode, nil
	}
	return "", core.NewValidationError(errors.New("invalid filter"))
}

func bindSortOrder(raw string) (content.SortOrder, error) {
	switch order := content.SortOrder(raw); order {
	case "", content.SortNewest:
		return content.SortNewest, nil
	case content.SortOldest:
		return order, nil
	}
	return "", core.NewValidationError(errors.New("invalid sort order"))
}

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return validate.Struct(lr)
}
