package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tatame-app/tatame/apps/di"
	"github.com/tatame-app/tatame/core/auth"
	"github.com/tatame-app/tatame/core/user"
)

type accountApi struct {
	svc    *auth.Service
	usrSvc *user.Service
	tokens tokenIssuer
}

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, tokens tokenIssuer, svcs di.Services) {
	api := accountApi{svc: svcs.Auth, usrSvc: svcs.User, tokens: tokens}

	ag := g.Group("/auth")

	// un-authed endpoints
	// TODO: rate limit `/login` & `/register`
	ag.POST("/login", api.login)
	ag.POST("/refresh", api.refresh)
	ag.POST("/register", api.register)

	// authed endpoints
	ag.POST("/logout", api.logout, jwt)
	ag.GET("/me", api.me, jwt)
}

type (
	LoginResponse struct {
		User         user.User `json:"user"`
		Token        string    `json:"token"`
		RefreshToken string    `json:"refreshToken"`
	}

	RefreshRequest struct {
		RefreshToken string `json:"refreshToken"`
	}

	RefreshResponse struct {
		Token string `json:"token"`
	}
)

// Handlers

func (api *accountApi) login(ctx echo.Context) error {
	var data auth.LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}

	usr, err := api.svc.Authenticate(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	resp, err := api.session(ctx, usr)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *accountApi) refresh(ctx echo.Context) error {
	var data RefreshRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RefreshRequest")
	}

	usr, err := api.svc.Refresh(ctx.Request().Context(), data.RefreshToken)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	token, err := api.tokens.generate(usr)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, RefreshResponse{Token: token})
}

func (api *accountApi) register(ctx echo.Context) error {
	var data auth.RegisterRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RegisterRequest")
	}

	usr, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering academy")
	}
	resp, err := api.session(ctx, usr)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, resp)
}

func (api *accountApi) logout(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Logout(ctx.Request().Context(), claims.UserID); err != nil {
		return errors.Wrap(err, "logging out")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *accountApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

// session issues the access and refresh tokens of a freshly authenticated user.
func (api *accountApi) session(ctx echo.Context, usr user.User) (LoginResponse, error) {
	token, err := api.tokens.generate(usr)
	if err != nil {
		return LoginResponse{}, errors.Wrap(err, "generating token")
	}
	refresh, err := api.svc.IssueRefreshToken(ctx.Request().Context(), usr)
	if err != nil {
		return LoginResponse{}, errors.Wrap(err, "issuing refresh token")
	}
	return LoginResponse{User: usr, Token: token, RefreshToken: refresh}, nil
}
