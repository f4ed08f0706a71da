package echoapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/revisioncam/core"
	"github.com/trezcool/revisioncam/core/auth"
	"github.com/trezcool/revisioncam/core/study"
)

var (
	contextSessionKey  = "session"
	refreshTokenHeader = "X-Refreshed-Token"
	bearerPrefix       = "Bearer "
)

type authApi struct {
	sessions *auth.Manager
	tokens   *auth.TokenCodec
	studySvc *study.Service
	validate *validator.Validate
}

func registerAuthAPI(g *echo.Group, session echo.MiddlewareFunc, deps ServerDeps) {
	api := authApi{
		sessions: deps.Sessions,
		tokens:   deps.Tokens,
		studySvc: deps.StudySvc,
		validate: deps.Validate,
	}

	ag := g.Group("/auth")

	// un-authed endpoints
	ag.POST("/login", api.login)

	// authed endpoints
	ag.POST("/refresh", api.refresh, session)
	ag.POST("/logout", api.logout, session)
}

// sessionMiddleware authenticates requests carrying a Bearer session token.
// Every authenticated request extends the session; the new token is sent back in the X-Refreshed-Token header.
func sessionMiddleware(sessions *auth.Manager, tokens *auth.TokenCodec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				return errUnauthorized
			}

			sess, err := tokens.Decode(strings.TrimSpace(header[len(bearerPrefix):]))
			if err == nil {
				err = sessions.Check(sess)
			}
			switch err {
			case nil:
			case auth.ErrSessionExpired:
				return errSessionExpired
			default:
				return errUnauthorized
			}

			if sess, err = sessions.Extend(sess); err != nil {
				return errSessionExpired
			}
			token, err := tokens.Encode(sess)
			if err != nil {
				return errors.Wrap(err, "encoding token")
			}
			ctx.Response().Header().Set(refreshTokenHeader, token)
			ctx.Set(contextSessionKey, sess)
			return next(ctx)
		}
	}
}

func getContextSession(ctx echo.Context) (auth.Session, error) {
	if sess, ok := ctx.Get(contextSessionKey).(auth.Session); ok {
		return sess, nil
	}
	return auth.Session{}, errUnauthorized
}

func contextPerson(ctx echo.Context) (core.Person, bool) {
	sess, err := getContextSession(ctx)
	if err != nil {
		return core.Person{}, false
	}
	return core.Person{ID: sess.ID, Username: sess.Username}, true
}

// Handlers

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sess, err := api.sessions.Login(data.Username, data.Password)
	if err != nil {
		if errors.Cause(err) == auth.ErrInvalidCredentials {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "logging in")
	}
	if err = api.studySvc.Open(sess); err != nil {
		return errors.Wrap(err, "opening workspace")
	}
	return api.respondToken(ctx, sess)
}

func (api *authApi) refresh(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	return api.respondToken(ctx, sess)
}

func (api *authApi) logout(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	api.sessions.Logout(sess)
	if err = api.studySvc.Close(sess.ID); err != nil {
		return errors.Wrap(err, "closing workspace")
	}
	ctx.Response().Header().Del(refreshTokenHeader)
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Logged out."})
}

func (api *authApi) respondToken(ctx echo.Context, sess auth.Session) error {
	token, err := api.tokens.Encode(sess)
	if err != nil {
		return errors.Wrap(err, "encoding token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		Username:  sess.Username,
		ExpiresAt: sess.ExpiresAt.UTC().Format(time.RFC3339),
	})
}
