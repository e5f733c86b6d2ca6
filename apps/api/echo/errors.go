package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/academy"
	"github.com/tatame-app/tatame/core/attendance"
	"github.com/tatame-app/tatame/core/auth"
	"github.com/tatame-app/tatame/core/graduation"
	"github.com/tatame-app/tatame/core/professor"
	"github.com/tatame-app/tatame/core/schedule"
	"github.com/tatame-app/tatame/core/student"
	"github.com/tatame-app/tatame/core/user"
)

var (
	errUnauthorized  = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errJWTMissing    = echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed jwt")
	errTokenInvalid  = echo.NewHTTPError(http.StatusForbidden, "invalid or expired token")
	errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound  = echo.NewHTTPError(http.StatusNotFound, "not found")
	errHttpBadFilter = echo.NewHTTPError(http.StatusBadRequest, "invalid filter")
)

// domainErrors maps sentinel errors of the core packages to HTTP status codes.
var domainErrors = []struct {
	err  error
	code int
}{
	{academy.ErrNotFound, http.StatusNotFound},
	{attendance.ErrNotFound, http.StatusNotFound},
	{graduation.ErrNotFound, http.StatusNotFound},
	{professor.ErrNotFound, http.StatusNotFound},
	{schedule.ErrNotFound, http.StatusNotFound},
	{student.ErrNotFound, http.StatusNotFound},
	{user.ErrNotFound, http.StatusNotFound},
	{core.ErrForbidden, http.StatusForbidden},
	{auth.ErrInvalidCredentials, http.StatusUnauthorized},
	{auth.ErrInvalidRefreshToken, http.StatusForbidden},
}

func domainErrorCode(cause error) (int, bool) {
	for _, de := range domainErrors {
		if cause == de.err {
			return de.code, true
		}
	}
	return 0, false
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		cause := errors.Cause(err)
		if c, ok := domainErrorCode(cause); ok {
			code = c
			message = cause.Error()
		} else {
			switch origErr := cause.(type) {
			case *echo.HTTPError:
				if origErr.Internal != nil {
					if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
						origErr = herr
					}
				}
				code = origErr.Code
				message = origErr.Message
			case validator.ValidationErrors:
				fldErrs := make(map[string]string, len(origErr))
				for _, vErr := range origErr {
					fldErrs[vErr.Field()] = vErr.Translate(translator)
				}
				code = http.StatusBadRequest
				message = fldErrs
			case *core.ValidationError:
				if origErr.Fields != nil {
					fldErrs := make(map[string]string, len(origErr.Fields))
					for _, fErr := range origErr.Fields {
						fldErrs[fErr.Field] = fErr.Error
					}
					message = fldErrs
				} else {
					message = origErr.Error()
				}
				code = http.StatusBadRequest
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg

				var person core.Person
				if claims, cErr := getContextClaims(ctx); cErr == nil {
					person = core.Person{ID: claims.UserID, Name: claims.Name, Email: claims.Email}
				}
				extra := map[string]interface{}{
					"method":    ctx.Request().Method,
					"path":      ctx.Request().URL.Path,
					"requestId": ctx.Response().Header().Get(echo.HeaderXRequestID),
				}
				logger.Error(msg, errors.Wrap(err, msg), extra, person)

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
