package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/user"
)

var (
	tokenContextKey = "userToken"
	contextUserKey  = "user"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	UserID    int      `json:"id"`
	Email     string   `json:"email,omitempty"`
	Name      string   `json:"name,omitempty"`
	Role      string   `json:"role"`
	AcademyID null.Int `json:"academyId"`
	StudentID null.Int `json:"studentId"`
}

type tokenIssuer struct {
	issuer string
	key    []byte
	ttl    time.Duration
}

func newTokenIssuer(conf *core.Config) tokenIssuer {
	return tokenIssuer{issuer: conf.AppName, key: []byte(conf.SecretKey), ttl: conf.Server.AccessTokenTTL}
}

// jwtConfig is the JWT auth middleware config: a missing token is a 401, a bad one a 403.
func (ti tokenIssuer) jwtConfig() middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    ti.key,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    tokenContextKey,
		Claims:        new(Claims),
		ErrorHandler: func(err error) error {
			if err == middleware.ErrJWTMissing {
				return errJWTMissing
			}
			return &echo.HTTPError{Code: errTokenInvalid.Code, Message: errTokenInvalid.Message, Internal: err}
		},
	}
}

func (ti tokenIssuer) claims(usr user.User) *Claims {
	now := core.NowFunc()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    ti.issuer,
			ExpiresAt: now.Add(ti.ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
		UserID:    usr.ID,
		Email:     usr.Email,
		Name:      usr.Name,
		Role:      usr.Role,
		AcademyID: usr.AcademyID,
		StudentID: usr.StudentID,
	}
}

// generate returns a signed JWT token string representing the user claims.
func (ti tokenIssuer) generate(usr user.User) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), ti.claims(usr))
	ss, err := token.SignedString(ti.key)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// GenerateToken returns an access token for usr, signed with the configured secret key.
func GenerateToken(conf *core.Config, usr user.User) (string, error) {
	return newTokenIssuer(conf).generate(usr)
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(tokenContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// getContextUser loads the user behind the token once per request.
// A token whose user has been deleted is rejected.
func getContextUser(ctx echo.Context, svc *user.Service) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return user.User{}, err
	}
	usr, err := svc.GetByID(ctx.Request().Context(), claims.UserID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return user.User{}, errTokenInvalid
		}
		return user.User{}, errors.Wrap(err, "finding user by ID")
	}
	ctx.Set(contextUserKey, usr)
	return usr, nil
}

func roleMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}

var (
	generalAdminOnly = roleMiddleware(user.RoleGeneralAdmin)
	adminsOnly       = roleMiddleware(user.RoleGeneralAdmin, user.RoleAcademyAdmin)
)

// scopedAcademy returns the academy a listing is limited to: the requested one for general
// admins (0 = all), the caller's own otherwise.
func scopedAcademy(usr user.User, requested int) (int, error) {
	if usr.IsGeneralAdmin() {
		return requested, nil
	}
	if !usr.AcademyID.Valid {
		return 0, errNoAcademy
	}
	return usr.AcademyID.Int, nil
}

// canRead reports whether usr may see data owned by academyID.
func canRead(usr user.User, academyID null.Int) bool {
	if usr.IsGeneralAdmin() {
		return true
	}
	return usr.AcademyID.Valid && academyID.Valid && usr.AcademyID.Int == academyID.Int
}

func idParam(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		return 0, errHttpNotFound
	}
	return id, nil
}

var errNoAcademy = echo.NewHTTPError(http.StatusForbidden, "account is not linked to an academy")
