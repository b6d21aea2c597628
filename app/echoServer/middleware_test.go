package echoServer

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/brijeshkrdube/kloudserver-sub000/app/echoServer/jwtx"
	"github.com/brijeshkrdube/kloudserver-sub000/model"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

// authedEcho wires the same JWT + identity chain Register uses, plus the
// staff gate on /admin, in front of probe handlers.
func authedEcho() *echo.Echo {
	e := echo.New()
	g := e.Group("/v1")
	g.Use(echojwt.WithConfig(JWTConfig(testSecret)))
	g.Use(ExtractIdentity())

	g.GET("/whoami", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"user_id": jwtx.UserID(c), "role": jwtx.Role(c)})
	})

	admin := g.Group("/admin")
	admin.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if !model.IsStaff(jwtx.Role(ctx)) {
				return ctx.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
			}
			return next(ctx)
		}
	})
	admin.GET("/ping", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"message": "pong"})
	})
	return e
}

func get(e *echo.Echo, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// A standard "Authorization: Bearer <token>" header must reach the handler
// with the sub and role claims available in context.
func TestAuth_BearerTokenReachesHandler(t *testing.T) {
	e := authedEcho()
	tok := signToken(t, testSecret, jwt.MapClaims{"sub": "u-42", "role": model.RoleUser})

	rec := get(e, "/v1/whoami", "Bearer "+tok)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "u-42")
	require.Contains(t, rec.Body.String(), model.RoleUser)
}

func TestAuth_MissingTokenRejected(t *testing.T) {
	rec := get(authedEcho(), "/v1/whoami", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_WrongSecretRejected(t *testing.T) {
	tok := signToken(t, "other-secret", jwt.MapClaims{"sub": "u-42", "role": model.RoleUser})
	rec := get(authedEcho(), "/v1/whoami", "Bearer "+tok)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_MissingSubRejected(t *testing.T) {
	tok := signToken(t, testSecret, jwt.MapClaims{"role": model.RoleUser})
	rec := get(authedEcho(), "/v1/whoami", "Bearer "+tok)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_StaffGate(t *testing.T) {
	e := authedEcho()

	user := signToken(t, testSecret, jwt.MapClaims{"sub": "u-1", "role": model.RoleUser})
	rec := get(e, "/v1/admin/ping", "Bearer "+user)
	require.Equal(t, http.StatusForbidden, rec.Code)

	admin := signToken(t, testSecret, jwt.MapClaims{"sub": "a-1", "role": model.RoleAdmin})
	rec = get(e, "/v1/admin/ping", "Bearer "+admin)
	require.Equal(t, http.StatusOK, rec.Code)
}
