// app/echoServer/jwtx/user.go
package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// UserID reads the user id placed in context by the auth middleware.
func UserID(c echo.Context) string {
	id, _ := c.Get("user_id").(string)
	return id
}

func Role(c echo.Context) string {
	role, _ := c.Get("role").(string)
	return role
}

// ClaimsFromToken extracts the subject and role claims from a verified token.
func ClaimsFromToken(c echo.Context) (userID, role string, err error) {
	tok, ok := c.Get("user").(*jwt.Token)
	if !ok || tok == nil {
		return "", "", errors.New("no jwt token in context")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errors.New("invalid jwt claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", "", errors.New("sub missing in claims")
	}
	r, _ := claims["role"].(string)
	return sub, r, nil
}
