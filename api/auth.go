package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const jwtIssuer = "cpctplusd"
const jwtSubject = "operator"

type authKey int

const authLoggedInKey authKey = iota

func getBearer(req *http.Request) (string, error) {
	hdr := strings.TrimSpace(req.Header.Get("Authorization"))
	if hdr == "" {
		return "", fmt.Errorf("no authorization header present")
	}
	parts := strings.SplitN(hdr, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(strings.TrimSpace(parts[0]), "bearer") {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}
	return strings.TrimSpace(parts[1]), nil
}

func (api API) generateJWT() (string, error) {
	claims := jwt.MapClaims{
		"iss": jwtIssuer,
		"sub": jwtSubject,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return tok.SignedString(api.Secret)
}

func (api API) validateJWT(tokStr string) error {
	_, err := jwt.Parse(tokStr, func(t *jwt.Token) (interface{}, error) {
		return api.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(jwtIssuer), jwt.WithSubject(jwtSubject), jwt.WithLeeway(time.Minute))
	return err
}

// requireAuth wraps next so that requests without a valid bearer JWT are
// rejected with HTTP-401 before reaching it.
func (api API) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		tok, err := getBearer(req)
		if err != nil {
			time.Sleep(api.UnauthDelay)
			Unauthorized("", err.Error()).WriteResponse(w)
			return
		}
		if err := api.validateJWT(tok); err != nil {
			time.Sleep(api.UnauthDelay)
			Unauthorized("", "invalid token: "+err.Error()).WriteResponse(w)
			return
		}
		next(w, req)
	}
}
