// Package api provides the HTTP API for a long-lived cpctplus recovery
// server: bearer-token auth over a single operator credential, and a
// recovery endpoint that drives a token stream to completion, repairing
// errors as it goes.
package api

import (
	"context"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dekarrin/cpctplus/config"
	"github.com/dekarrin/cpctplus/grammar"
	"github.com/dekarrin/cpctplus/lr"
)

type ctxKey int

const requestIDKey ctxKey = iota

// PathPrefix is the prefix under which all API routes are mounted.
const PathPrefix = "/api/v1"

// Demo is a named grammar the server can run recovery searches against.
// Real deployments would register one per grammar they serve; this
// repository ships only the worked parenthesized-addition example.
type Demo struct {
	Grammar     *grammar.Grammar
	Table       lr.StateTable
	TokenByName map[string]grammar.TokenIdx
}

// API holds everything an HTTP handler needs: the demo grammars it can
// recover against, the tuning config, and the secret used to sign and
// validate bearer tokens.
type API struct {
	// Demos maps a grammar name (as given in a request) to its Demo.
	Demos map[string]Demo

	// Config tunes every recovery search: token costs, deadline, and the
	// trailing-shift success threshold.
	Config config.Config

	// Secret signs and validates JWTs issued by the token endpoint.
	Secret []byte

	// OperatorTokenHash is the bcrypt hash of the one credential this
	// server accepts at the token endpoint.
	OperatorTokenHash []byte

	// UnauthDelay pads failed-auth responses to deprioritize them.
	UnauthDelay time.Duration
}

// Router builds the chi router serving this API.
func (api API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(assignRequestID)
	r.Use(requestLog)
	r.Use(recoverPanic)

	r.Route(PathPrefix, func(r chi.Router) {
		r.Post("/token", api.handleCreateToken)
		r.With(api.requireAuth).Post("/recover", api.handleRecover)
	})

	return r
}

func (api API) handleCreateToken(w http.ResponseWriter, req *http.Request) {
	var body struct {
		OperatorToken string `json:"operator_token"`
	}
	if err := decodeJSON(req, &body); err != nil {
		BadRequest("malformed request body", err.Error()).WriteResponse(w)
		return
	}

	if bcrypt.CompareHashAndPassword(api.OperatorTokenHash, []byte(body.OperatorToken)) != nil {
		time.Sleep(api.UnauthDelay)
		Unauthorized("", "bad operator token").WriteResponse(w)
		return
	}

	tok, err := api.generateJWT()
	if err != nil {
		InternalServerError("could not sign token: " + err.Error()).WriteResponse(w)
		return
	}

	Created(map[string]string{"token": tok}, "issued operator token").WriteResponse(w)
}

// assignRequestID stamps every request with a fresh UUID, used to
// correlate a client-visible error with its server-side log line.
func assignRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := uuid.New()
		w.Header().Set("X-Request-Id", id.String())
		ctx := context.WithValue(req.Context(), requestIDKey, id)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

func requestID(req *http.Request) uuid.UUID {
	id, _ := req.Context().Value(requestIDKey).(uuid.UUID)
	return id
}

func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, req)
		remote := strings.SplitN(req.RemoteAddr, ":", 2)[0]
		log.Printf("INFO  %s %s %s (%s) reqid=%s", remote, req.Method, req.URL.Path, time.Since(start), requestID(req))
	})
}

func recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				log.Printf("ERROR panic: %v\n%s", p, debug.Stack())
				InternalServerError().WriteResponse(w)
			}
		}()
		next.ServeHTTP(w, req)
	})
}

