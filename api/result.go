package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// errorBody is the JSON shape of any non-2xx response.
type errorBody struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// Result is a prepared HTTP response: a status code, an internal message
// for the access log, and a JSON body. Handlers return a Result rather
// than writing to the ResponseWriter directly, so that logging and body
// marshaling happen in exactly one place.
type Result struct {
	Status      int
	IsErr       bool
	InternalMsg string

	resp interface{}
}

// OK wraps respObj in an HTTP-200 Result.
func OK(respObj interface{}, internalMsg ...interface{}) Result {
	return Response(http.StatusOK, respObj, internalMsg...)
}

// Created wraps respObj in an HTTP-201 Result.
func Created(respObj interface{}, internalMsg ...interface{}) Result {
	return Response(http.StatusCreated, respObj, internalMsg...)
}

// BadRequest returns an HTTP-400 Result with userMsg shown to the caller.
func BadRequest(userMsg string, internalMsg ...interface{}) Result {
	return Err(http.StatusBadRequest, userMsg, internalMsg...)
}

// Unauthorized returns an HTTP-401 Result.
func Unauthorized(userMsg string, internalMsg ...interface{}) Result {
	if userMsg == "" {
		userMsg = "You are not authorized to do that"
	}
	return Err(http.StatusUnauthorized, userMsg, internalMsg...)
}

// InternalServerError returns an HTTP-500 Result. internalMsg is never
// shown to the caller.
func InternalServerError(internalMsg ...interface{}) Result {
	return Err(http.StatusInternalServerError, "An internal server error occurred", internalMsg...)
}

func Response(status int, respObj interface{}, internalMsg ...interface{}) Result {
	return Result{Status: status, resp: respObj, InternalMsg: fmtMsg("OK", internalMsg)}
}

func Err(status int, userMsg string, internalMsg ...interface{}) Result {
	return Result{
		Status:      status,
		IsErr:       true,
		InternalMsg: fmtMsg(userMsg, internalMsg),
		resp:        errorBody{Error: userMsg, Status: status},
	}
}

func fmtMsg(def string, args []interface{}) string {
	if len(args) == 0 {
		return def
	}
	format, ok := args[0].(string)
	if !ok {
		return def
	}
	return fmt.Sprintf(format, args[1:]...)
}

func (r Result) WriteResponse(w http.ResponseWriter) {
	if r.Status == 0 {
		panic("result not populated")
	}
	if r.IsErr {
		log.Printf("ERROR %d %s", r.Status, r.InternalMsg)
	} else {
		log.Printf("INFO  %d %s", r.Status, r.InternalMsg)
	}
	body, err := json.Marshal(r.resp)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"could not marshal response","status":500}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(r.Status)
	if r.Status != http.StatusNoContent {
		w.Write(body)
	}
}
