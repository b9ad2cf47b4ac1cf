// Package handlers contains the HTTP handlers for the NewsFlow admin
// API.
//
// See package "api" for the format of the JSON request bodies.
package handlers

import (
	"net/http"

	"github.com/matrix-org/util"

	"github.com/newsflow-bot/newsflow/api"
)

// Health implements the liveness API
type Health struct{}

// OnIncomingRequest returns a trivial JSON object which can be used to
// detect liveness of NewsFlow.
//
// Request:
//  GET /health
//
// Response:
//  HTTP/1.1 200 OK
//  {"ok": true}
func (*Health) OnIncomingRequest(req *http.Request) util.JSONResponse {
	return util.JSONResponse{
		Code: 200,
		JSON: api.HealthResponse{OK: true},
	}
}
