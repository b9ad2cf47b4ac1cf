package handlers

import (
	"net/http"

	"github.com/matrix-org/util"

	"github.com/newsflow-bot/newsflow/database"
)

// Stats represents an HTTP handler which can process /stats requests.
type Stats struct {
	DB database.Storer
}

// OnIncomingRequest handles GET requests to /stats.
//
// Response:
//  HTTP/1.1 200 OK
//  {
//      "feeds": 12,
//      "active_feeds": 10,
//      "entries": 3400,
//      "subscriptions": 7,
//      "sent_receipts": 2900
//  }
func (s *Stats) OnIncomingRequest(req *http.Request) util.JSONResponse {
	if req.Method != "GET" {
		return util.MessageResponse(405, "Unsupported Method")
	}
	stats, err := s.DB.Stats()
	if err != nil {
		util.GetLogger(req.Context()).WithError(err).Error("Failed to load stats")
		return util.MessageResponse(500, "Error loading stats")
	}
	return util.JSONResponse{
		Code: 200,
		JSON: stats,
	}
}
