package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/matrix-org/util"

	"github.com/newsflow-bot/newsflow/api"
	"github.com/newsflow-bot/newsflow/feeds"
	"github.com/newsflow-bot/newsflow/subscriptions"
)

// Subscribe represents an HTTP handler which can process
// /admin/subscribe requests.
type Subscribe struct {
	Subscriptions *subscriptions.Service
}

// OnIncomingRequest handles POST requests to /admin/subscribe.
//
// The request body MUST be of type "api.SubscribeRequest". Unknown feed
// URLs are fetched, validated and registered as part of the request.
//
// Request:
//  POST /admin/subscribe
//  {
//      "platform": "console",
//      "channel_id": "ops-room",
//      "feed_url": "https://example.com/rss.xml"
//  }
// Response:
//  HTTP/1.1 200 OK
//  {
//      "subscription": { ... },
//      "is_new": true
//  }
func (s *Subscribe) OnIncomingRequest(req *http.Request) util.JSONResponse {
	if req.Method != "POST" {
		return util.MessageResponse(405, "Unsupported Method")
	}
	var body api.SubscribeRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return util.MessageResponse(400, "Error parsing request JSON")
	}
	if body.Platform == "" || body.ChannelID == "" || body.FeedURL == "" {
		return util.MessageResponse(400, "Missing platform, channel_id or feed_url")
	}

	sub, isNew, err := s.Subscriptions.Subscribe(req.Context(), subscriptions.SubscribeRequest{
		Platform:       body.Platform,
		UserID:         body.UserID,
		ChannelID:      body.ChannelID,
		GuildID:        body.GuildID,
		FeedURL:        body.FeedURL,
		Translate:      body.Translate,
		TargetLanguage: body.TargetLanguage,
	})
	if err == feeds.ErrFeedNoEntries || err == feeds.ErrFeedExists {
		return util.MessageResponse(400, err.Error())
	} else if err != nil {
		util.GetLogger(req.Context()).WithError(err).WithField("feed_url", body.FeedURL).Error("Failed to subscribe")
		return util.MessageResponse(500, "Error creating subscription")
	}
	return util.JSONResponse{
		Code: 200,
		JSON: api.SubscribeResponse{Subscription: sub, IsNew: isNew},
	}
}

// Unsubscribe represents an HTTP handler which can process
// /admin/unsubscribe requests.
type Unsubscribe struct {
	Subscriptions *subscriptions.Service
}

// OnIncomingRequest handles POST requests to /admin/unsubscribe.
//
// The request body MUST be of type "api.UnsubscribeRequest".
//
// Request:
//  POST /admin/unsubscribe
//  {
//      "platform": "console",
//      "channel_id": "ops-room",
//      "feed_url": "https://example.com/rss.xml"
//  }
// Response:
//  HTTP/1.1 200 OK
//  {}
func (s *Unsubscribe) OnIncomingRequest(req *http.Request) util.JSONResponse {
	if req.Method != "POST" {
		return util.MessageResponse(405, "Unsupported Method")
	}
	var body api.UnsubscribeRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return util.MessageResponse(400, "Error parsing request JSON")
	}
	if body.Platform == "" || body.ChannelID == "" || body.FeedURL == "" {
		return util.MessageResponse(400, "Missing platform, channel_id or feed_url")
	}

	err := s.Subscriptions.Unsubscribe(body.Platform, body.ChannelID, body.FeedURL)
	if err == feeds.ErrFeedNotFound || err == subscriptions.ErrSubscriptionNotFound {
		return util.MessageResponse(404, err.Error())
	} else if err != nil {
		util.GetLogger(req.Context()).WithError(err).WithField("feed_url", body.FeedURL).Error("Failed to unsubscribe")
		return util.MessageResponse(500, "Error removing subscription")
	}
	return util.JSONResponse{
		Code: 200,
		JSON: struct{}{},
	}
}

// ListSubscriptions represents an HTTP handler which can process
// /admin/subscriptions requests.
type ListSubscriptions struct {
	Subscriptions *subscriptions.Service
}

// OnIncomingRequest handles GET requests to /admin/subscriptions.
//
// Request:
//  GET /admin/subscriptions?platform=console&channel_id=ops-room
//
// Response:
//  HTTP/1.1 200 OK
//  {
//      "subscriptions": [ { ... }, ... ]
//  }
func (s *ListSubscriptions) OnIncomingRequest(req *http.Request) util.JSONResponse {
	if req.Method != "GET" {
		return util.MessageResponse(405, "Unsupported Method")
	}
	platform := req.URL.Query().Get("platform")
	channelID := req.URL.Query().Get("channel_id")
	if platform == "" || channelID == "" {
		return util.MessageResponse(400, "Missing platform or channel_id")
	}

	subs, err := s.Subscriptions.List(platform, channelID)
	if err != nil {
		util.GetLogger(req.Context()).WithError(err).Error("Failed to list subscriptions")
		return util.MessageResponse(500, "Error listing subscriptions")
	}
	return util.JSONResponse{
		Code: 200,
		JSON: api.SubscriptionsResponse{Subscriptions: subs},
	}
}
