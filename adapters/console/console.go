// Package console is a DeliveryAdapter which writes messages to the
// process log. It is the default sink for development and for
// exercising the pipeline without platform credentials.
package console

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/newsflow-bot/newsflow/types"
)

// PlatformName of the console adapter
const PlatformName = "console"

// Adapter delivers messages to the log.
type Adapter struct{}

// PlatformName implements types.DeliveryAdapter.
func (a *Adapter) PlatformName() string { return PlatformName }

// Start implements types.DeliveryAdapter. The console needs no session.
func (a *Adapter) Start() error { return nil }

// Stop implements types.DeliveryAdapter.
func (a *Adapter) Stop() error { return nil }

// SendMessage implements types.DeliveryAdapter.
func (a *Adapter) SendMessage(ctx context.Context, channelID string, msg types.Message) bool {
	fields := log.Fields{
		"channel": channelID,
		"title":   msg.DisplayTitle(),
		"link":    msg.Link,
		"source":  msg.Source,
	}
	if summary := msg.DisplaySummary(); summary != "" {
		fields["summary"] = summary
	}
	if msg.ImageURL != "" {
		fields["image"] = msg.ImageURL
	}
	log.WithFields(fields).Info("New entry")
	return true
}

// SendText implements types.DeliveryAdapter.
func (a *Adapter) SendText(ctx context.Context, channelID string, text string) bool {
	log.WithFields(log.Fields{
		"channel": channelID,
		"text":    text,
	}).Info("Message")
	return true
}

func init() {
	types.RegisterAdapter(&Adapter{})
}
