package slack

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// Notifier posts messages to a Slack incoming webhook
type Notifier struct {
	webhookURL string
	channel    string
}

// New creates a Notifier. channel may be empty to use the webhook default.
func New(webhookURL, channel string) *Notifier {
	return &Notifier{webhookURL: webhookURL, channel: channel}
}

// Notify posts msg
func (x *Notifier) Notify(ctx context.Context, msg string) error {
	ctxlog.From(ctx).Debug("Posting Slack notification", "channel", x.channel)

	if err := slack.PostWebhookContext(ctx, x.webhookURL, &slack.WebhookMessage{
		Channel: x.channel,
		Text:    msg,
	}); err != nil {
		return goerr.Wrap(err, "failed to post Slack message", goerr.V("channel", x.channel))
	}
	return nil
}
