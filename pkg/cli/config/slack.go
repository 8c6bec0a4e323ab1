package config

import (
	"github.com/m-mizutani/spack-updater/pkg/domain/interfaces"
	"github.com/m-mizutani/spack-updater/pkg/infra/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds notification configuration
type Slack struct {
	WebhookURL string
	Channel    string
}

// Flags returns CLI flags for Slack configuration
func (c *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL for notifications",
			Destination: &c.WebhookURL,
			Sources:     cli.EnvVars("SPACK_UPDATER_SLACK_WEBHOOK_URL"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel, overriding the webhook default",
			Destination: &c.Channel,
			Sources:     cli.EnvVars("SPACK_UPDATER_SLACK_CHANNEL"),
		},
	}
}

// Notifier returns nil when no webhook is configured
func (c *Slack) Notifier() interfaces.Notifier {
	if c.WebhookURL == "" {
		return nil
	}
	return slack.New(c.WebhookURL, c.Channel)
}
