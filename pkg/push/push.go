// Package push delivers notifications to push providers
package push

import (
	"context"
	"fmt"

	"github.com/go-pkgz/lgr"

	"github.com/khabarwire/khabar/pkg/config"
	"github.com/khabarwire/khabar/pkg/domain"
)

// supported providers
const (
	ProviderOneSignal = "onesignal"
	ProviderSNS       = "sns"
	ProviderNone      = "none"
)

// Sender delivers a notification and returns provider's message id
type Sender interface {
	Send(ctx context.Context, n domain.Notification) (string, error)
}

// New makes a sender for the configured provider. Missing OneSignal credentials are only
// reported, sends will fail until they are set.
func New(ctx context.Context, cfg config.NotifyConfig) (Sender, error) {
	switch cfg.Provider {
	case ProviderOneSignal, "":
		if cfg.OneSignal.AppID == "" || cfg.OneSignal.RESTKey == "" {
			lgr.Printf("[WARN] onesignal app id or rest key is not set, push notifications will fail")
		}
		return NewOneSignal(OneSignalParams{
			AppID:    cfg.OneSignal.AppID,
			RESTKey:  cfg.OneSignal.RESTKey,
			Endpoint: cfg.OneSignal.Endpoint,
			Segment:  cfg.OneSignal.Segment,
			Timeout:  cfg.OneSignal.Timeout,
			Retries:  cfg.OneSignal.Retries,
		}), nil
	case ProviderSNS:
		return NewSNS(ctx, SNSParams{
			TopicARN:        cfg.SNS.TopicARN,
			Region:          cfg.SNS.Region,
			AccessKeyID:     cfg.SNS.AccessKeyID,
			SecretAccessKey: cfg.SNS.SecretAccessKey,
		})
	case ProviderNone:
		return &Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown push provider %q", cfg.Provider)
	}
}

// Nop logs notifications instead of sending them
type Nop struct{}

// Send logs the notification
func (n *Nop) Send(_ context.Context, msg domain.Notification) (string, error) {
	lgr.Printf("[INFO] push disabled, would send %q to %s", msg.Title, msg.URL)
	return "nop", nil
}
