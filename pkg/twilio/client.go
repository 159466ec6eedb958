package twilio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/wardrop-backend/pkg/config"
	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	"github.com/angelmondragon/wardrop-backend/pkg/logger"
	gobreaker "github.com/sony/gobreaker/v2"
	twiliosdk "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

const (
	breakerName    = "twilio-messages"
	whatsAppPrefix = "whatsapp:"
)

var (
	// ErrNotConfigured is returned when credentials or the sender number are missing.
	ErrNotConfigured = errors.New("sms provider not configured")
	// ErrUnavailable is returned while the circuit breaker rejects calls.
	ErrUnavailable = errors.New("sms provider temporarily unavailable")
)

type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// Message is a single outbound SMS or WhatsApp text.
type Message struct {
	Channel enums.NotificationChannel
	To      string
	Body    string
}

// Client delivers messages through the Twilio Messages API behind a circuit breaker.
type Client struct {
	api          messageCreator
	cb           *gobreaker.CircuitBreaker[*openapi.ApiV2010Message]
	smsFrom      string
	whatsAppFrom string
	logg         *logger.Logger
}

// NewClient builds a client from config. A nil client and ErrNotConfigured are
// returned when credentials are absent so callers can degrade gracefully.
func NewClient(cfg config.TwilioConfig, logg *logger.Logger) (*Client, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}
	rest := twiliosdk.NewRestClientWithParams(twiliosdk.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return newClient(rest.Api, cfg, logg), nil
}

func newClient(api messageCreator, cfg config.TwilioConfig, logg *logger.Logger) *Client {
	timeout := cfg.BreakerTimeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	c := &Client{
		api:          api,
		smsFrom:      strings.TrimSpace(cfg.PhoneNumber),
		whatsAppFrom: strings.TrimSpace(cfg.WhatsAppNumber),
		logg:         logg,
	}
	c.cb = gobreaker.NewCircuitBreaker[*openapi.ApiV2010Message](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if c.logg == nil {
				return
			}
			ctx := c.logg.WithFields(context.Background(), map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
			c.logg.Warn(ctx, "circuit breaker state changed")
		},
	})
	return c
}

// Send delivers the message and returns the provider message SID.
func (c *Client) Send(ctx context.Context, msg Message) (string, error) {
	if c == nil || c.api == nil {
		return "", ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(msg.To) == "" {
		return "", fmt.Errorf("recipient number is required")
	}
	if strings.TrimSpace(msg.Body) == "" {
		return "", fmt.Errorf("message body is required")
	}

	from, to := c.smsFrom, strings.TrimSpace(msg.To)
	if msg.Channel == enums.NotificationChannelWhatsApp {
		from, to = c.whatsAppFrom, WhatsAppAddress(to)
		if from != "" {
			from = WhatsAppAddress(from)
		}
	}
	if from == "" {
		return "", ErrNotConfigured
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(msg.Body)

	resp, err := c.cb.Execute(func() (*openapi.ApiV2010Message, error) {
		return c.api.CreateMessage(params)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", ErrUnavailable
		}
		return "", fmt.Errorf("twilio create message: %w", err)
	}
	if resp == nil || resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

// WhatsAppAddress prefixes a phone number with the WhatsApp channel marker when missing.
func WhatsAppAddress(number string) string {
	number = strings.TrimSpace(number)
	if strings.HasPrefix(number, whatsAppPrefix) {
		return number
	}
	return whatsAppPrefix + number
}
