package twilio

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/wardrop-backend/pkg/config"
	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type fakeCreator struct {
	calls []*openapi.CreateMessageParams
	err   error
}

func (f *fakeCreator) CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error) {
	f.calls = append(f.calls, params)
	if f.err != nil {
		return nil, f.err
	}
	sid := "SM123"
	return &openapi.ApiV2010Message{Sid: &sid}, nil
}

func testConfig() config.TwilioConfig {
	return config.TwilioConfig{
		AccountSID:     "AC1",
		AuthToken:      "token",
		PhoneNumber:    "+213500000000",
		WhatsAppNumber: "+14155238886",
	}
}

func TestSendSMS(t *testing.T) {
	api := &fakeCreator{}
	c := newClient(api, testConfig(), nil)

	sid, err := c.Send(context.Background(), Message{Channel: enums.NotificationChannelSMS, To: "+213555000111", Body: "Bonjour"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if sid != "SM123" {
		t.Fatalf("unexpected sid %s", sid)
	}
	if len(api.calls) != 1 {
		t.Fatalf("expected one call, got %d", len(api.calls))
	}
	p := api.calls[0]
	if *p.To != "+213555000111" || *p.From != "+213500000000" || *p.Body != "Bonjour" {
		t.Fatalf("unexpected params to=%s from=%s", *p.To, *p.From)
	}
}

func TestSendWhatsAppPrefixesNumbers(t *testing.T) {
	api := &fakeCreator{}
	c := newClient(api, testConfig(), nil)

	if _, err := c.Send(context.Background(), Message{Channel: enums.NotificationChannelWhatsApp, To: "+213555000111", Body: "Salut"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	p := api.calls[0]
	if *p.To != "whatsapp:+213555000111" || *p.From != "whatsapp:+14155238886" {
		t.Fatalf("expected whatsapp prefixes, got to=%s from=%s", *p.To, *p.From)
	}
	if got := WhatsAppAddress("whatsapp:+1"); got != "whatsapp:+1" {
		t.Fatalf("prefix should not be duplicated, got %s", got)
	}
}

func TestSendMissingSender(t *testing.T) {
	cfg := testConfig()
	cfg.WhatsAppNumber = ""
	c := newClient(&fakeCreator{}, cfg, nil)
	_, err := c.Send(context.Background(), Message{Channel: enums.NotificationChannelWhatsApp, To: "+1", Body: "x"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected not configured, got %v", err)
	}

	var nilClient *Client
	if _, err := nilClient.Send(context.Background(), Message{To: "+1", Body: "x"}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected not configured from nil client, got %v", err)
	}
	if _, err := NewClient(config.TwilioConfig{}, nil); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected not configured without credentials, got %v", err)
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	api := &fakeCreator{err: errors.New("503")}
	c := newClient(api, testConfig(), nil)
	msg := Message{Channel: enums.NotificationChannelSMS, To: "+1", Body: "x"}

	for i := 0; i < 5; i++ {
		if _, err := c.Send(context.Background(), msg); err == nil || errors.Is(err, ErrUnavailable) {
			t.Fatalf("attempt %d: expected provider error, got %v", i, err)
		}
	}
	if _, err := c.Send(context.Background(), msg); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected open breaker, got %v", err)
	}
	if len(api.calls) != 5 {
		t.Fatalf("expected breaker to short-circuit the sixth call, got %d calls", len(api.calls))
	}
}
