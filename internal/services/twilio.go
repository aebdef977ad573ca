package services

import (
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// MessageSender delivers a rendered reply to a chat user
type MessageSender interface {
	SendWhatsAppMessage(to string, message string) error
}

// TwilioService sends WhatsApp messages through the Twilio REST API
type TwilioService struct {
	client *twilio.RestClient
	from   string // Twilio WhatsApp number, "whatsapp:+14155238886"
	logger *zap.Logger
}

// NewTwilioService creates a Twilio sender from account credentials
func NewTwilioService(accountSID, authToken, from string, logger *zap.Logger) (*TwilioService, error) {
	if accountSID == "" || authToken == "" || from == "" {
		return nil, fmt.Errorf("missing Twilio credentials")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	if !strings.HasPrefix(from, "whatsapp:") {
		from = "whatsapp:" + from
	}

	return &TwilioService{
		client: client,
		from:   from,
		logger: logger.Named("TwilioService"),
	}, nil
}

// SendWhatsAppMessage sends a WhatsApp message via Twilio
func (t *TwilioService) SendWhatsAppMessage(to string, message string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(fmt.Sprintf("whatsapp:%s", strings.TrimPrefix(to, "whatsapp:")))
	params.SetBody(message)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("send whatsapp message: %w", err)
	}

	if resp.ErrorCode != nil && *resp.ErrorCode != 0 {
		msg := ""
		if resp.ErrorMessage != nil {
			msg = *resp.ErrorMessage
		}
		return fmt.Errorf("twilio error %d: %s", *resp.ErrorCode, msg)
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	t.logger.Debug("WhatsApp message sent", zap.String("to", to), zap.String("sid", sid))
	return nil
}
