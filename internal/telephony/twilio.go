package telephony

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioConfig carries everything the outbound adapter needs.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string

	// FromNumber is the caller id, E.164.
	FromNumber string

	// VoiceURL serves TwiML for the answered call.
	VoiceURL string

	// StatusCallbackURL receives call status events. Optional; without a
	// reachable public URL the pull-based refresh endpoint covers status.
	StatusCallbackURL string
}

// TwilioProvider places outbound calls through the Twilio REST API.
//
// NOTE: the generated twilio-go methods do not take a context; the SDK's HTTP
// client enforces its own transport timeout.
type TwilioProvider struct {
	cfg    TwilioConfig
	client *twilio.RestClient
}

func NewTwilioProvider(cfg TwilioConfig) *TwilioProvider {
	p := &TwilioProvider{cfg: cfg}
	if p.Configured() {
		p.client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		})
	}
	return p
}

func (p *TwilioProvider) Name() string { return "twilio" }

func (p *TwilioProvider) Configured() bool {
	return p.cfg.AccountSID != "" && p.cfg.AuthToken != "" && p.cfg.FromNumber != ""
}

// HealthCheck fetches the account resource, the cheapest authenticated call.
func (p *TwilioProvider) HealthCheck(ctx context.Context) error {
	if !p.Configured() {
		return ErrNotConfigured
	}
	if _, err := p.client.Api.FetchAccount(p.cfg.AccountSID); err != nil {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}
	return nil
}

func (p *TwilioProvider) PlaceCall(ctx context.Context, req PlaceCallRequest) (PlaceCallResult, error) {
	if !p.Configured() {
		return PlaceCallResult{}, ErrNotConfigured
	}
	if err := ValidateNumber(req.To); err != nil {
		return PlaceCallResult{}, err
	}

	params := &openapi.CreateCallParams{}
	params.SetTo(req.To)
	params.SetFrom(p.cfg.FromNumber)
	params.SetUrl(p.cfg.VoiceURL)
	if p.cfg.StatusCallbackURL != "" {
		params.SetStatusCallback(p.cfg.StatusCallbackURL)
		params.SetStatusCallbackEvent([]string{"initiated", "ringing", "answered", "completed"})
		params.SetStatusCallbackMethod("POST")
	}

	call, err := p.client.Api.CreateCall(params)
	if err != nil {
		return PlaceCallResult{}, fmt.Errorf("%w: create call: %v", ErrProvider, err)
	}
	if call.Sid == nil || *call.Sid == "" {
		return PlaceCallResult{}, fmt.Errorf("%w: create call returned no sid", ErrProvider)
	}
	return PlaceCallResult{ProviderCallID: *call.Sid}, nil
}

func (p *TwilioProvider) FetchCallStatus(ctx context.Context, providerCallID string) (CallStatusResult, error) {
	if !p.Configured() {
		return CallStatusResult{}, ErrNotConfigured
	}
	if strings.TrimSpace(providerCallID) == "" {
		return CallStatusResult{}, fmt.Errorf("%w: call id is required", ErrProvider)
	}

	call, err := p.client.Api.FetchCall(providerCallID, &openapi.FetchCallParams{})
	if err != nil {
		return CallStatusResult{}, fmt.Errorf("%w: fetch call: %v", ErrProvider, err)
	}

	out := CallStatusResult{}
	if call.Status != nil {
		out.ProviderStatus = *call.Status
	}
	if st, ok := MapProviderStatus(out.ProviderStatus); ok {
		out.Status = st
	}
	if call.Duration != nil {
		if d, err := strconv.Atoi(*call.Duration); err == nil {
			out.DurationSeconds = d
		}
	}
	return out, nil
}

// Disabled is the provider used when credentials are absent.
// Every operation fails with ErrNotConfigured; the process stays up.
type Disabled struct{}

func (Disabled) Name() string                         { return "disabled" }
func (Disabled) Configured() bool                     { return false }
func (Disabled) HealthCheck(context.Context) error    { return ErrNotConfigured }
func (Disabled) PlaceCall(context.Context, PlaceCallRequest) (PlaceCallResult, error) {
	return PlaceCallResult{}, ErrNotConfigured
}
func (Disabled) FetchCallStatus(context.Context, string) (CallStatusResult, error) {
	return CallStatusResult{}, ErrNotConfigured
}
