package notify

import (
	"context"
	"errors"

	"github.com/twilio/twilio-go"
	studio "github.com/twilio/twilio-go/rest/studio/v2"
)

var ErrMissingTwilioConfig = errors.New("missing Twilio configuration variables")

type TwilioCredentials struct {
	AccountSID string
	AuthToken  string
	FlowSID    string
	ToPhone    string
	FromPhone  string
}

func (c TwilioCredentials) complete() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.FlowSID != "" && c.ToPhone != "" && c.FromPhone != ""
}

// flowExecutor is the subset of the Studio v2 API the sender uses.
type flowExecutor interface {
	CreateExecution(flowSid string, params *studio.CreateExecutionParams) (*studio.StudioV2Execution, error)
}

// TwilioFlowSender starts a Studio flow execution (the phone call) with the
// alert text passed as the custom_message flow parameter.
type TwilioFlowSender struct {
	creds TwilioCredentials
	flows flowExecutor
}

func NewTwilioFlowSender(creds TwilioCredentials) *TwilioFlowSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: creds.AccountSID,
		Password: creds.AuthToken,
	})
	return &TwilioFlowSender{creds: creds, flows: client.StudioV2}
}

// Send returns the execution SID. The Twilio client takes no context, so the
// call is abandoned (not cancelled) when ctx expires.
func (s *TwilioFlowSender) Send(ctx context.Context, body string) (string, error) {
	if !s.creds.complete() {
		return "", ErrMissingTwilioConfig
	}

	params := &studio.CreateExecutionParams{}
	params.SetTo(s.creds.ToPhone)
	params.SetFrom(s.creds.FromPhone)
	params.SetParameters(map[string]interface{}{"custom_message": body})

	type result struct {
		sid string
		err error
	}
	done := make(chan result, 1)
	go func() {
		exec, err := s.flows.CreateExecution(s.creds.FlowSID, params)
		if err != nil {
			done <- result{err: err}
			return
		}
		var sid string
		if exec != nil && exec.Sid != nil {
			sid = *exec.Sid
		}
		done <- result{sid: sid}
	}()

	select {
	case r := <-done:
		return r.sid, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
