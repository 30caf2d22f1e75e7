package telephony

import (
	"net/http"
	"strconv"
	"strings"
)

// StatusCallbackForm captures the subset of Twilio's status callback fields
// this system consumes. Twilio posts application/x-www-form-urlencoded.
//
// Parsing only; what to do with the update is the API layer's business.

type StatusCallbackForm struct {
	CallSid         string
	CallStatus      string
	CallDurationSec int
	To              string
}

func ParseStatusCallback(r *http.Request) (StatusCallbackForm, error) {
	if err := r.ParseForm(); err != nil {
		return StatusCallbackForm{}, err
	}
	f := StatusCallbackForm{
		CallSid:    strings.TrimSpace(r.PostFormValue("CallSid")),
		CallStatus: strings.TrimSpace(r.PostFormValue("CallStatus")),
		To:         strings.TrimSpace(r.PostFormValue("To")),
	}
	if v := strings.TrimSpace(r.PostFormValue("CallDuration")); v != "" {
		if d, err := strconv.Atoi(v); err == nil {
			f.CallDurationSec = d
		}
	}
	return f, nil
}
