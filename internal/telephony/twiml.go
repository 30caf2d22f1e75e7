package telephony

import (
	"bytes"
	"encoding/xml"
	"errors"
	"strings"
)

// Minimal TwiML builder for the voice webhook.
// It intentionally avoids the provider SDK; the only verbs this system ever
// speaks are Say and Hangup.

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any    `xml:",any"`
}

type twimlSay struct {
	XMLName  xml.Name `xml:"Say"`
	Voice    string   `xml:"voice,attr,omitempty"`
	Language string   `xml:"language,attr,omitempty"`
	Text     string   `xml:",chardata"`
}

type twimlHangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

// DefaultAnnouncement is spoken on every answered call.
const DefaultAnnouncement = "Hello! This is an automated test call from the autodialer system. " +
	"This is a demonstration call for testing purposes. Thank you and goodbye!"

// RenderAnnouncement produces the Say + Hangup TwiML document.
func RenderAnnouncement(message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", errors.New("telephony: announcement message is required")
	}

	r := twimlResponse{
		Verbs: []any{
			twimlSay{Voice: "alice", Language: "en-US", Text: message},
			twimlHangup{},
		},
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
