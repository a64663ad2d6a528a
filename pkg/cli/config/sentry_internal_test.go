package config

import (
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestCaptureError_AttachesGoerrValues(t *testing.T) {
	var events []*sentry.Event
	client, err := sentry.NewClient(sentry.ClientOptions{
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			events = append(events, event)
			return nil
		},
	})
	gt.NoError(t, err)

	hub := sentry.NewHub(client, sentry.NewScope())
	captureError(hub, goerr.New("failed to upload binary", goerr.V("tag", "v1.2.4")))

	gt.A(t, events).Length(1)
	gt.Value(t, events[0].Contexts["goerr"]["tag"]).Equal(any("v1.2.4"))
}
