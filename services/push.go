// services/push.go
package services

import (
	"bytes"
	gocontext "context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
)

// PushSender delivers a notification to a set of device tokens. Delivery
// is best effort and at-least-once; callers must tolerate duplicates.
type PushSender interface {
	Send(ctx gocontext.Context, tokens []string, title, body string, data map[string]string) error
}

// PushService sends notifications through the Expo push gateway.
type PushService struct {
	context.DefaultService

	endpoint string
	client   *http.Client
}

const PUSH_SVC = "push_svc"

const defaultPushEndpoint = "https://exp.host/--/api/v2/push/send"

func (svc PushService) Id() string {
	return PUSH_SVC
}

func (svc *PushService) Configure(ctx *context.Context) error {
	svc.endpoint = os.Getenv("PUSH_ENDPOINT")
	if svc.endpoint == "" {
		svc.endpoint = defaultPushEndpoint
	}
	svc.client = &http.Client{Timeout: 10 * time.Second}
	return svc.DefaultService.Configure(ctx)
}

func (svc *PushService) Start() error {
	return nil
}

type expoPushMessage struct {
	To    []string          `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

func (svc *PushService) Send(ctx gocontext.Context, tokens []string, title, body string, data map[string]string) error {
	if len(tokens) == 0 {
		return nil
	}

	payload, err := json.Marshal(expoPushMessage{
		To:    tokens,
		Title: title,
		Body:  body,
		Data:  data,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, svc.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := svc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("push gateway returned %d", resp.StatusCode)
	}

	log.WithFields(log.Fields{
		"tokens": len(tokens),
		"title":  title,
	}).Debug("Push notification sent")
	return nil
}

// decodeTokenSet parses a stored device token array. Corrupt or empty
// payloads decode to an empty set.
func decodeTokenSet(raw json.RawMessage) []string {
	if raw == nil {
		return nil
	}
	var tokens []string
	if err := json.Unmarshal(raw, &tokens); err != nil {
		return nil
	}
	return tokens
}

func encodeTokenSet(tokens []string) json.RawMessage {
	raw, err := json.Marshal(tokens)
	if err != nil {
		return json.RawMessage("[]")
	}
	return raw
}
