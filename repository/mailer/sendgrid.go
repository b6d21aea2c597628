package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const sendgridURL = "https://api.sendgrid.com/v3/mail/send"

type sendgrid struct {
	apiKey string
	from   string
	client *http.Client
}

func NewSendGrid(apiKey, from string) Mailer {
	return &sendgrid{apiKey: apiKey, from: from, client: &http.Client{Timeout: 10 * time.Second}}
}

func (s *sendgrid) Send(ctx context.Context, m Message) error {
	if s.apiKey == "" {
		return errors.New("sendgrid api key not configured")
	}

	body := map[string]any{
		"personalizations": []map[string]any{
			{"to": []map[string]string{{"email": m.To}}},
		},
		"from":    map[string]string{"email": s.from},
		"subject": m.Subject,
		"content": []map[string]string{{"type": "text/html", "value": m.HTML}},
	}
	b, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendgridURL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send failed: %s", resp.Status)
	}
	return nil
}
