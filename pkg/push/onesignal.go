package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const defaultOneSignalBaseURL = "https://onesignal.com"

// OneSignalPusher targets users through the OneSignal REST API by the `user_id`
// tag the client app sets at login.
type OneSignalPusher struct {
	BaseURL string
	AppID   string
	APIKey  string
	client  *http.Client
}

func NewOneSignalPusher(appID, apiKey string) *OneSignalPusher {
	return &OneSignalPusher{
		BaseURL: defaultOneSignalBaseURL,
		AppID:   appID,
		APIKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type oneSignalFilter struct {
	Field    string `json:"field"`
	Key      string `json:"key"`
	Relation string `json:"relation"`
	Value    string `json:"value"`
}

type oneSignalReq struct {
	AppID    string            `json:"app_id"`
	Headings map[string]string `json:"headings"`
	Contents map[string]string `json:"contents"`
	Filters  []oneSignalFilter `json:"filters"`
	Data     map[string]string `json:"data,omitempty"`
}

func (p *OneSignalPusher) Send(ctx context.Context, n Notification) error {
	payload := oneSignalReq{
		AppID:    p.AppID,
		Headings: map[string]string{"en": n.Title},
		Contents: map[string]string{"en": n.Body},
		Filters: []oneSignalFilter{
			{Field: "tag", Key: "user_id", Relation: "=", Value: strconv.FormatUint(uint64(n.UserID), 10)},
		},
	}
	if n.ConnectionID != 0 {
		payload.Data = map[string]string{"connection_id": strconv.FormatUint(uint64(n.ConnectionID), 10)}
	}
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/api/v1/notifications", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+p.APIKey)
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("onesignal: %d %s", resp.StatusCode, string(respBody))
	}
	return nil
}
