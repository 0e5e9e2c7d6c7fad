package sink

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"copytrade/internal/models"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

// Sink is where the relay hands each upstream event. Delivery is best-effort,
// at-most-once: the relay logs a failed Forward and moves on.
type Sink interface {
	Forward(ctx context.Context, evt models.PositionEvent) error
}

// HTTP posts {"trade": "<event json>"} to the local slave EA, matching the
// frame the EA already parses.
type HTTP struct {
	url    string
	client *http.Client
}

func NewHTTP(url string) *HTTP {
	return &HTTP{url: url, client: &http.Client{}}
}

func (h *HTTP) Forward(ctx context.Context, evt models.PositionEvent) error {
	payload, err := sonic.Marshal(evt)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}
	body, err := sonic.Marshal(map[string]string{"trade": string(payload)})
	if err != nil {
		return errors.Wrap(err, "marshal envelope")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "post to slave EA")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("slave EA returned status %d", resp.StatusCode)
	}
	return nil
}
