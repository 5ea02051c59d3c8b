// Package publish sends experiment results to a remote collector over HTTP.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"tsexp/internal/results"
)

const resultsPath = "/api/v1/results"

type Client struct {
	key, secret, base string
	rest              *resty.Client
}

func New(key, secret, base string, timeout time.Duration) *Client {
	r := resty.New()
	if timeout > 0 {
		r.SetTimeout(timeout)
	} else {
		r.SetTimeout(5 * time.Second) // default fallback
	}
	return &Client{key, secret, base, r}
}

// Envelope is the body posted to the collector.
type Envelope struct {
	Phase   string             `json:"phase"` // "train" or "test"
	Summary string             `json:"summary"`
	Results *results.Results   `json:"results"`
	Metrics map[string]float64 `json:"metrics"`
}

type publishResp struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// Publish posts r for the given phase. When a key is configured the request carries
// the key, a timestamp and a signature over the body.
func (c *Client) Publish(ctx context.Context, phase string, r *results.Results) error {
	if r == nil {
		return fmt.Errorf("publish %s: nil results", phase)
	}
	body, err := json.Marshal(Envelope{
		Phase:   phase,
		Summary: r.Summary(),
		Results: r,
		Metrics: map[string]float64{
			"accuracy":        r.Accuracy(),
			"mean_latency_ms": float64(r.MeanLatency()) / float64(time.Millisecond),
		},
	})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	req := c.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body)
	if c.key != "" {
		ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
		req.SetHeader("api-key", c.key).
			SetHeader("timestamp", ts).
			SetHeader("sign", Sign(c.secret, ts, c.key, body))
	}

	resp := &publishResp{}
	httpResp, err := req.SetResult(resp).Post(c.base + resultsPath)
	if err != nil {
		return fmt.Errorf("publish %s results: %w", phase, err)
	}
	if httpResp.IsError() {
		return fmt.Errorf("publish %s results: http %d", phase, httpResp.StatusCode())
	}
	if resp.Code != 0 {
		return fmt.Errorf("collector: %d %s", resp.Code, resp.Msg)
	}

	log.Debug().
		Str("phase", phase).
		Str("run_id", r.Details.RunID).
		Msg("Results published")
	return nil
}
