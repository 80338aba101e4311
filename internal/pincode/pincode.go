// Package pincode resolves Indian postal codes to district and state for
// address auto-fill. Lookups are best effort: callers treat every error as
// "leave the fields for the shopper to type".
package pincode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"gtech/internal/domain"
)

var (
	ErrInvalidPincode = errors.New("pincode: must be 6 digits")
	ErrNotFound       = errors.New("pincode: no post office found")
)

// Location is what the form needs from a lookup.
type Location struct {
	Pincode  string `json:"pincode"`
	District string `json:"district"`
	State    string `json:"state"`
}

type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

type postOffice struct {
	District string `json:"District"`
	State    string `json:"State"`
}

type result struct {
	Status     string       `json:"Status"`
	PostOffice []postOffice `json:"PostOffice"`
}

func (c *Client) Lookup(ctx context.Context, code string) (*Location, error) {
	code = strings.TrimSpace(code)
	if !domain.ValidPincode(code) {
		return nil, ErrInvalidPincode
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/pincode/"+code, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("pincode lookup failed", zap.String("pincode", code), zap.Error(err))
		return nil, fmt.Errorf("pincode: lookup %s: %w", code, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pincode: lookup %s: status %d", code, resp.StatusCode)
	}

	var results []result
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("pincode: decode: %w", err)
	}
	for _, r := range results {
		if !strings.EqualFold(r.Status, "Success") {
			continue
		}
		for _, po := range r.PostOffice {
			if po.District != "" && po.State != "" {
				return &Location{Pincode: code, District: po.District, State: po.State}, nil
			}
		}
	}
	return nil, ErrNotFound
}
