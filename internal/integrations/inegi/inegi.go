package inegi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/voucher-service/internal/config"
	"github.com/Dan9191/voucher-service/internal/models"
)

// Client fetches the UMA indicator from the INEGI indicators API
type Client struct {
	baseURL   string
	apiKey    string
	indicator string
	format    string
	client    *http.Client
	log       *logrus.Logger
}

// observation is one point of the indicator series
type observation struct {
	period string
	value  string
}

// NewClient initializes a new INEGI client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.INEGIURL, "/"),
		apiKey:    cfg.INEGIAPIKey,
		indicator: cfg.INEGIIndicator,
		format:    cfg.INEGIFormat,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// buildURL creates the BIE 2.0 request URL for the configured indicator
func (c *Client) buildURL() string {
	return fmt.Sprintf("%s/INDICATOR/%s/es/0/false/BIE/2.0/%s?type=%s",
		c.baseURL, c.indicator, c.apiKey, c.format)
}

// sendRequest performs the GET request against INEGI
func (c *Client) sendRequest(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debugf("INEGI %s response: %s", c.format, string(body))

	return body, nil
}

// parseJSONResponse extracts observations from Series[0].OBSERVATIONS
func (c *Client) parseJSONResponse(rawBody []byte) ([]observation, error) {
	var payload struct {
		Series []struct {
			Observations []struct {
				TimePeriod string          `json:"TIME_PERIOD"`
				ObsValue   json.RawMessage `json:"OBS_VALUE"`
			} `json:"OBSERVATIONS"`
		} `json:"Series"`
	}
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if len(payload.Series) == 0 {
		return nil, fmt.Errorf("no series data found in response")
	}

	var out []observation
	for _, o := range payload.Series[0].Observations {
		value := string(bytes.Trim(o.ObsValue, `"`))
		if value == "null" {
			value = ""
		}
		out = append(out, observation{period: o.TimePeriod, value: value})
	}
	return out, nil
}

// parseXMLResponse extracts observations from any element carrying
// TIME_PERIOD and OBS_VALUE children
func (c *Client) parseXMLResponse(rawBody []byte) ([]observation, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	var out []observation
	for _, el := range doc.FindElements("//*[TIME_PERIOD]") {
		period := el.FindElement("./TIME_PERIOD")
		value := el.FindElement("./OBS_VALUE")
		if period == nil || value == nil {
			continue
		}
		out = append(out, observation{
			period: strings.TrimSpace(period.Text()),
			value:  strings.TrimSpace(value.Text()),
		})
	}
	return out, nil
}

// latest picks the observation with the most recent period. Every period
// must parse.
func latest(observations []observation) (models.IndexValue, error) {
	if len(observations) == 0 {
		return models.IndexValue{}, fmt.Errorf("no observations found in series data")
	}

	best := -1
	var effective time.Time
	for i, o := range observations {
		if o.period == "" {
			return models.IndexValue{}, fmt.Errorf("invalid value or date in latest observation")
		}
		date, err := ParsePeriod(o.period)
		if err != nil {
			return models.IndexValue{}, err
		}
		if best < 0 || date.After(effective) {
			best, effective = i, date
		}
	}
	obs := observations[best]

	if obs.value == "" {
		return models.IndexValue{}, fmt.Errorf("invalid value or date in latest observation")
	}
	value, err := decimal.NewFromString(obs.value)
	if err != nil {
		return models.IndexValue{}, fmt.Errorf("failed to parse value %q: %w", obs.value, err)
	}
	if !value.IsPositive() {
		return models.IndexValue{}, fmt.Errorf("invalid value in latest observation: %s", obs.value)
	}

	return models.IndexValue{DailyValue: value, EffectiveDate: effective}, nil
}

// ParsePeriod converts an INEGI TIME_PERIOD into a date. YYYY/MM periods start
// on the first day of the month.
func ParsePeriod(period string) (time.Time, error) {
	if t, err := time.Parse("2006/01", period); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", period)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse period %q: %w", period, err)
	}
	return t, nil
}

// FetchLatest retrieves the most recent UMA daily value
func (c *Client) FetchLatest(ctx context.Context) (models.IndexValue, error) {
	if c.apiKey == "" {
		return models.IndexValue{}, fmt.Errorf("INEGI API key not configured")
	}

	body, err := c.sendRequest(ctx)
	if err != nil {
		return models.IndexValue{}, err
	}

	var observations []observation
	if c.format == "xml" {
		observations, err = c.parseXMLResponse(body)
	} else {
		observations, err = c.parseJSONResponse(body)
	}
	if err != nil {
		return models.IndexValue{}, err
	}

	value, err := latest(observations)
	if err != nil {
		return models.IndexValue{}, err
	}

	c.log.Infof("Retrieved UMA value: %s MXN valid from %s", value.DailyValue, value.EffectiveDate.Format("2006-01-02"))
	return value, nil
}
