// Package virustotal is a small client for the VirusTotal v2 file API.
package virustotal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://www.virustotal.com"

	// DefaultAttempts and DefaultInterval bound the report poll to one minute
	DefaultAttempts = 4
	DefaultInterval = 15 * time.Second
)

// Report is the subset of /file/report the bot uses
type Report struct {
	ResponseCode int                   `json:"response_code"`
	ScanID       string                `json:"scan_id"`
	SHA256       string                `json:"sha256"`
	Positives    int                   `json:"positives"`
	Total        int                   `json:"total"`
	Permalink    string                `json:"permalink"`
	Scans        map[string]EngineScan `json:"scans"`
}

// EngineScan is one engine's verdict
type EngineScan struct {
	Detected bool   `json:"detected"`
	Result   string `json:"result"`
}

// Completed reports whether the scan finished
func (r *Report) Completed() bool {
	return r.ResponseCode == 1
}

// Engines returns the number of engines that scanned the file
func (r *Report) Engines() int {
	if n := len(r.Scans); n > 0 {
		return n
	}
	return r.Total
}

// Safety returns the safety percentage of the report
func (r *Report) Safety() float64 {
	return SafetyPercentage(r.Engines(), r.Positives)
}

// SafetyPercentage returns (total-positives)/total*100 rounded to one decimal.
// A report with no engines is 0% safe.
func SafetyPercentage(total, positives int) float64 {
	if total <= 0 {
		return 0
	}
	pct := float64(total-positives) / float64(total) * 100
	return math.Round(pct*10) / 10
}

type submitResponse struct {
	ResponseCode int    `json:"response_code"`
	ScanID       string `json:"scan_id"`
	VerboseMsg   string `json:"verbose_msg"`
}

// Client talks to VirusTotal. The public API allows four requests per
// minute, so every call waits on a shared limiter.
type Client struct {
	BaseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter

	Attempts int
	Interval time.Duration
}

// NewClient creates a client for the public API
func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		limiter:    rate.NewLimiter(rate.Every(15*time.Second), 4),
		Attempts:   DefaultAttempts,
		Interval:   DefaultInterval,
	}
}

// SetLimiter replaces the request limiter
func (c *Client) SetLimiter(l *rate.Limiter) {
	c.limiter = l
}

// Submit uploads the file at path and returns its scan id
func (c *Client) Submit(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	part, err := form.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", err
	}
	if err := form.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/vtapi/v2/file/scan", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("apikey", c.apiKey)

	var out submitResponse
	if err := c.do(ctx, req, &out); err != nil {
		return "", err
	}
	if out.ScanID == "" {
		return "", fmt.Errorf("virustotal returned no scan id: %s", out.VerboseMsg)
	}

	logger.Debug(fmt.Sprintf("Archivo enviado a VirusTotal: %s", out.ScanID), "VirusTotal")
	return out.ScanID, nil
}

// Report fetches the report for a scan id. The report may not be completed yet.
func (c *Client) Report(ctx context.Context, scanID string) (*Report, error) {
	q := url.Values{}
	q.Set("apikey", c.apiKey)
	q.Set("resource", scanID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/vtapi/v2/file/report?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var report Report
	if err := c.do(ctx, req, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// WaitForReport polls Report every Interval, up to Attempts times, and
// returns the first completed report. It fails with a ScanTimeout error when
// the budget runs out.
func (c *Client) WaitForReport(ctx context.Context, scanID string) (*Report, error) {
	for attempt := 1; attempt <= c.Attempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.Interval):
		}

		report, err := c.Report(ctx, scanID)
		if err != nil {
			return nil, err
		}
		if report.Completed() {
			return report, nil
		}
		logger.Debug(fmt.Sprintf("Reporte %s pendiente (intento %d/%d)", scanID, attempt, c.Attempts), "VirusTotal")
	}

	return nil, errors.Wrap(errors.KindScanTimeout,
		fmt.Errorf("scan %s not completed after %d attempts", scanID, c.Attempts), "")
}

func (c *Client) do(ctx context.Context, req *http.Request, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("virustotal %s: status %d", req.URL.Path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
