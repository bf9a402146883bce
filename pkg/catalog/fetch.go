package catalog

import (
	"context"
	"io"
	stdlog "log"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/net/html"

	"github.com/skygazr/eclipsetrack/internal/utils"
)

const (
	userAgent    = "eclipsetrack (+https://github.com/skygazr/eclipsetrack)"
	acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

	fetchAttempts   = 3
	fetchBackoffMin = 1 * time.Second
	fetchTimeout    = 10 * time.Second
)

// TextFetcher is the minimal fetch surface the catalog and the regional
// resolver need. *Fetcher is the production implementation.
type TextFetcher interface {
	FetchText(ctx context.Context, url string) (string, bool)
}

// Fetcher retrieves catalog pages over HTTP with a bounded retry budget
// and exponential backoff.
type Fetcher struct {
	client *retryablehttp.Client
}

// NewFetcher builds a Fetcher that attempts each URL up to three times,
// backing off 1s, then 2s, between attempts. A transport error or any
// non-200 status counts as a failed attempt.
func NewFetcher() *Fetcher {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = stdlog.New(io.Discard, "", 0)
	retryClient.RetryMax = fetchAttempts - 1
	retryClient.RetryWaitMin = fetchBackoffMin
	retryClient.RetryWaitMax = fetchBackoffMin << (fetchAttempts - 1)
	retryClient.HTTPClient.Timeout = fetchTimeout
	retryClient.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			return true, nil
		}
		return resp.StatusCode != http.StatusOK, nil
	}
	return &Fetcher{client: retryClient}
}

// FetchText returns the body of url, or ok=false once the retry budget
// is exhausted. A dead source is never fatal: it only means no new data
// from that page this cycle.
func (f *Fetcher) FetchText(ctx context.Context, url string) (string, bool) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		utils.Log.Warn("Could not build request for ", url, ": ", err)
		return "", false
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", "en-US,en;q=0.7")

	resp, err := f.client.Do(req)
	if err != nil {
		utils.Log.Debug("Fetch failed for ", url, " after ", fetchAttempts, " attempts: ", err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		utils.Log.Debug("Fetch of ", url, " returned HTTP ", resp.StatusCode)
		return "", false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		utils.Log.Debug("Could not read body of ", url, ": ", err)
		return "", false
	}

	text := string(body)
	if title, ok := pageTitle(text); ok && title != "" {
		utils.Log.Debug("Fetched ", url, " (", title, ")")
	}
	return text, true
}

func pageTitle(body string) (string, bool) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return "", false
	}
	return findTitle(doc)
}

func findTitle(n *html.Node) (string, bool) {
	if n.Type == html.ElementNode && n.Data == "title" {
		if n.FirstChild != nil {
			return strings.TrimSpace(n.FirstChild.Data), true
		}
		return "", true
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title, ok := findTitle(c); ok {
			return title, ok
		}
	}

	return "", false
}
