// Package fetch downloads scan reports over HTTP so imports can point at a
// URL instead of a local file.
package fetch

import (
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const maxReportSize = 256 << 20 // 256 MiB

// Report downloads a report document, retrying transient failures.
func Report(url string) ([]byte, error) {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.HTTPClient.Timeout = 2 * time.Minute
	client.Logger = nil

	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReportSize+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxReportSize {
		return nil, fmt.Errorf("report at %s exceeds %d bytes", url, maxReportSize)
	}
	return body, nil
}
