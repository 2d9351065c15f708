// Package fetch retrieves per-job metrics artifacts from the batch API.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/bytedance/sonic"

	"github.com/skyhaven/go-flight-metrics/internal/metrics/binproto"
	"github.com/skyhaven/go-flight-metrics/internal/util"
)

// Job identifies one run inside a batch.
type Job struct {
	JobID   string `json:"jobID"`
	JobName string `json:"jobName"`
}

type jobsResponse struct {
	Jobs []Job `json:"jobs"`
}

// Client fetches batch job listings and their metrics artifacts.
type Client struct {
	cfg        *Config
	httpClient *http.Client
	attempts   uint
	delay      time.Duration
}

// NewClient creates a fetch client for the configured batch API.
func NewClient(cfg *Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		attempts:   3,
		delay:      time.Second,
	}
}

// ListJobs returns the jobs belonging to the configured batch.
func (c *Client) ListJobs(ctx context.Context) ([]Job, error) {
	url := fmt.Sprintf("%s/projects/%s/batches/%s/jobs",
		strings.TrimRight(c.cfg.APIURL, "/"), c.cfg.ProjectID, c.cfg.BatchID)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("list batch jobs: %w", err)
	}

	var resp jobsResponse
	if err := sonic.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse job list: %w", err)
	}
	return resp.Jobs, nil
}

// FetchJobMetrics retrieves and decodes one job's metrics artifact.
func (c *Client) FetchJobMetrics(ctx context.Context, jobID string) (*binproto.JobMetrics, error) {
	url := fmt.Sprintf("%s/projects/%s/batches/%s/jobs/%s/metrics",
		strings.TrimRight(c.cfg.APIURL, "/"), c.cfg.ProjectID, c.cfg.BatchID, jobID)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch metrics for job %s: %w", jobID, err)
	}
	return binproto.Unmarshal(body)
}

// FetchJobMetricsByBatch lists the batch's jobs and fetches every job's
// metrics, keyed by job ID. Jobs whose metrics cannot be fetched are
// logged and skipped.
func (c *Client) FetchJobMetricsByBatch(ctx context.Context) (map[string]*binproto.JobMetrics, error) {
	jobs, err := c.ListJobs(ctx)
	if err != nil {
		return nil, err
	}
	util.LogInfof("Fetching metrics for %d jobs in batch %s", len(jobs), c.cfg.BatchID)

	result := make(map[string]*binproto.JobMetrics, len(jobs))
	for _, job := range jobs {
		jm, err := c.FetchJobMetrics(ctx, job.JobID)
		if err != nil {
			util.LogWarnf("Skipping job %s (%s): %v", job.JobID, job.JobName, err)
			continue
		}
		result[job.JobID] = jm
	}
	return result, nil
}

// get performs an authenticated GET with retries on transient failures.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Authorization", "Bearer "+c.cfg.AuthToken)

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				err := fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
				if resp.StatusCode >= 400 && resp.StatusCode < 500 {
					return retry.Unrecoverable(err)
				}
				return err
			}

			body, err = io.ReadAll(resp.Body)
			return err
		},
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.LastErrorOnly(true),
	)
	return body, err
}
