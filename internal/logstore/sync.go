package logstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const syncTimeout = 5 * time.Second

// Syncer pushes the serialized store to a remote collector. Sync is best
// effort: callers log failures and move on, nothing retries.
type Syncer struct {
	url    string
	client *http.Client
	log    logrus.FieldLogger
}

// NewSyncer creates a syncer targeting url. An empty url yields a disabled
// syncer whose Sync is a no-op.
func NewSyncer(url string) *Syncer {
	return &Syncer{
		url:    url,
		client: &http.Client{Timeout: syncTimeout},
		log:    logrus.StandardLogger(),
	}
}

// Enabled reports whether a sync target is configured.
func (sy *Syncer) Enabled() bool {
	return sy.url != ""
}

// Sync POSTs the store snapshot as JSON. A non-2xx response is an error; the
// store on disk is never touched, so a failed sync loses nothing.
func (sy *Syncer) Sync(ctx context.Context, s *Store) error {
	if !sy.Enabled() {
		return nil
	}

	body, err := json.Marshal(s.Snapshot())
	if err != nil {
		return fmt.Errorf("logstore: marshal for sync: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sy.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("logstore: build sync request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := sy.client.Do(req)
	if err != nil {
		return fmt.Errorf("logstore: sync %s: %w", sy.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("logstore: sync %s: unexpected status %s", sy.url, resp.Status)
	}

	sy.log.WithField("entries", s.Len()).Debug("logstore: synced")
	return nil
}
