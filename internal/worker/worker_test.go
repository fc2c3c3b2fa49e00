// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package worker

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/catalogclient"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/config"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/models"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/queue"
)

func rating(v float64) *float64 { return &v }

// fakeAPI issues numbered tokens and accepts only the newest one.
type fakeAPI struct {
	mu         sync.Mutex
	logins     int
	loginErr   error
	series     []models.Series
	reports    []models.ReportCreate
	expireOnce bool
}

func (f *fakeAPI) Login(_ context.Context, username, password string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loginErr != nil {
		return "", f.loginErr
	}
	if username != "worker" || password != "worker-pass" {
		return "", &catalogclient.StatusError{StatusCode: http.StatusUnauthorized}
	}
	f.logins++
	return "token-" + string(rune('0'+f.logins)), nil
}

func (f *fakeAPI) ListSeries(context.Context, string) ([]models.Series, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.series, nil
}

func (f *fakeAPI) CreateReport(_ context.Context, token string, in models.ReportCreate) (models.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.expireOnce && token == "token-1" {
		return models.Report{}, &catalogclient.StatusError{StatusCode: http.StatusUnauthorized}
	}
	f.reports = append(f.reports, in)
	return models.Report{ID: int64(len(f.reports)), Title: in.Title, Content: in.Content}, nil
}

// fakeJobs hands out queued messages, then reports ErrEmpty.
type fakeJobs struct {
	mu   sync.Mutex
	msgs []models.QueueMessage
	err  error
}

func (f *fakeJobs) Dequeue(ctx context.Context, timeout time.Duration) (models.QueueMessage, error) {
	f.mu.Lock()
	if f.err != nil {
		err := f.err
		f.mu.Unlock()
		time.Sleep(time.Millisecond)
		return models.QueueMessage{}, err
	}
	if len(f.msgs) > 0 {
		m := f.msgs[0]
		f.msgs = f.msgs[1:]
		f.mu.Unlock()
		return m, nil
	}
	f.mu.Unlock()

	select {
	case <-ctx.Done():
		return models.QueueMessage{}, ctx.Err()
	case <-time.After(10 * time.Millisecond):
		return models.QueueMessage{}, queue.ErrEmpty
	}
}

func testConfig() config.WorkerConfig {
	return config.WorkerConfig{Username: "worker", Password: "worker-pass", PollTimeout: 10 * time.Millisecond}
}

func TestBuildDigest(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 3, 4, 5, 6, 7, 0, time.FixedZone("X", 3600))

	tests := []struct {
		name   string
		series []models.Series
		want   string
	}{
		{
			name: "rated",
			series: []models.Series{
				{Title: "a", Rating: rating(8)},
				{Title: "b", Rating: rating(9.5)},
				{Title: "c"},
			},
			want: "Generated at: 2025-03-04T04:06:07Z\nTotal series: 3\nAverage rating: 8.75",
		},
		{
			name:   "none rated",
			series: []models.Series{{Title: "a"}},
			want:   "Generated at: 2025-03-04T04:06:07Z\nTotal series: 1\nAverage rating: n/a",
		},
		{
			name: "empty catalog",
			want: "Generated at: 2025-03-04T04:06:07Z\nTotal series: 0\nAverage rating: n/a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := BuildDigest(tt.series, at)
			if got.Title != DigestTitle {
				t.Errorf("Title = %q", got.Title)
			}
			if got.Content != tt.want {
				t.Errorf("Content =\n%s\nwant\n%s", got.Content, tt.want)
			}
		})
	}
}

func TestHandleJobCreatesReport(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{series: []models.Series{{ID: 1, Rating: rating(7)}}}
	w := New(api, &fakeJobs{}, testConfig())
	if err := w.login(context.Background()); err != nil {
		t.Fatal(err)
	}

	err := w.HandleJob(context.Background(), models.QueueMessage{JobID: "j1", JobType: models.JobTypeReportDigest})
	if err != nil {
		t.Fatalf("HandleJob() error = %v", err)
	}
	if len(api.reports) != 1 || api.reports[0].Title != DigestTitle {
		t.Errorf("reports = %+v", api.reports)
	}
}

func TestHandleJobRelogsInOn401(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{expireOnce: true}
	w := New(api, &fakeJobs{}, testConfig())
	if err := w.login(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := w.HandleJob(context.Background(), models.QueueMessage{JobID: "j1", JobType: models.JobTypeReportDigest}); err != nil {
		t.Fatalf("HandleJob() error = %v", err)
	}
	if api.logins != 2 {
		t.Errorf("logins = %d, want 2", api.logins)
	}
	if len(api.reports) != 1 {
		t.Errorf("reports = %d, want 1", len(api.reports))
	}
}

func TestHandleJobUnknownType(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	w := New(api, &fakeJobs{}, testConfig())
	if err := w.HandleJob(context.Background(), models.QueueMessage{JobID: "j1", JobType: "rebuild_index"}); err != nil {
		t.Fatalf("HandleJob() error = %v", err)
	}
	if len(api.reports) != 0 {
		t.Errorf("unknown job produced %d reports", len(api.reports))
	}
}

func TestServeProcessesQueueUntilCanceled(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	jobs := &fakeJobs{msgs: []models.QueueMessage{
		{JobID: "1", JobType: models.JobTypeReportDigest},
		{JobID: "2", JobType: "other"},
		{JobID: "3", JobType: models.JobTypeReportDigest},
	}}
	w := New(api, jobs, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Serve(ctx) }()

	deadline := time.After(2 * time.Second)
	for {
		api.mu.Lock()
		n := len(api.reports)
		api.mu.Unlock()
		if n == 2 {
			break
		}
		select {
		case <-deadline:
			cancel()
			t.Fatalf("only %d reports created", n)
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not stop")
	}
}

func TestServeReturnsLoginFailure(t *testing.T) {
	t.Parallel()

	loginErr := errors.New("api down")
	w := New(&fakeAPI{loginErr: loginErr}, &fakeJobs{}, testConfig())
	if err := w.Serve(context.Background()); !errors.Is(err, loginErr) {
		t.Errorf("Serve() = %v, want login error", err)
	}
}

func TestServeReturnsQueueOutage(t *testing.T) {
	t.Parallel()

	outage := errors.New("connection refused")
	w := New(&fakeAPI{}, &fakeJobs{err: outage}, testConfig())
	if err := w.Serve(context.Background()); !errors.Is(err, outage) {
		t.Errorf("Serve() = %v, want queue outage", err)
	}
}

func TestServeSkipsMalformedJobs(t *testing.T) {
	t.Parallel()

	jobs := &fakeJobs{err: queue.ErrMalformed}
	w := New(&fakeAPI{}, jobs, testConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := w.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want it to keep running until the deadline", err)
	}
}

func TestString(t *testing.T) {
	t.Parallel()

	if got := New(&fakeAPI{}, &fakeJobs{}, testConfig()).String(); got != "report-worker" {
		t.Errorf("String() = %q", got)
	}
}
