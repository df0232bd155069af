package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	arbapp "github.com/arbstream/arbstream/business/arbitrage/app"
	"github.com/arbstream/arbstream/business/arbitrage/domain"
	"github.com/arbstream/arbstream/internal/apperror"
	"github.com/arbstream/arbstream/internal/logger"
)

type stubScanner struct {
	mu       sync.Mutex
	last     *arbapp.ScanResult
	scanning bool
	scans    int
}

func (s *stubScanner) Scan(ctx context.Context) (*arbapp.ScanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scanning {
		return nil, apperror.Conflict(apperror.CodeScanInProgress, "a scan is already running")
	}
	s.scans++
	return s.last, nil
}

func (s *stubScanner) LastResult() (*arbapp.ScanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil, apperror.NotFound(apperror.CodeNoScanResult, "no scan has completed yet")
	}
	return s.last, nil
}

func (s *stubScanner) Scanning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scanning
}

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func newTestServer(t *testing.T, scanner *stubScanner) *httptest.Server {
	t.Helper()
	log := testLogger()
	srv := NewServer(Config{Port: 0, CORSOrigins: []string{"*"}}, scanner, NewHub(log), log)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func sampleResult() *arbapp.ScanResult {
	opp := domain.BuildOpportunity("Ajax vs PSV", []domain.Outcome{
		{Bookmaker: "TOTO", Odds: 2.1, Market: domain.MarketHomeWin},
		{Bookmaker: "Bet365", Odds: 3.6, Market: domain.MarketDraw},
		{Bookmaker: "Unibet", Odds: 4.4, Market: domain.MarketAwayWin},
	}, 1000)
	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &arbapp.ScanResult{
		StartedAt:     started,
		FinishedAt:    started.Add(2 * time.Second),
		EventsScanned: 3,
		Opportunities: []*domain.Opportunity{opp},
		SourceErrors:  1,
	}
}

func getJSON(t *testing.T, url string, into any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode
}

func TestHandleOpportunities_Empty(t *testing.T) {
	ts := newTestServer(t, &stubScanner{})

	var body struct {
		Opportunities []json.RawMessage `json:"opportunities"`
		Count         int               `json:"count"`
	}
	status := getJSON(t, ts.URL+"/api/v1/opportunities", &body)

	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if body.Count != 0 || len(body.Opportunities) != 0 {
		t.Errorf("expected empty response, got count=%d", body.Count)
	}
}

func TestHandleOpportunities_ReturnsLastScan(t *testing.T) {
	ts := newTestServer(t, &stubScanner{last: sampleResult()})

	var body struct {
		Opportunities []struct {
			ID           string  `json:"id"`
			EventName    string  `json:"event_name"`
			ProfitMargin float64 `json:"profit_margin"`
		} `json:"opportunities"`
		Count int `json:"count"`
	}
	status := getJSON(t, ts.URL+"/api/v1/opportunities", &body)

	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if body.Count != 1 || len(body.Opportunities) != 1 {
		t.Fatalf("count = %d, want 1", body.Count)
	}
	opp := body.Opportunities[0]
	if opp.EventName != "Ajax vs PSV" {
		t.Errorf("event_name = %q", opp.EventName)
	}
	if opp.ID == "" {
		t.Error("opportunity id should not be empty")
	}
	if opp.ProfitMargin <= 0 {
		t.Errorf("profit_margin = %f, want > 0", opp.ProfitMargin)
	}
}

func TestHandleStatus(t *testing.T) {
	t.Run("before any scan", func(t *testing.T) {
		ts := newTestServer(t, &stubScanner{})

		var body struct {
			LastScan           *time.Time `json:"last_scan"`
			OpportunitiesCount int        `json:"opportunities_count"`
			ScanInProgress     bool       `json:"scan_in_progress"`
		}
		status := getJSON(t, ts.URL+"/api/v1/status", &body)

		if status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		if body.LastScan != nil {
			t.Errorf("last_scan = %v, want null", body.LastScan)
		}
		if body.ScanInProgress {
			t.Error("scan_in_progress should be false")
		}
	})

	t.Run("after a scan", func(t *testing.T) {
		result := sampleResult()
		ts := newTestServer(t, &stubScanner{last: result})

		var body struct {
			LastScan           *time.Time `json:"last_scan"`
			OpportunitiesCount int        `json:"opportunities_count"`
			ScanInProgress     bool       `json:"scan_in_progress"`
		}
		getJSON(t, ts.URL+"/api/v1/status", &body)

		if body.LastScan == nil || !body.LastScan.Equal(result.FinishedAt) {
			t.Errorf("last_scan = %v, want %v", body.LastScan, result.FinishedAt)
		}
		if body.OpportunitiesCount != 1 {
			t.Errorf("opportunities_count = %d, want 1", body.OpportunitiesCount)
		}
	})

	t.Run("while scanning", func(t *testing.T) {
		ts := newTestServer(t, &stubScanner{scanning: true})

		var body struct {
			ScanInProgress bool `json:"scan_in_progress"`
		}
		getJSON(t, ts.URL+"/api/v1/status", &body)

		if !body.ScanInProgress {
			t.Error("scan_in_progress should be true")
		}
	})
}

func TestHandleScan_Accepted(t *testing.T) {
	scanner := &stubScanner{}
	ts := newTestServer(t, scanner)

	resp, err := http.Post(ts.URL+"/api/v1/scan", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /scan: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", resp.StatusCode)
	}

	// The scan runs in the background; give it a moment.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		scanner.mu.Lock()
		scans := scanner.scans
		scanner.mu.Unlock()
		if scans == 1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("background scan never ran")
}

func TestHandleScan_ConflictWhileRunning(t *testing.T) {
	ts := newTestServer(t, &stubScanner{scanning: true})

	resp, err := http.Post(ts.URL+"/api/v1/scan", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /scan: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error.Code != string(apperror.CodeScanInProgress) {
		t.Errorf("error code = %q, want %q", body.Error.Code, apperror.CodeScanInProgress)
	}
}

func TestHandleHealth(t *testing.T) {
	ts := newTestServer(t, &stubScanner{})

	var body map[string]string
	status := getJSON(t, ts.URL+"/health", &body)

	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if body["status"] != "ok" {
		t.Errorf("status body = %q, want ok", body["status"])
	}
}
