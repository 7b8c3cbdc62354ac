package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/pomolit/internal/aggregator"
	"github.com/julianstephens/pomolit/internal/clock"
	"github.com/julianstephens/pomolit/internal/models"
)

type fakeSource struct {
	records []models.Record
	err     error
}

func (f *fakeSource) GetAllRecords() ([]models.Record, error) {
	return f.records, f.err
}

var now = time.Date(2026, 6, 10, 15, 0, 0, 0, time.UTC) // a Wednesday

func day(offset int) time.Time {
	return models.StartOfDay(now).AddDate(0, 0, offset)
}

func setupServer(t *testing.T, src *fakeSource) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	agg := aggregator.New(src, func() int { return 12 })
	return NewServer(agg, &clock.Fixed{T: now})
}

func defaultSource() *fakeSource {
	return &fakeSource{records: []models.Record{
		{ID: "r0", Date: day(0), SessionsCompleted: 4, DailyTarget: 4},
		{ID: "r1", Date: day(-1), SessionsCompleted: 5, DailyTarget: 4},
		{ID: "r2", Date: day(-2), SessionsCompleted: 1, DailyTarget: 4},
		{ID: "r9", Date: day(-9), SessionsCompleted: 6, DailyTarget: 4},
	}}
}

func doGet(t *testing.T, s *Server, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON from %s: %v (%s)", path, err, w.Body.String())
	}
	return w, body
}

func TestHealth(t *testing.T) {
	s := setupServer(t, &fakeSource{err: errors.New("down")})

	w, body := doGet(t, s, "/api/health")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
}

func TestRecords(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantCode  int
		wantCount int
	}{
		{name: "all", path: "/api/records", wantCode: http.StatusOK, wantCount: 4},
		{name: "inclusive range", path: "/api/records?from=2026-06-08&to=2026-06-09", wantCode: http.StatusOK, wantCount: 2},
		{name: "from only", path: "/api/records?from=2026-06-09", wantCode: http.StatusOK, wantCount: 2},
		{name: "to only", path: "/api/records?to=2026-06-01", wantCode: http.StatusOK, wantCount: 1},
		{name: "empty range", path: "/api/records?from=2026-01-01&to=2026-01-31", wantCode: http.StatusOK, wantCount: 0},
		{name: "bad from", path: "/api/records?from=June", wantCode: http.StatusBadRequest},
		{name: "reversed", path: "/api/records?from=2026-06-10&to=2026-06-01", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupServer(t, defaultSource())
			w, body := doGet(t, s, tt.path)
			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d (%v)", tt.wantCode, w.Code, body)
			}
			if tt.wantCode != http.StatusOK {
				if body["success"] != false {
					t.Errorf("expected success=false, got %v", body["success"])
				}
				return
			}
			if got := int(body["count"].(float64)); got != tt.wantCount {
				t.Errorf("expected %d records, got %d", tt.wantCount, got)
			}
			if recs, ok := body["records"].([]any); !ok || len(recs) != tt.wantCount {
				t.Errorf("records array mismatch: %v", body["records"])
			}
		})
	}
}

func TestRecordByDate(t *testing.T) {
	s := setupServer(t, defaultSource())

	w, body := doGet(t, s, "/api/records/2026-06-09")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body["saved"] != true || body["met"] != true {
		t.Errorf("expected saved and met record, got %v", body)
	}
	rec := body["record"].(map[string]any)
	if rec["sessions_completed"].(float64) != 5 {
		t.Errorf("expected 5 sessions, got %v", rec["sessions_completed"])
	}

	_, body = doGet(t, s, "/api/records/2026-05-01")
	if body["saved"] != false {
		t.Errorf("expected unsaved default record, got %v", body)
	}
	rec = body["record"].(map[string]any)
	if rec["daily_target"].(float64) != 12 || rec["sessions_completed"].(float64) != 0 {
		t.Errorf("unexpected default record: %v", rec)
	}

	w, _ = doGet(t, s, "/api/records/yesterday")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad date, got %d", w.Code)
	}
}

func TestStats(t *testing.T) {
	s := setupServer(t, defaultSource())

	w, body := doGet(t, s, "/api/stats")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	stats := body["stats"].(map[string]any)
	checks := map[string]float64{
		"week_sessions":   10,
		"month_sessions":  16,
		"total_sessions":  16,
		"current_streak":  2,
		"longest_streak":  2,
		"days_target_met": 3,
		"days_tracked":    4,
	}
	for k, want := range checks {
		if got := stats[k].(float64); got != want {
			t.Errorf("%s = %v, want %v", k, got, want)
		}
	}

	_, body = doGet(t, s, "/api/stats?date=2026-06-01")
	stats = body["stats"].(map[string]any)
	if got := stats["week_sessions"].(float64); got != 6 {
		t.Errorf("week_sessions for 2026-06-01 = %v, want 6", got)
	}
	if got := stats["current_streak"].(float64); got != 1 {
		t.Errorf("current_streak for 2026-06-01 = %v, want 1", got)
	}
}

func TestStoreFailure(t *testing.T) {
	s := setupServer(t, &fakeSource{err: errors.New("disk gone")})

	w, body := doGet(t, s, "/api/records")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	if body["success"] != false {
		t.Errorf("expected success=false, got %v", body)
	}
}
