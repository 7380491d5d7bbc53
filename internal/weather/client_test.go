package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, srv.URL, "test-key", 2*time.Second)
}

func TestDailyForecastPassThrough(t *testing.T) {
	var gotPath string
	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"list":[{"temp":7.2}]}`))
	})

	body, err := client.DailyForecast(context.Background(), "59.91", "10.75")
	if err != nil {
		t.Fatalf("DailyForecast: %v", err)
	}
	if string(body) != `{"list":[{"temp":7.2}]}` {
		t.Errorf("body = %q, want it returned verbatim", body)
	}
	if gotPath != "/data/2.5/forecast/daily" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery.Get("lat") != "59.91" || gotQuery.Get("lon") != "10.75" {
		t.Errorf("coordinates not forwarded: %v", gotQuery)
	}
	if gotQuery.Get("cnt") != "7" {
		t.Errorf("cnt = %q, want 7", gotQuery.Get("cnt"))
	}
	if gotQuery.Get("appid") != "test-key" {
		t.Errorf("appid = %q, want the configured key", gotQuery.Get("appid"))
	}
}

func TestGeocodeLocationQuery(t *testing.T) {
	var gotPath string
	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Write([]byte(`[{"name":"Oslo"}]`))
	})

	body, err := client.GeocodeLocation(context.Background(), "Oslo")
	if err != nil {
		t.Fatalf("GeocodeLocation: %v", err)
	}
	if string(body) != `[{"name":"Oslo"}]` {
		t.Errorf("body = %q, want it returned verbatim", body)
	}
	if gotPath != "/geo/1.0/direct" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery.Get("q") != "Oslo" {
		t.Errorf("q = %q, want Oslo", gotQuery.Get("q"))
	}
	if gotQuery.Get("limit") != "3" {
		t.Errorf("limit = %q, want 3", gotQuery.Get("limit"))
	}
}

func TestUpstreamErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"cod":401,"message":"Invalid API key"}`, http.StatusUnauthorized)
	})

	_, err := client.CurrentWeather(context.Background(), "0", "0")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
}

func TestUpstreamUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close() // nothing listening any more

	client := NewClient(addr, addr, "test-key", time.Second)
	_, err := client.HourlyForecast(context.Background(), "0", "0")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
}
