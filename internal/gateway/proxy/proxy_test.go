package proxy

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestFilterHeaders(t *testing.T) {
	in := http.Header{}
	in.Add("Content-Type", "application/json")
	in.Add("X-Custom", "one")
	in.Add("X-Custom", "two")
	in.Add("Host", "gateway.example.com")
	in.Add("Content-Length", "42")

	out := filterHeaders(in, requestExcludedHeaders...)

	if got := out.Get("Host"); got != "" {
		t.Fatalf("Host must be excluded, got %q", got)
	}
	if got := out.Get("Content-Length"); got != "" {
		t.Fatalf("Content-Length must be excluded, got %q", got)
	}
	if got := out.Get("Content-Type"); got != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", got)
	}
	if got := out.Values("X-Custom"); len(got) != 2 || got[0] != "one" || got[1] != "two" {
		t.Fatalf("X-Custom values = %v, want [one two]", got)
	}

	// входящие заголовки не изменяются
	if got := in.Get("Host"); got != "gateway.example.com" {
		t.Fatalf("input headers mutated, Host = %q", got)
	}
}

func TestFilterHeaders_Response(t *testing.T) {
	in := http.Header{}
	in.Add("Transfer-Encoding", "chunked")
	in.Add("Connection", "keep-alive")
	in.Add("Content-Type", "text/plain")

	out := filterHeaders(in, responseExcludedHeaders...)

	if got := out.Get("Transfer-Encoding"); got != "" {
		t.Fatalf("Transfer-Encoding must be excluded, got %q", got)
	}
	if got := out.Get("Connection"); got != "" {
		t.Fatalf("Connection must be excluded, got %q", got)
	}
	if got := out.Get("Content-Type"); got != "text/plain" {
		t.Fatalf("Content-Type = %q, want text/plain", got)
	}
}

func newTestProxy(t *testing.T, flights, tickets, privileges string) *Proxy {
	t.Helper()

	logger, err := zap.NewDevelopment()
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	return NewProxy(NewTable(flights, tickets, privileges), logger)
}

func TestProxy_PassThrough(t *testing.T) {
	var gotMethod, gotPath, gotQuery, gotBody, gotHost, gotCustom string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotHost = r.Host
		gotCustom = r.Header.Get("X-Custom")

		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)

		w.Header().Set("X-Downstream", "yes")
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, "downstream response")
	}))
	defer ts.Close()

	p := newTestProxy(t, ts.URL, "http://t", "http://p")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/Flights/123?seat=1A", strings.NewReader("payload"))
	req.Host = "gateway.example.com"
	req.Header.Set("X-Custom", "value")
	rec := httptest.NewRecorder()

	p.ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusCreated)
	}

	body, _ := io.ReadAll(res.Body)
	if string(body) != "downstream response" {
		t.Fatalf("body = %q, want %q", body, "downstream response")
	}
	if res.Header.Get("X-Downstream") != "yes" {
		t.Fatalf("downstream header lost")
	}

	if gotMethod != http.MethodPost {
		t.Fatalf("method = %q, want POST", gotMethod)
	}
	// регистр пути сохраняется, решение о маршруте регистронезависимое
	if gotPath != "/Flights/123" {
		t.Fatalf("forwarded path = %q, want /Flights/123", gotPath)
	}
	if gotQuery != "seat=1A" {
		t.Fatalf("forwarded query = %q, want seat=1A", gotQuery)
	}
	if gotBody != "payload" {
		t.Fatalf("forwarded body = %q, want payload", gotBody)
	}
	if gotCustom != "value" {
		t.Fatalf("X-Custom = %q, want value", gotCustom)
	}
	// Host клиента не пересылается нижестоящему сервису
	if gotHost == "gateway.example.com" {
		t.Fatalf("inbound Host must not be forwarded")
	}
}

func TestProxy_RelaysDownstreamErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"message":"ticket already exists"}`)
	}))
	defer ts.Close()

	p := newTestProxy(t, "http://f", ts.URL, "http://p")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets", nil)
	rec := httptest.NewRecorder()

	p.ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusConflict)
	}

	body, _ := io.ReadAll(res.Body)
	if string(body) != `{"message":"ticket already exists"}` {
		t.Fatalf("error body must be relayed verbatim, got %q", body)
	}
	if res.Header.Get("Connection") != "" {
		t.Fatalf("Connection header must not be returned to the client")
	}
}

func TestProxy_NotFound(t *testing.T) {
	p := newTestProxy(t, "http://f", "http://t", "http://p")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/unknown/x", nil)
	rec := httptest.NewRecorder()

	p.ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusNotFound)
	}

	body, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(body), "/unknown/x") {
		t.Fatalf("diagnostic body must mention the path, got %q", body)
	}
}

func TestProxy_DownstreamUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	p := newTestProxy(t, url, "http://t", "http://p")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/flights/1", nil)
	rec := httptest.NewRecorder()

	p.ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusBadGateway)
	}
}
