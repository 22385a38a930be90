package headhunter

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/spigell/jobhunter/internal/jobs"
)

func vacancyPage(page, pages int, items ...map[string]any) map[string]any {
	return map[string]any{
		"items":    items,
		"found":    pages * len(items),
		"pages":    pages,
		"page":     page,
		"per_page": len(items),
	}
}

func newTestServer(t *testing.T, pages []map[string]any, gzipped bool) (*httptest.Server, *[]string) {
	t.Helper()

	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != SearchPath {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		queries = append(queries, r.URL.RawQuery)

		page := 0
		fmt.Sscanf(r.URL.Query().Get("page"), "%d", &page)
		body, err := json.Marshal(pages[page])
		if err != nil {
			t.Fatalf("marshal page: %v", err)
		}

		if gzipped {
			var buf bytes.Buffer
			gz := gzip.NewWriter(&buf)
			_, _ = gz.Write(body)
			_ = gz.Close()
			w.Header().Set("Content-Encoding", "gzip")
			body = buf.Bytes()
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	return srv, &queries
}

func TestFetchPagesAndConverts(t *testing.T) {
	t.Parallel()

	pages := []map[string]any{
		vacancyPage(0, 2, map[string]any{
			"id":            "1",
			"name":          "Go Developer",
			"area":          map[string]any{"id": "1", "name": "Moscow"},
			"employer":      map[string]any{"id": "emp1", "name": "Acme"},
			"salary":        map[string]any{"from": 200000, "to": 300000, "currency": "RUR"},
			"alternate_url": "https://hh.ru/vacancy/1",
			"snippet": map[string]any{
				"requirement":    "Strong <highlighttext>Go</highlighttext> skills",
				"responsibility": "Build services",
			},
		}),
		vacancyPage(1, 2, map[string]any{
			"id":       "2",
			"name":     "Python Developer",
			"employer": map[string]any{"id": "emp2", "name": "Globex"},
		}),
	}

	for _, gzipped := range []bool{false, true} {
		srv, queries := newTestServer(t, pages, gzipped)
		client := New(Options{APIURL: srv.URL}, nil)

		got, err := client.Fetch(context.Background(), jobs.SearchParams{Query: "developer"})
		if err != nil {
			t.Fatalf("fetch: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 postings, got %d", len(got))
		}
		if len(*queries) != 2 {
			t.Fatalf("expected 2 requests, got %d", len(*queries))
		}

		first := got[0]
		if first.Title != "Go Developer" || first.Company != "Acme" || first.Location != "Moscow" {
			t.Fatalf("unexpected posting: %+v", first)
		}
		if first.SalaryRange == nil || *first.SalaryRange != "200000-300000 RUR" {
			t.Fatalf("unexpected salary: %v", first.SalaryRange)
		}
		if first.URL == nil || *first.URL != "https://hh.ru/vacancy/1" {
			t.Fatalf("unexpected url: %v", first.URL)
		}
		if first.Description != "Build services Strong Go skills" {
			t.Fatalf("unexpected description: %q", first.Description)
		}
		if first.Source != Name {
			t.Fatalf("unexpected source: %q", first.Source)
		}
		if got[1].SalaryRange != nil {
			t.Fatalf("expected no salary for second posting")
		}
	}
}

func TestFetchStopsAtMaxPages(t *testing.T) {
	t.Parallel()

	pages := []map[string]any{
		vacancyPage(0, 3, map[string]any{"id": "1", "name": "A"}),
		vacancyPage(1, 3, map[string]any{"id": "2", "name": "B"}),
		vacancyPage(2, 3, map[string]any{"id": "3", "name": "C"}),
	}
	srv, queries := newTestServer(t, pages, false)

	got, err := New(Options{APIURL: srv.URL, MaxPages: 2}, nil).Fetch(context.Background(), jobs.SearchParams{Query: "x"})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 2 || len(*queries) != 2 {
		t.Fatalf("expected 2 postings from 2 requests, got %d from %d", len(got), len(*queries))
	}
}

func TestFetchBadStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	if _, err := New(Options{APIURL: srv.URL}, nil).Fetch(context.Background(), jobs.SearchParams{Query: "x"}); err == nil {
		t.Fatalf("expected error on bad status")
	}
}

func TestBuildParams(t *testing.T) {
	t.Parallel()

	params := &SearchParams{
		Text:           "golang",
		Areas:          []int{1, 2},
		Salary:         150000,
		OnlyWithSalary: true,
		Employments:    []string{"full"},
		PerPage:        "100",
	}

	q := buildParams(params)

	expected := map[string][]string{
		"text":             {"golang"},
		"area":             {"1", "2"},
		"salary":           {"150000"},
		"only_with_salary": {"true"},
		"employment":       {"full"},
		"per_page":         {"100"},
	}
	if !reflect.DeepEqual(map[string][]string(q), expected) {
		t.Fatalf("unexpected query: %v", q)
	}
}

func TestSearchParamsMapping(t *testing.T) {
	t.Parallel()

	salaryMin := 100000
	client := New(Options{}, nil)

	params := client.searchParams(jobs.SearchParams{
		Query:     "Data Analyst",
		Location:  "Kazan",
		SalaryMin: &salaryMin,
		JobType:   "Part-Time",
	})
	if params.Text != "Data Analyst Kazan" {
		t.Fatalf("unexpected text: %q", params.Text)
	}
	if params.Salary != salaryMin || !params.OnlyWithSalary {
		t.Fatalf("unexpected salary params: %+v", params)
	}
	if !reflect.DeepEqual(params.Employments, []string{"part"}) {
		t.Fatalf("unexpected employment: %v", params.Employments)
	}

	remote := New(Options{Areas: []int{113}}, nil).searchParams(jobs.SearchParams{Query: "go", Location: "Kazan", JobType: "remote"})
	if remote.Text != "go" || !reflect.DeepEqual(remote.Schedules, []string{"remote"}) || remote.Employments != nil {
		t.Fatalf("unexpected remote params: %+v", remote)
	}
}

func TestSalaryText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to int
		want     string
	}{
		{from: 100, to: 200, want: "100-200 USD"},
		{from: 100, want: "from 100 USD"},
		{to: 200, want: "up to 200 USD"},
		{want: ""},
	}

	for _, tt := range tests {
		v := &Vacancy{}
		v.Salary = &struct {
			From     int    `json:"from,omitempty"`
			To       int    `json:"to,omitempty"`
			Currency string `json:"currency,omitempty"`
			Gross    bool   `json:"gross,omitempty"`
		}{From: tt.from, To: tt.to, Currency: "USD"}

		if got := v.SalaryText(); got != tt.want {
			t.Fatalf("SalaryText(%d, %d) = %q, want %q", tt.from, tt.to, got, tt.want)
		}
	}
}
