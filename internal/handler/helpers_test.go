package handler

import (
	"net/http/httptest"
	"testing"
)

func TestQueryInt(t *testing.T) {
	cases := []struct {
		url  string
		want int
	}{
		{"/products?skip=5", 5},
		{"/products?skip=-3", -3},
		{"/products", 0},
		{"/products?skip=", 0},
		{"/products?skip=abc", 0},
	}
	for _, tc := range cases {
		r := httptest.NewRequest("GET", tc.url, nil)
		if got := queryInt(r, "skip", 0); got != tc.want {
			t.Errorf("queryInt(%q): got %d, want %d", tc.url, got, tc.want)
		}
	}
}

func TestClampInt(t *testing.T) {
	cases := []struct {
		val, min, max, want int
	}{
		{50, 1, 100, 50},
		{0, 1, 100, 1},
		{500, 1, 100, 100},
		{1, 1, 100, 1},
		{100, 1, 100, 100},
	}
	for _, tc := range cases {
		if got := clampInt(tc.val, tc.min, tc.max); got != tc.want {
			t.Errorf("clampInt(%d, %d, %d): got %d, want %d", tc.val, tc.min, tc.max, got, tc.want)
		}
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, 404, "Product not found")

	if rec.Code != 404 {
		t.Errorf("got status %d, want 404", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("got Content-Type %q, want application/json", ct)
	}
	want := `{"error":{"code":404,"message":"Product not found"}}` + "\n"
	if rec.Body.String() != want {
		t.Errorf("got body %q, want %q", rec.Body.String(), want)
	}
}
