// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.astrophena.name/base/testutil"
	"go.evergreen.studio/site/internal/fetch"
)

func TestReadSitemap(t *testing.T) {
	cases := map[string]struct {
		sitemap  string
		want     submission
		wantErr  error
		anyError bool
	}{
		"valid": {
			sitemap: `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://evergreen.studio/</loc></url>
  <url><loc>https://evergreen.studio/news</loc><lastmod>2026-09-01</lastmod></url>
</urlset>`,
			want: submission{
				Host:    "evergreen.studio",
				URLList: []string{"https://evergreen.studio/", "https://evergreen.studio/news"},
			},
		},
		"empty": {
			sitemap: `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"></urlset>`,
			wantErr: errEmptySitemap,
		},
		"mixed hosts": {
			sitemap: `<urlset>
  <url><loc>https://evergreen.studio/</loc></url>
  <url><loc>https://example.com/</loc></url>
</urlset>`,
			anyError: true,
		},
		"not XML": {
			sitemap:  "User-agent: *",
			anyError: true,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sitemap.xml")
			if err := os.WriteFile(path, []byte(tc.sitemap), 0o644); err != nil {
				t.Fatal(err)
			}
			got, err := readSitemap(path)
			if tc.wantErr != nil || tc.anyError {
				if err == nil {
					t.Fatal("want error, got nil")
				}
				if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
					t.Fatalf("want %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			testutil.AssertEqual(t, got, tc.want)
		})
	}
}

func TestSubmit(t *testing.T) {
	var got submission
	mux := http.NewServeMux()
	mux.HandleFunc("api.indexnow.org/indexnow", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			http.Error(w, "bad content type "+ct, http.StatusBadRequest)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("api.indexnow.org/forbidden", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "key not valid", http.StatusForbidden)
	})
	c := &fetch.Client{HTTPClient: testutil.MockHTTPClient(mux)}

	sub := submission{
		Host:    "evergreen.studio",
		Key:     "secret",
		URLList: []string{"https://evergreen.studio/"},
	}

	if err := submit(context.Background(), c, "https://api.indexnow.org/indexnow", sub); err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, got, sub)

	err := submit(context.Background(), c, "https://api.indexnow.org/forbidden", sub)
	if err == nil {
		t.Fatal("want error, got nil")
	}
	if !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "key not valid") {
		t.Fatalf("unexpected error: %v", err)
	}
}
