// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"encoding/xml"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"go.astrophena.name/base/cli"
	"go.astrophena.name/base/logger"
	"go.evergreen.studio/site/internal/fetch"

	"github.com/caarlos0/env/v11"
)

func main() { cli.Main(new(app)) }

type envConfig struct {
	Key      string `env:"INDEXNOW_KEY"`
	Endpoint string `env:"INDEXNOW_ENDPOINT" envDefault:"https://api.indexnow.org/indexnow"`
}

type app struct {
	key      string
	endpoint string
	envErr   error

	httpc *http.Client // used in tests
}

func (a *app) Flags(fs *flag.FlagSet) {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		a.envErr = fmt.Errorf("parse env: %w", err)
	}
	fs.StringVar(&a.key, "key", cfg.Key, "IndexNow `key` (default: INDEXNOW_KEY).")
	fs.StringVar(&a.endpoint, "endpoint", cfg.Endpoint, "IndexNow API `URL` (default: INDEXNOW_ENDPOINT or api.indexnow.org).")
}

var errNoKey = errors.New("IndexNow key should be set with -key or INDEXNOW_KEY")

func (a *app) Run(ctx context.Context) error {
	if a.envErr != nil {
		return a.envErr
	}
	if a.key == "" {
		return errNoKey
	}

	dir := filepath.Join(".", "build")
	if args := cli.GetEnv(ctx).Args; len(args) > 1 {
		return fmt.Errorf("%w: want at most one directory", cli.ErrInvalidArgs)
	} else if len(args) == 1 {
		dir = args[0]
	}

	sub, err := readSitemap(filepath.Join(dir, "sitemap.xml"))
	if err != nil {
		return err
	}
	sub.Key = a.key

	if err := submit(ctx, &fetch.Client{HTTPClient: a.httpc}, a.endpoint, sub); err != nil {
		return err
	}
	logger.Info(ctx, "submitted URLs to IndexNow", slog.String("host", sub.Host), slog.Int("count", len(sub.URLList)))
	return nil
}

// submission is the body of an IndexNow request.
type submission struct {
	Host    string   `json:"host"`
	Key     string   `json:"key"`
	URLList []string `json:"urlList"`
}

type sitemap struct {
	URLs []struct {
		Loc string `xml:"loc"`
	} `xml:"url"`
}

var errEmptySitemap = errors.New("sitemap has no URLs")

// readSitemap returns a submission with every location listed in the sitemap
// at path. All locations must belong to the same host.
func readSitemap(path string) (submission, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return submission{}, err
	}

	var sm sitemap
	if err := xml.Unmarshal(b, &sm); err != nil {
		return submission{}, fmt.Errorf("%s: %w", path, err)
	}
	if len(sm.URLs) == 0 {
		return submission{}, fmt.Errorf("%s: %w", path, errEmptySitemap)
	}

	var sub submission
	for _, u := range sm.URLs {
		pu, err := url.Parse(u.Loc)
		if err != nil {
			return submission{}, fmt.Errorf("%s: %w", path, err)
		}
		if sub.Host == "" {
			sub.Host = pu.Host
		} else if pu.Host != sub.Host {
			return submission{}, fmt.Errorf("%s: %s doesn't belong to %s", path, u.Loc, sub.Host)
		}
		sub.URLList = append(sub.URLList, u.Loc)
	}
	return sub, nil
}

func submit(ctx context.Context, c *fetch.Client, endpoint string, sub submission) error {
	res, err := c.Do(ctx, fetch.Post, endpoint, sub)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("wanted 2xx, got %d: %s", res.StatusCode, b)
	}
	return nil
}
