// © 2022 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"

	"go.astrophena.name/base/cli"
	"go.evergreen.studio/site/internal/devtools"
	"go.evergreen.studio/site/internal/site"

	"github.com/caarlos0/env/v11"
)

func main() { cli.Main(new(app)) }

type envConfig struct {
	Listen string `env:"SITE_LISTEN" envDefault:"localhost:3000"`
	Config string `env:"SITE_CONFIG" envDefault:"site.star"`
}

type app struct {
	listen string
	config string
	envErr error
}

func (a *app) Flags(fs *flag.FlagSet) {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		a.envErr = fmt.Errorf("parse env: %w", err)
	}
	fs.StringVar(&a.listen, "listen", cfg.Listen, "Listen on `host:port` (default: SITE_LISTEN or localhost:3000).")
	fs.StringVar(&a.config, "config", cfg.Config, "Read brand constants from `file` (default: SITE_CONFIG or site.star).")
}

func (a *app) Run(ctx context.Context) error {
	if a.envErr != nil {
		return a.envErr
	}
	devtools.EnsureRoot()

	dir := filepath.Join(".", "build")
	if args := cli.GetEnv(ctx).Args; len(args) > 0 {
		dir = args[0]
	}

	cfg := &site.Config{
		BrandFile: a.config,
		Src:       ".",
		Dst:       dir,
	}
	return site.Serve(ctx, cfg, a.listen)
}
