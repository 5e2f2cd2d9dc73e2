// © 2022 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"flag"
	"log/slog"
	"path/filepath"

	"go.astrophena.name/base/cli"
	"go.astrophena.name/base/logger"
	"go.evergreen.studio/site/internal/devtools"
	"go.evergreen.studio/site/internal/site"
)

func main() { cli.Main(new(app)) }

type app struct {
	prod     bool
	skipFeed bool
	config   string
}

func (a *app) Flags(fs *flag.FlagSet) {
	fs.BoolVar(&a.prod, "prod", false, "Build in a production mode.")
	fs.BoolVar(&a.skipFeed, "skip-feed", false, "Don't build the news feed.")
	fs.StringVar(&a.config, "config", "site.star", "Read brand constants from `file`.")
}

func (a *app) Run(ctx context.Context) error {
	devtools.EnsureRoot()

	dir := filepath.Join(".", "build")
	if args := cli.GetEnv(ctx).Args; len(args) > 0 {
		dir = args[0]
	}

	c := &site.Config{
		BrandFile: a.config,
		Src:       ".",
		Dst:       dir,
		Prod:      a.prod,
		SkipFeed:  a.skipFeed,
	}
	if err := site.Build(c); err != nil {
		return err
	}
	logger.Info(ctx, "built site", slog.String("dir", dir), slog.Bool("prod", a.prod))
	return nil
}
