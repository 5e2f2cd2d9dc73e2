// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strconv"

	"go.astrophena.name/base/cli"
	"go.astrophena.name/base/logger"
	"go.evergreen.studio/site/internal/brand"
	"go.evergreen.studio/site/internal/devtools"
)

func main() {
	cli.Main(new(app))
}

type app struct {
	config string
}

func (a *app) Flags(fs *flag.FlagSet) {
	fs.StringVar(&a.config, "config", "site.star", "Read brand constants from `file`.")
}

// icon is a branding image referenced by the page metadata and the web app
// manifest.
type icon struct {
	name string
	size int
}

var icons = []icon{
	{"Logo-192.png", 192},
	{"Logo-512.png", 512},
	{"apple-touch-icon.png", 180},
}

func (a *app) Run(ctx context.Context) error {
	devtools.EnsureRoot()

	if _, err := exec.LookPath("magick"); err != nil {
		return errors.New("ImageMagick (magick command) not found")
	}

	args := cli.GetEnv(ctx).Args
	if len(args) != 1 {
		return fmt.Errorf("%w: want exactly one input image", cli.ErrInvalidArgs)
	}
	inputFile := args[0]

	absInputFile, err := filepath.Abs(inputFile)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for input file: %w", err)
	}
	if _, err := os.Stat(absInputFile); os.IsNotExist(err) {
		return fmt.Errorf("input file %s not found", absInputFile)
	}

	b, err := brand.Load(a.config)
	if err != nil {
		return err
	}

	outputDir := filepath.Join("static", "branding")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}

	for _, ic := range icons {
		sizeStr := strconv.Itoa(ic.size)
		outputFile := filepath.Join(outputDir, path.Base(b.Asset(ic.name)))

		cmd := exec.CommandContext(ctx, "magick",
			absInputFile,
			"-resize", sizeStr+"x"+sizeStr+"^",
			"-gravity", "Center",
			"-extent", sizeStr+"x"+sizeStr,
			"-strip",
			outputFile,
		)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("failed to resize icon to %s: %w", sizeStr, err)
		}
		logger.Info(ctx, "wrote icon", slog.String("file", outputFile))
	}

	return nil
}
