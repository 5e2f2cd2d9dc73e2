// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Serve serves the site for local development.

# Usage:

	$ go tool serve [flags] [dir]

Serve performs an initial build and serves the output from dir
(default "build"). It then watches for file changes in the "pages",
"static", and "templates" directories and the brand file, and automatically
rebuilds the site. Unknown paths are answered with the 404 page.

# Environment Variables

  - SITE_LISTEN: address to listen on, overridden by -listen.
  - SITE_CONFIG: brand constants file, overridden by -config.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/base/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
