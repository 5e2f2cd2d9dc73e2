// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Indexnow notifies search engines about the pages of the built site.

It reads sitemap.xml from the build directory and submits every URL listed
there to the IndexNow API in one request.

# Usage

	$ go tool indexnow [flags] [dir]

dir is the build directory, "build" by default. The key file
(https://<host>/<key>.txt) must be deployed before running this tool.

# Environment Variables

  - INDEXNOW_KEY: the IndexNow key, overridden by -key.
  - INDEXNOW_ENDPOINT: the API endpoint, overridden by -endpoint.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/base/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
