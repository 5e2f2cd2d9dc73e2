// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Resize-icons renders the brand icons.

# Usage

	$ go tool resize-icons [-config site.star] <input_image_file>

This tool crops the provided input image to a square and saves the icons
referenced by the page metadata and the web app manifest as PNG images in
the "static/branding" directory:

	<short brand name>-Logo-192.png
	<short brand name>-Logo-512.png
	<short brand name>-apple-touch-icon.png

It requires ImageMagick (the "magick" command) to be installed and
available in the system's PATH.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/base/cli"
)

//go:embed doc.go
var doc []byte

func init() {
	cli.SetDocComment(doc)
}
