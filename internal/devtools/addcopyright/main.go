// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Addcopyright adds copyright header to each source file of the site.
package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.evergreen.studio/site/internal/devtools"
)

const (
	codeLicense    = "ISC"
	contentLicense = "CC-BY-SA"
)

var templates = map[string]string{
	".go": `// © %d Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ` + codeLicense + `
// license that can be found in the LICENSE.md file.

`,
	".star": `# © %d Ilya Mateyko. All rights reserved.
# Use of this source code is governed by the ` + codeLicense + `
# license that can be found in the LICENSE.md file.

`,
	".js": `// © %d Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ` + codeLicense + `
// license that can be found in the LICENSE.md file.

`,
	".css": `/*
 * © %d Ilya Mateyko. All rights reserved.
 * Use of this source code is governed by the ` + codeLicense + `
 * license that can be found in the LICENSE.md file.
 */

`,
	".html": `<!--
© %d Ilya Mateyko. All rights reserved.
Use of this source code is governed by the ` + contentLicense + `
license that can be found in the LICENSE.md file.
-->

`,
	".md": `<!--
© %d Ilya Mateyko. All rights reserved.
Use of this source code is governed by the ` + contentLicense + `
license that can be found in the LICENSE.md file.
-->

`,
}

var headers = map[string]string{
	".go":   `// ©`,
	".js":   `// ©`,
	".css":  "/*\n * ©",
	".html": "<!--\n© ",
	".md":   "<!--\n© ",
	".star": `# ©`,
}

var exclusions = []string{
	"LICENSE.md",
}

// contentDirs are the only directories where HTML and Markdown files get a
// header. Documents elsewhere are not site content.
var contentDirs = []string{
	"pages",
	"templates",
}

func isExcluded(path string) bool {
	for _, ex := range exclusions {
		if strings.HasSuffix(path, ex) {
			return true
		}
	}
	switch filepath.Ext(path) {
	case ".html", ".md":
		for _, dir := range contentDirs {
			if strings.HasPrefix(filepath.ToSlash(path), dir+"/") {
				return false
			}
		}
		return true
	}
	return false
}

// skipDir reports whether the directory shouldn't be walked: hidden and
// underscored directories (ignored by the Go toolchain too) and the build
// output.
func skipDir(path string) bool {
	if path == "." {
		return false
	}
	name := filepath.Base(path)
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || path == "build"
}

func main() {
	devtools.EnsureRoot()

	if err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if skipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if isExcluded(path) {
			return nil
		}
		ext := filepath.Ext(path)
		tmpl, ok := templates[ext]
		if !ok {
			return nil
		}
		header, ok := headers[ext]
		if !ok {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		if bytes.HasPrefix(content, []byte(header)) {
			return nil // Already has a copyright header
		}

		year := info.ModTime().Year()
		hdr := fmt.Sprintf(tmpl, year)

		var buf bytes.Buffer
		buf.WriteString(hdr)
		buf.Write(content)

		return os.WriteFile(path, buf.Bytes(), 0o644)
	}); err != nil {
		log.Fatal(err)
	}
}
