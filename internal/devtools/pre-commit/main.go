// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Pre-commit runs the checks that CI runs: formatting, staticcheck (configured
// by staticcheck.conf), tests, module tidiness and copyright headers.
package main

import (
	"bytes"
	"log"
	"os"
	"os/exec"

	"go.evergreen.studio/site/internal/devtools"
)

func main() {
	log.SetFlags(0)
	devtools.EnsureRoot()

	isCI := os.Getenv("CI") == "true"

	var w bytes.Buffer

	// Go tool ignores directories starting with an underscore, gofmt doesn't.
	run(&w, "go", "list", "-f", "{{.Dir}}", "./...")
	dirs := bytes.Fields(w.Bytes())
	args := []string{"-l"}
	for _, dir := range dirs {
		args = append(args, string(dir))
	}
	run(&w, "gofmt", args...)
	if diff := w.String(); diff != "" {
		log.Fatalf("Run gofmt on these files:\n\t%v", diff)
	}

	run(&w, "go", "tool", "staticcheck", "./...")

	if isCI {
		run(&w, "go", "test", "-race", "./...")
		run(&w, "go", "test", "-tags", "property", "./internal/strutil")
	} else {
		run(&w, "go", "test", "./...")
	}

	run(&w, "go", "mod", "tidy", "--diff")

	run(&w, "go", "tool", "addcopyright")
	if isCI {
		run(&w, "git", "diff", "--exit-code")
	}
}

func run(buf *bytes.Buffer, cmd string, args ...string) {
	buf.Reset()
	c := exec.Command(cmd, args...)
	c.Stdout = buf
	c.Stderr = buf
	if err := c.Run(); err != nil {
		log.Fatalf("%s failed: %v:\n%v", cmd, err, buf.String())
	}
}
