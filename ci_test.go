// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package tools

//go:generate go tool addcopyright

import (
	"bytes"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	if os.Getenv("CI") != "true" {
		t.Skip("this test is only run in CI")
	}
	var w bytes.Buffer
	run(t, &w, "go", "generate")
	run(t, &w, "git", "diff", "--exit-code")
}

func TestGofmt(t *testing.T) {
	var w bytes.Buffer
	run(t, &w, "gofmt", append([]string{"-d"}, goFiles(t)...)...)
	if diff := w.String(); diff != "" {
		t.Fatalf("run gofmt on these files:\n\t%v", diff)
	}
}

func TestStaticcheck(t *testing.T) {
	var w bytes.Buffer
	run(t, &w, "go", "tool", "staticcheck", "./...")
}

func TestStaticcheckConfig(t *testing.T) {
	b, err := os.ReadFile("staticcheck.conf")
	if err != nil {
		t.Fatal(err)
	}
	_, checks, ok := strings.Cut(string(b), "checks = [")
	if !ok {
		t.Fatal("staticcheck.conf doesn't set checks")
	}
	checks, _, _ = strings.Cut(checks, "]")
	for _, want := range []string{`"all"`, `"-U1000"`, `"-ST1000"`} {
		if !strings.Contains(checks, want) {
			t.Errorf("staticcheck.conf checks don't contain %s:\n%s", want, checks)
		}
	}
}

// goFiles returns Go files of the module, skipping directories that the Go
// tool ignores.
func goFiles(t *testing.T) []string {
	t.Helper()
	var files []string
	if err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != "." && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "testdata") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".go" {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	return files
}

func run(t *testing.T, buf *bytes.Buffer, cmd string, args ...string) {
	buf.Reset()
	c := exec.Command(cmd, args...)
	c.Stdout = buf
	c.Stderr = buf
	if err := c.Run(); err != nil {
		t.Fatalf("%s failed: %v:\n%v", cmd, err, buf.String())
	}
}
