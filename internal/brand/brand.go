// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Package brand holds the site-wide constants of https://evergreen.studio.

The constants can be overridden by a Starlark file (site.star by default):

	brand_name = "Evergreen Collective"
	short_brand_name = "Evergreen"
	title = "Evergreen Collective | Sustainable design studio"
	description = "..."
	keywords = ["design", "branding"]
	url = "https://evergreen.studio"
	locale = "en_US"

Globals that are not set keep their default values.
*/
package brand

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"slices"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Possible errors, used in tests.
var (
	errBadValue = errors.New("bad value type")
	errBadURL   = errors.New("invalid site URL")
)

// Brand contains the values that describe the site to browsers, search engines
// and link preview renderers.
type Brand struct {
	// Name is the full brand name, used as the site name and author.
	Name string
	// ShortName prefixes branding asset file names.
	ShortName string
	// Title is the default page title.
	Title string
	// Description is the default page description.
	Description string
	// Keywords are emitted in the keywords meta tag.
	Keywords []string
	// URL is the canonical site URL. Relative metadata URLs are resolved
	// against it.
	URL *url.URL
	// Locale is the Open Graph locale.
	Locale string
}

// Default returns the built-in brand constants.
func Default() *Brand {
	return &Brand{
		Name:        "Evergreen Collective",
		ShortName:   "Evergreen",
		Title:       "Evergreen Collective | Brand and web design studio",
		Description: "Evergreen Collective is an independent studio crafting brands, websites and campaigns that grow with your business.",
		Keywords: []string{
			"brand design",
			"web design",
			"marketing",
			"studio",
			"Evergreen Collective",
		},
		URL: &url.URL{
			Scheme: "https",
			Host:   "evergreen.studio",
		},
		Locale: "en_US",
	}
}

// Asset returns the path of the branding asset name, e.g. "Logo-512.png"
// becomes "/branding/Evergreen-Logo-512.png".
func (b *Brand) Asset(name string) string {
	return "/branding/" + b.ShortName + "-" + name
}

// Clone returns a deep copy of b.
func (b *Brand) Clone() *Brand {
	nb := *b
	nb.Keywords = slices.Clone(b.Keywords)
	if b.URL != nil {
		u := *b.URL
		nb.URL = &u
	}
	return &nb
}

// Load reads brand constants from the Starlark file at path, applying them on
// top of [Default]. If the file doesn't exist, Default is returned.
func Load(path string) (*Brand, error) {
	b := Default()

	src, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return b, nil
	} else if err != nil {
		return nil, err
	}

	thread := &starlark.Thread{Name: "brand"}
	globals, err := starlark.ExecFileOptions(&syntax.FileOptions{}, thread, path, src, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	for name, dst := range map[string]*string{
		"brand_name":       &b.Name,
		"short_brand_name": &b.ShortName,
		"title":            &b.Title,
		"description":      &b.Description,
		"locale":           &b.Locale,
	} {
		if err := stringVar(globals, name, dst); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	if v, ok := globals["keywords"]; ok {
		kw, err := stringList("keywords", v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		b.Keywords = kw
	}

	var rawURL string
	if err := stringVar(globals, "url", &rawURL); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if rawURL != "" {
		u, err := url.Parse(rawURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("%s: %w: %q", path, errBadURL, rawURL)
		}
		b.URL = u
	}

	return b, nil
}

func stringVar(globals starlark.StringDict, name string, dst *string) error {
	v, ok := globals[name]
	if !ok {
		return nil
	}
	s, ok := starlark.AsString(v)
	if !ok {
		return fmt.Errorf("%w: %s must be a string, got %s", errBadValue, name, v.Type())
	}
	*dst = s
	return nil
}

func stringList(name string, v starlark.Value) ([]string, error) {
	seq, ok := v.(starlark.Indexable)
	if _, isStr := v.(starlark.String); !ok || isStr {
		return nil, fmt.Errorf("%w: %s must be a list, got %s", errBadValue, name, v.Type())
	}
	list := make([]string, 0, seq.Len())
	for i := range seq.Len() {
		s, ok := starlark.AsString(seq.Index(i))
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] must be a string, got %s", errBadValue, name, i, seq.Index(i).Type())
		}
		list = append(list, s)
	}
	return list, nil
}
