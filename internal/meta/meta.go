// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package meta describes the HTML metadata emitted for search engines and
// link preview renderers.
package meta

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/url"
	"slices"
	"strings"

	"go.evergreen.studio/site/internal/brand"
)

// Metadata is the document-level metadata of a page.
type Metadata struct {
	Title       string
	Description string
	Keywords    []string
	Authors     []string
	Creator     string
	// Base resolves relative URLs in Open Graph and Twitter images.
	Base      *url.URL
	OpenGraph OpenGraph
	Twitter   Twitter
	Icons     Icons
	Manifest  string

	brand *brand.Brand
}

// OpenGraph is the Open Graph protocol metadata.
type OpenGraph struct {
	Type        string
	Locale      string
	URL         string
	SiteName    string
	Title       string
	Description string
	Images      []Image
}

// Image is an Open Graph image.
type Image struct {
	URL string
}

// Twitter is the Twitter card metadata.
type Twitter struct {
	Card        string
	Title       string
	Description string
	Images      []string
}

// Icons lists the site icons.
type Icons struct {
	Icon  []Icon
	Apple string
}

// Icon is a single icon link.
type Icon struct {
	URL   string `json:"src"`
	Sizes string `json:"sizes"`
	Type  string `json:"type"`
}

// FromBrand returns the site-wide metadata for b.
func FromBrand(b *brand.Brand) *Metadata {
	logo := b.Asset("Logo-512.png")
	var siteURL string
	if b.URL != nil {
		siteURL = b.URL.String()
	}
	return &Metadata{
		Title:       b.Title,
		Description: b.Description,
		Keywords:    slices.Clone(b.Keywords),
		Authors:     []string{b.Name},
		Creator:     b.Name,
		Base:        b.URL,
		OpenGraph: OpenGraph{
			Type:        "website",
			Locale:      b.Locale,
			URL:         siteURL,
			SiteName:    b.Name,
			Title:       b.Title,
			Description: b.Description,
			Images:      []Image{{URL: logo}},
		},
		Twitter: Twitter{
			Card:        "summary_large_image",
			Title:       b.Title,
			Description: b.Description,
			Images:      []string{logo},
		},
		Icons: Icons{
			Icon: []Icon{
				{URL: b.Asset("Logo-192.png"), Sizes: "192x192", Type: "image/png"},
				{URL: b.Asset("Logo-512.png"), Sizes: "512x512", Type: "image/png"},
			},
			Apple: b.Asset("apple-touch-icon.png"),
		},
		Manifest: "/branding/site.webmanifest",
		brand:    b,
	}
}

// WithPage returns a copy of m describing a single page. Empty title or
// description keep the site-wide values. The page URL, if not empty, becomes
// the Open Graph URL.
func (m *Metadata) WithPage(title, description, pageURL string) *Metadata {
	nm := *m
	if title != "" && title != m.Title {
		nm.Title = title + " | " + m.Title
		nm.OpenGraph.Title = nm.Title
		nm.Twitter.Title = nm.Title
	}
	if description != "" {
		nm.Description = description
		nm.OpenGraph.Description = description
		nm.Twitter.Description = description
	}
	if pageURL != "" {
		nm.OpenGraph.URL = m.resolve(pageURL)
	}
	return &nm
}

func (m *Metadata) resolve(ref string) string {
	if m.Base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return m.Base.ResolveReference(u).String()
}

// HTML returns the tags that go into the document head.
func (m *Metadata) HTML() template.HTML {
	var sb strings.Builder

	tag := func(format string, args ...any) {
		for i, a := range args {
			if s, ok := a.(string); ok {
				args[i] = template.HTMLEscapeString(s)
			}
		}
		fmt.Fprintf(&sb, format+"\n", args...)
	}
	name := func(name, content string) {
		if content != "" {
			tag(`<meta name="%s" content="%s">`, name, content)
		}
	}
	property := func(prop, content string) {
		if content != "" {
			tag(`<meta property="%s" content="%s">`, prop, content)
		}
	}

	tag(`<title>%s</title>`, m.Title)
	name("description", m.Description)
	name("keywords", strings.Join(m.Keywords, ","))
	for _, a := range m.Authors {
		name("author", a)
	}
	name("creator", m.Creator)

	property("og:title", m.OpenGraph.Title)
	property("og:description", m.OpenGraph.Description)
	property("og:url", m.OpenGraph.URL)
	property("og:site_name", m.OpenGraph.SiteName)
	property("og:locale", m.OpenGraph.Locale)
	for _, img := range m.OpenGraph.Images {
		property("og:image", m.resolve(img.URL))
	}
	property("og:type", m.OpenGraph.Type)

	name("twitter:card", m.Twitter.Card)
	name("twitter:title", m.Twitter.Title)
	name("twitter:description", m.Twitter.Description)
	for _, img := range m.Twitter.Images {
		name("twitter:image", m.resolve(img))
	}

	for _, icon := range m.Icons.Icon {
		tag(`<link rel="icon" href="%s" sizes="%s" type="%s">`, icon.URL, icon.Sizes, icon.Type)
	}
	if m.Icons.Apple != "" {
		tag(`<link rel="apple-touch-icon" href="%s">`, m.Icons.Apple)
	}
	if m.Manifest != "" {
		tag(`<link rel="manifest" href="%s">`, m.Manifest)
	}

	return template.HTML(sb.String())
}

// Colors used by the web app manifest.
const (
	themeColor      = "#16a34a"
	backgroundColor = "#ffffff"
)

type manifest struct {
	Name            string `json:"name"`
	ShortName       string `json:"short_name"`
	Description     string `json:"description"`
	StartURL        string `json:"start_url"`
	Display         string `json:"display"`
	ThemeColor      string `json:"theme_color"`
	BackgroundColor string `json:"background_color"`
	Icons           []Icon `json:"icons"`
}

// WebManifest returns the web app manifest referenced by the manifest link.
func (m *Metadata) WebManifest() ([]byte, error) {
	mf := manifest{
		Name:            m.OpenGraph.SiteName,
		Description:     m.Description,
		StartURL:        "/",
		Display:         "standalone",
		ThemeColor:      themeColor,
		BackgroundColor: backgroundColor,
		Icons:           m.Icons.Icon,
	}
	if m.brand != nil {
		mf.ShortName = m.brand.ShortName
	}
	return json.MarshalIndent(mf, "", "  ")
}
