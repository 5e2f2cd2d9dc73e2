// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package site

import (
	"encoding/xml"
	"slices"
	"strings"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// sitemap returns sitemap.xml listing every page except drafts, 404 and pages
// marked with noindex. Locations are always absolute.
func (b *buildContext) sitemap() ([]byte, error) {
	set := urlset{XMLNS: sitemapNS}
	for _, p := range b.pages {
		if p.NoIndex || p.Draft || strings.HasPrefix(p.dstPath, "/404") {
			continue
		}
		u := sitemapURL{Loc: b.absURL(p.Permalink)}
		if p.Date != nil {
			u.LastMod = p.Date.Format(dateLayout)
		}
		set.URLs = append(set.URLs, u)
	}
	slices.SortFunc(set.URLs, func(a, b sitemapURL) int {
		return strings.Compare(a.Loc, b.Loc)
	})

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
