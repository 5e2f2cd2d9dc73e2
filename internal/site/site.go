// © 2022 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Package site builds https://evergreen.studio.

# Directory Structure

Site has the following directories:

	build      This is where the generated site will be placed by default.
	pages      All content for the site lives inside this directory. HTML and
	           Markdown formats can be used.
	static     Files in this directory will be copied verbatim to the
	           generated site.
	templates  These are the templates that wrap pages. Templates are
	           chosen on a page-by-page basis in the front matter.
	           They must have the '.html' extension.

Brand constants (name, title, description, keywords and so on) come from the
site.star file, see package brand.

# Page Layout

Each page must be of the supported format (HTML or Markdown) and have JSON front
matter in the beginning:

	{
	  "title": "Hello, world!",
	  "template": "layout",
	  "permalink": "/hello-world"
	}

See Page for all available front matter fields.

# Generated Files

Besides pages and static files, a build writes robots.txt, sitemap.xml,
feed.xml (an Atom feed of pages with the "news" type), css/fonts.css and
branding/site.webmanifest.
*/
package site

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strings"
	ttemplate "text/template"
	"time"

	"go.evergreen.studio/site/internal/brand"
	"go.evergreen.studio/site/internal/classname"
	"go.evergreen.studio/site/internal/fonts"
	"go.evergreen.studio/site/internal/meta"
	"go.evergreen.studio/site/internal/strutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/gorilla/feeds"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	mjson "github.com/tdewolff/minify/v2/json"
	"rsc.io/markdown"
)

// Possible errors, used in tests.
var (
	errFrontmatterSplit        = errors.New("failed to split frontmatter and contents")
	errFrontmatterParse        = errors.New("failed to parse frontmatter")
	errFrontmatterMissing      = errors.New("missing frontmatter")
	errFrontmatterMissingParam = errors.New("missing required frontmatter parameter (title, template, permalink)")
	errFormatUnsupported       = errors.New("format unsupported")
	errPermalinkInvalid        = errors.New("invalid permalink")
	errNoTemplate              = errors.New("no such template")
)

// Config represents a build configuration.
type Config struct {
	// Brand contains the site constants. If nil, brand.Default is used.
	Brand *brand.Brand
	// BrandFile is the Starlark file with brand constants. If not empty, it is
	// loaded on each build and replaces Brand.
	BrandFile string
	// BaseURL is the base URL of the site. If nil, Brand.URL is used and
	// follows the brand file when it changes between builds.
	BaseURL *url.URL
	// Src is the directory where to read files from. If empty, uses the current
	// directory.
	Src string
	// Dst is the directory where to write files. If empty, uses the build
	// directory.
	Dst string
	// Prod determines if the site should be built in a production mode. This
	// means that drafts are excluded and the base URL is used to derive absolute
	// URLs from relative ones.
	Prod bool
	// SkipFeed determines if the feed for site shouldn't be built.
	SkipFeed bool

	brandBaseURL bool      // BaseURL follows Brand.URL
	feedCreated  time.Time // used in tests
}

func (c *Config) setDefaults() {
	if c.Brand == nil {
		c.Brand = brand.Default()
	}

	if c.BaseURL == nil {
		c.brandBaseURL = true
	}
	if c.brandBaseURL {
		u := *c.Brand.URL
		c.BaseURL = &u
	}

	if c.Src == "" {
		c.Src = filepath.Join(".")
	}

	if c.Dst == "" {
		c.Dst = filepath.Join(".", "build")
	}
}

// Build builds a site based on the provided [Config].
func Build(c *Config) error {
	if c.BrandFile != "" {
		b, err := brand.Load(c.BrandFile)
		if err != nil {
			return err
		}
		c.Brand = b
	}
	c.setDefaults()
	b := newBuildContext(c)

	// Parse templates and pages.
	if err := filepath.WalkDir(filepath.Join(b.c.Src, "templates"), b.parseTemplates); err != nil {
		return err
	}
	if err := filepath.WalkDir(filepath.Join(b.c.Src, "pages"), b.parsePages); err != nil {
		return err
	}
	// Hash static files.
	if err := walkStatic(b.c.Src, b.hashStatic); err != nil {
		return err
	}

	// Sort pages by date. Pages without date are pushed to the end.
	sort.SliceStable(b.pages, func(i, j int) bool {
		if b.pages[i].Date == nil || b.pages[j].Date == nil {
			return b.pages[i].Date != nil
		}
		return !b.pages[i].Date.Time.Before(b.pages[j].Date.Time)
	})

	// Clean up after previous build.
	if _, err := os.Stat(b.c.Dst); err == nil {
		if err := os.RemoveAll(b.c.Dst); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(b.c.Dst, 0o755); err != nil {
		return err
	}

	// Build pages and RSS feed.
	for _, p := range b.pages {
		if err := b.writePage(p); err != nil {
			return err
		}
	}
	if !b.c.SkipFeed {
		if err := b.buildFeed(); err != nil {
			return err
		}
	}

	// Write generated files.
	if err := b.writeGenerated(); err != nil {
		return err
	}
	// Copy static files.
	return walkStatic(b.c.Src, b.copyStatic)
}

func walkStatic(src string, fn fs.WalkDirFunc) error {
	dir := filepath.Join(src, "static")
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return filepath.WalkDir(dir, fn)
}

func (b *buildContext) writePage(p *Page) error {
	dst := filepath.Join(b.c.Dst, p.dstPath)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	tpl, ok := b.templates[p.Template]
	if !ok {
		return fmt.Errorf("%s: %w %q", p.path, errNoTemplate, p.Template)
	}

	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := p.build(b, tpl, f); err != nil {
		return err
	}
	return f.Close()
}

func (b *buildContext) writeGenerated() error {
	manifest, err := b.meta.WebManifest()
	if err != nil {
		return err
	}
	manifest, err = b.min.Bytes("application/json", manifest)
	if err != nil {
		return err
	}
	fontsCSS, err := b.min.Bytes("text/css", fonts.CSS())
	if err != nil {
		return err
	}
	sitemap, err := b.sitemap()
	if err != nil {
		return err
	}

	files := map[string][]byte{
		"robots.txt":                []byte(b.robotsTxt()),
		"sitemap.xml":               sitemap,
		"branding/site.webmanifest": manifest,
		"css/fonts.css":             fontsCSS,
	}
	for name, content := range files {
		dst := filepath.Join(b.c.Dst, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, content, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func (b *buildContext) robotsTxt() string {
	robots := "User-agent: *\n"
	if b.c.Prod {
		robots += "Sitemap: " + b.absURL("/sitemap.xml") + "\n"
	}
	return robots
}

type min struct {
	m *minify.M
}

func newMin() *min {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.Add("text/html", &html.Minifier{
		KeepDocumentTags:    true,
		KeepDefaultAttrVals: true,
		KeepEndTags:         true,
	})
	m.AddFunc("application/javascript", js.Minify)
	m.AddFunc("application/json", mjson.Minify)

	return &min{m: m}
}

func (m *min) Bytes(mediaType string, b []byte) ([]byte, error) {
	return m.m.Bytes(mediaType, b)
}

type buildContext struct {
	c         *Config
	md        *markdown.Parser
	meta      *meta.Metadata
	funcs     template.FuncMap
	pages     []*Page
	templates map[string]*template.Template
	static    map[string]string // path -> hashed path (e.g. /css/main.css -> /css/main-[hash].css)
	min       *min
}

func newBuildContext(c *Config) *buildContext {
	b := &buildContext{
		c: c,
		md: &markdown.Parser{
			HeadingID:          true,
			Strikethrough:      true,
			TaskList:           true,
			AutoLinkText:       true,
			AutoLinkAssumeHTTP: true,
			Table:              true,
			Emoji:              true,
			SmartDot:           true,
			SmartDash:          true,
			SmartQuote:         true,
		},
		meta:      meta.FromBrand(c.Brand),
		templates: make(map[string]*template.Template),
		static:    make(map[string]string),
		min:       newMin(),
	}

	b.funcs = template.FuncMap{
		"content":        func(p *Page) template.HTML { return template.HTML(p.contents) },
		"metadata":       b.metadata,
		"brand":          func() *brand.Brand { return b.c.Brand },
		"fontVariables":  fonts.Variables,
		"fontStylesheet": fonts.StylesheetURL,
		"cn":             classname.CN,
		"capitalize":     strutil.Capitalize,
		"camelize":       strutil.Camelize,
		"arr2str":        func(arr []string) string { return strutil.Arr2Str(arr) },
		"time":           b.time,
		"navLink":        b.navLink,
		"pages":          b.pagesByType,
		"url":            b.url,
		"static":         b.getStatic,
		"year":           func() int { return time.Now().Year() },
	}

	return b
}

// metadata returns the head tags of p: site metadata adjusted for the page and
// the page's own meta tags. The front page keeps the site title.
func (b *buildContext) metadata(p *Page) template.HTML {
	title := p.Title
	if p.Permalink == "/" {
		title = ""
	}
	pm := b.meta.WithPage(title, p.Description, p.Permalink)
	out := string(pm.HTML())

	names := make([]string, 0, len(p.MetaTags))
	for name := range p.MetaTags {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		out += fmt.Sprintf(`<meta name="%s" content="%s">`+"\n",
			template.HTMLEscapeString(name),
			template.HTMLEscapeString(p.MetaTags[name]),
		)
	}
	return template.HTML(out)
}

func (b *buildContext) navLink(p *Page, title, path string) template.HTML {
	class := classname.CN("nav-link", map[string]bool{"current": p.Permalink == path})
	return template.HTML(fmt.Sprintf(`<a href="%s" class="%s">%s</a>`,
		template.HTMLEscapeString(b.url(path)),
		class,
		template.HTMLEscapeString(title),
	))
}

func (b *buildContext) pagesByType(typ string) []*Page {
	if typ == "" {
		return b.pages
	}
	var pages []*Page
	for _, p := range b.pages {
		if p.Type == typ {
			pages = append(pages, p)
		}
	}
	return pages
}

func (b *buildContext) time(format string, d *date) template.HTML {
	return template.HTML(fmt.Sprintf(`<time datetime="%s">%s</time>`,
		d.Format(time.RFC3339),
		d.Format(format),
	))
}

func isFullURL(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

func (b *buildContext) url(base string) string {
	if isFullURL(base) || !b.c.Prod || b.c.BaseURL == nil {
		return base
	}
	return b.absURL(base)
}

func (b *buildContext) absURL(base string) string {
	if isFullURL(base) {
		return base
	}
	u := *b.c.BaseURL
	u.Path = path.Join(u.Path, base)
	return u.String()
}

func (b *buildContext) getStatic(base string) string {
	hashed, ok := b.static[base]
	if !ok {
		return b.url(base)
	}
	return b.url(hashed)
}

func (b *buildContext) parseTemplates(path string, d fs.DirEntry, err error) error {
	if err != nil {
		return err
	}

	if d.IsDir() {
		return nil
	}

	if filepath.Ext(path) != ".html" {
		return nil
	}

	name, err := filepath.Rel(filepath.Join(b.c.Src, "templates"), path)
	if err != nil {
		return err
	}
	name = strings.TrimSuffix(name, filepath.Ext(name))
	// Ensure that we have slash-separated path everywhere.
	name = filepath.ToSlash(name)

	bb, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	b.templates[name], err = template.New(name).Funcs(b.funcs).Parse(string(bb))
	if err != nil {
		return err
	}

	return nil
}

func (b *buildContext) parsePages(path string, d fs.DirEntry, err error) error {
	if err != nil {
		return err
	}

	if d.IsDir() || isIgnorable(path) {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	p := &Page{path: path}
	if err := p.parse(f); err != nil {
		return err
	}
	if !p.Draft || !b.c.Prod {
		b.pages = append(b.pages, p)
	}

	return nil
}

var skipHashing = []string{
	"robots.txt",
	"branding",
}

func (b *buildContext) hashStatic(path string, d fs.DirEntry, err error) error {
	if err != nil {
		return err
	}

	if d.IsDir() || isIgnorable(path) {
		return nil
	}

	rel, err := filepath.Rel(filepath.Join(b.c.Src, "static"), path)
	if err != nil {
		return err
	}
	rel = filepath.ToSlash(rel)

	// Branding assets are referenced by metadata and manifests with stable
	// names.
	for _, skip := range skipHashing {
		if strings.HasPrefix(rel, skip) {
			return nil
		}
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	hash := sha256.Sum256(buf)
	hashhex := hex.EncodeToString(hash[:])
	b.static["/"+rel] = "/" + formatStaticName(rel, hashhex)

	return nil
}

// formatStaticName returns a hash name that inserts hash before the filename's
// extension. If no extension exists on filename then the hash is appended.
// Returns blank string the original filename if hash is blank. Returns a blank
// string if the filename is blank.
func formatStaticName(filename, hash string) string {
	if filename == "" {
		return ""
	} else if hash == "" {
		return filename
	}

	dir, base := path.Split(filename)
	if i := strings.Index(base, "."); i != -1 {
		return path.Join(dir, fmt.Sprintf("%s-%s%s", base[:i], hash, base[i:]))
	}
	return path.Join(dir, fmt.Sprintf("%s-%s", base, hash))
}

func (b *buildContext) copyStatic(path string, d fs.DirEntry, err error) error {
	if err != nil {
		return err
	}

	if d.IsDir() || isIgnorable(path) {
		return nil
	}

	rel, err := filepath.Rel(filepath.Join(b.c.Src, "static"), path)
	if err != nil {
		return err
	}
	rel = filepath.ToSlash(rel)

	hashed, ok := b.static["/"+rel]
	if !ok {
		hashed = "/" + rel
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var mediaType string
	switch filepath.Ext(path) {
	case ".css":
		mediaType = "text/css"
	case ".js":
		mediaType = "application/javascript"
	case ".json", ".webmanifest":
		mediaType = "application/json"
	}
	if mediaType != "" {
		minified, err := b.min.Bytes(mediaType, buf)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		buf = minified
	}

	dst := filepath.Join(b.c.Dst, filepath.FromSlash(hashed))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, buf, 0o644)
}

func isIgnorable(path string) bool {
	// Ignore files that look like Vim backups.
	if strings.HasSuffix(path, "~") {
		return true
	}

	// Ignore .gitignore files.
	if strings.Contains(path, ".gitignore") {
		return true
	}

	return false
}

// Page represents a site page. The exported fields is the front matter fields.
type Page struct {
	Title       string            `json:"title"`                  // title: Page title, required.
	Permalink   string            `json:"permalink"`              // permalink: Output path for the page, required.
	Template    string            `json:"template"`               // template: Template that should be used for rendering this page, required.
	Description string            `json:"description,omitempty"`  // description: Page description for search engines and link previews, site description by default.
	ContentOnly bool              `json:"content_only,omitempty"` // content_only: Determines whether this page should be rendered without header and footer, false by default.
	Date        *date             `json:"date,omitempty"`         // date: Publication date in the 'year-month-day' format, e.g. 2006-01-02, optional.
	Draft       bool              `json:"draft,omitempty"`        // draft: Determines whether this page should be not included in production builds, false by default.
	MetaTags    map[string]string `json:"meta_tags,omitempty"`    // meta_tags: Determines additional HTML meta tags that will be added to this page, optional.
	Summary     string            `json:"summary,omitempty"`      // summary: Page summary, used in the news feed, optional.
	Type        string            `json:"type,omitempty"`         // type: Used to distinguish different kinds of pages, page by default.
	CSS         []string          `json:"css,omitempty"`          // css: Additional CSS files that should be loaded, optional.
	JS          []string          `json:"js,omitempty"`           // js: Additional JavaScript files that should be loaded, optional.
	NoIndex     bool              `json:"noindex,omitempty"`      // noindex: Excludes the page from sitemap.xml, false by default.

	path     string // path to the page source
	dstPath  string // where to write the built page
	contents []byte // page contents without front matter
}

type date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func (d *date) UnmarshalJSON(p []byte) error {
	s := strings.Trim(string(p), "\"")
	if s == "null" {
		d.Time = time.Time{}
		return nil
	}

	dt, err := time.Parse(dateLayout, s)
	if err != nil {
		return err
	}
	d.Time = dt

	return nil
}

func (p *Page) parse(r io.Reader) error {
	// Check that format of the page is supported.
	if !slices.Contains([]string{".html", ".md"}, filepath.Ext(p.path)) {
		return fmt.Errorf("%s: %w", p.path, errFormatUnsupported)
	}

	const (
		leftDelim  = "{\n"
		rightDelim = "}\n"
	)

	// Split the front matter and contents.
	scanner := bufio.NewScanner(r)
	var (
		frontmatter, contents []byte
		reachedFrontmatter    bool
		reachedContents       bool
	)
	for scanner.Scan() {
		line := scanner.Text() + "\n"

		if !reachedContents {
			if line == leftDelim {
				reachedFrontmatter = true
			}

			if line == rightDelim {
				reachedFrontmatter = false
				frontmatter = append(frontmatter, line...)
				reachedContents = true
				continue
			}
		}

		if reachedFrontmatter {
			frontmatter = append(frontmatter, line...)
			continue
		}

		if reachedContents {
			contents = append(contents, line...)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%s: %w: %v", p.path, errFrontmatterSplit, err)
	}
	if len(frontmatter) == 0 {
		return fmt.Errorf("%s: %w", p.path, errFrontmatterMissing)
	}
	p.contents = contents

	// Parse the front matter.
	if err := json.Unmarshal(frontmatter, p); err != nil {
		return fmt.Errorf("%s: %w: %v", p.path, errFrontmatterParse, err)
	}
	// Set the default page type.
	if p.Type == "" {
		p.Type = "page"
	}

	// Check front matter fields.
	if p.Title == "" || p.Template == "" || p.Permalink == "" {
		return fmt.Errorf("%s: %w", p.path, errFrontmatterMissingParam)
	}
	if _, err := url.ParseRequestURI(p.Permalink); err != nil {
		return fmt.Errorf("%s: %w: %v", p.path, errPermalinkInvalid, err)
	}
	p.dstPath = p.Permalink
	if !strings.HasSuffix(p.dstPath, ".html") {
		if p.dstPath == "/" {
			p.dstPath = p.dstPath + "index"
		}
		p.dstPath = p.dstPath + ".html"
	}
	p.dstPath = path.Clean(p.dstPath)

	return nil
}

var htmlCommentRe = regexp.MustCompile("<!--(.*?)-->")

func (p *Page) build(b *buildContext, tpl *template.Template, w io.Writer) error {
	// We use here text/template, but not html/template because we don't want to
	// escape any HTML on the Markdown source.
	ptpl, err := ttemplate.New(p.path).Funcs(ttemplate.FuncMap(b.funcs)).Parse(string(p.contents))
	if err != nil {
		return err
	}
	var pbuf bytes.Buffer
	if err = ptpl.Execute(&pbuf, p); err != nil {
		return fmt.Errorf("%s: failed to execute page template: %w", p.path, err)
	}
	p.contents = pbuf.Bytes()

	if filepath.Ext(p.path) == ".md" {
		doc := b.md.Parse(string(p.contents))
		p.contents = []byte(markdown.ToHTML(doc))
	}

	p.contents = htmlCommentRe.ReplaceAll(p.contents, []byte{})

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, p); err != nil {
		return fmt.Errorf("%s: failed to execute template %q: %w", p.path, p.Template, err)
	}

	merged, err := mergeClasses(buf.Bytes())
	if err != nil {
		return fmt.Errorf("%s: %w", p.path, err)
	}

	minified, err := b.min.Bytes("text/html", merged)
	if err != nil {
		return err
	}

	_, err = w.Write(minified)
	return err
}

// mergeClasses passes every class attribute of the HTML document through
// classname.CN, so conflicting utilities coming from different templates
// collapse into one.
func mergeClasses(doc []byte) ([]byte, error) {
	// Fragments (e.g. in tests) are not touched, since goquery always
	// produces a full document.
	if !bytes.Contains(bytes.ToLower(doc), []byte("<html")) {
		return doc, nil
	}

	d, err := goquery.NewDocumentFromReader(bytes.NewReader(doc))
	if err != nil {
		return nil, err
	}
	d.Find("[class]").Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		s.SetAttr("class", classname.CN(class))
	})
	out, err := d.Html()
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

func (b *buildContext) buildFeed() error {
	feed := &feeds.Feed{
		Title:       b.c.Brand.Name,
		Link:        &feeds.Link{Href: b.c.BaseURL.String() + "/"},
		Description: b.c.Brand.Description,
		Author:      &feeds.Author{Name: b.c.Brand.Name},
		Created:     time.Now(),
	}

	if !b.c.feedCreated.IsZero() {
		feed.Created = b.c.feedCreated
	}

	for _, p := range b.pages {
		if p.Type != "news" {
			continue
		}

		if p.Draft && b.c.Prod {
			continue
		}

		item := &feeds.Item{
			Title:       p.Title,
			Link:        &feeds.Link{Href: b.absURL(p.Permalink)},
			Author:      feed.Author,
			Description: p.Summary,
			Content:     string(p.contents),
		}
		if p.Date != nil {
			item.Created = p.Date.Time
		}
		feed.Items = append(feed.Items, item)
	}

	bf, err := feed.ToAtom()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(b.c.Dst, "feed.xml"), []byte(bf), 0o644)
}
