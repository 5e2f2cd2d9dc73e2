// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package fonts configures the typefaces loaded by the site.
//
// Every font binds a CSS custom property (the font variable) on a class. The
// layout puts all these classes on the body, so themes can switch typefaces
// by referring to the variables.
package fonts

import (
	"fmt"
	"net/url"
	"strings"
)

// Font is a typeface served by Google Fonts.
type Font struct {
	// Family is the Google Fonts family name.
	Family string
	// Variable is the CSS custom property bound to the family.
	Variable string
	// Weights lists the loaded weights. Variable fonts leave it empty.
	Weights []string
	// Subsets lists the character subsets.
	Subsets []string
	// Fallback is the generic family used while the font loads.
	Fallback string
}

var latin = []string{"latin"}

// All lists the registered fonts in the order their variables are emitted.
var All = []Font{
	{Family: "Geist", Variable: "--font-geist-sans", Subsets: latin, Fallback: "sans-serif"},
	{Family: "Geist Mono", Variable: "--font-geist-mono", Subsets: latin, Fallback: "monospace"},
	// Theme fonts.
	{Family: "Playfair", Variable: "--font-playfair", Subsets: latin, Fallback: "serif"},
	{Family: "Playfair Display", Variable: "--font-playfair-display", Subsets: latin, Fallback: "serif"},
	{Family: "Lato", Variable: "--font-lato", Weights: []string{"400", "700"}, Subsets: latin, Fallback: "sans-serif"},
	{Family: "Poppins", Variable: "--font-poppins", Weights: []string{"400", "500", "600", "700"}, Subsets: latin, Fallback: "sans-serif"},
	{Family: "Inter", Variable: "--font-inter", Subsets: latin, Fallback: "sans-serif"},
	// Additional theme fonts.
	{Family: "Montserrat", Variable: "--font-montserrat", Subsets: latin, Fallback: "sans-serif"},
	{Family: "Roboto", Variable: "--font-roboto", Weights: []string{"400", "500", "700"}, Subsets: latin, Fallback: "sans-serif"},
	{Family: "Source Sans 3", Variable: "--font-source-sans-pro", Weights: []string{"400", "600", "700"}, Subsets: latin, Fallback: "sans-serif"},
	{Family: "Cormorant Garamond", Variable: "--font-cormorant-garamond", Weights: []string{"400", "500", "600"}, Subsets: latin, Fallback: "serif"},
	{Family: "Work Sans", Variable: "--font-work-sans", Subsets: latin, Fallback: "sans-serif"},
	{Family: "DM Sans", Variable: "--font-dm-sans", Subsets: latin, Fallback: "sans-serif"},
	{Family: "Libre Baskerville", Variable: "--font-libre-baskerville", Weights: []string{"400", "700"}, Subsets: latin, Fallback: "serif"},
	{Family: "Mulish", Variable: "--font-mulish", Subsets: latin, Fallback: "sans-serif"},
}

// ClassName returns the name of the class that binds the font variable.
func (f Font) ClassName() string {
	return "var-" + f.name()
}

// Utility returns the name of the class that applies the font, e.g. font-lato.
func (f Font) Utility() string {
	return f.name()
}

func (f Font) name() string {
	return strings.TrimPrefix(f.Variable, "--")
}

// Variables returns class names of all fonts joined by spaces.
func Variables() string {
	names := make([]string, len(All))
	for i, f := range All {
		names[i] = f.ClassName()
	}
	return strings.Join(names, " ")
}

// StylesheetURL returns the Google Fonts URL that loads all fonts.
func StylesheetURL() string {
	q := make([]string, 0, len(All)+1)
	for _, f := range All {
		family := url.QueryEscape(f.Family)
		if len(f.Weights) > 0 {
			family += ":wght@" + strings.Join(f.Weights, ";")
		}
		q = append(q, "family="+family)
	}
	q = append(q, "display=swap")
	return "https://fonts.googleapis.com/css2?" + strings.Join(q, "&")
}

// CSS returns the stylesheet that defines font variables and utilities.
func CSS() []byte {
	var sb strings.Builder
	for _, f := range All {
		fmt.Fprintf(&sb, ".%s {\n  %s: %q, %s;\n}\n", f.ClassName(), f.Variable, f.Family, f.Fallback)
	}
	for _, f := range All {
		fmt.Fprintf(&sb, ".%s {\n  font-family: var(%s);\n}\n", f.Utility(), f.Variable)
	}
	return []byte(sb.String())
}
