package site

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/ziadkadry99/techtree/internal/catalogue"
)

// kindOrder is the sidebar section order.
var kindOrder = []catalogue.Kind{
	catalogue.KindBuilding,
	catalogue.KindUnit,
	catalogue.KindUniqueUnit,
	catalogue.KindTechnology,
}

var kindTitles = map[catalogue.Kind]string{
	catalogue.KindBuilding:   "Buildings",
	catalogue.KindUnit:       "Units",
	catalogue.KindUniqueUnit: "Unique Units",
	catalogue.KindTechnology: "Technologies",
}

// Nav is the sidebar: entity pages grouped by kind.
type Nav struct {
	Sections []NavSection
}

// NavSection is one kind group.
type NavSection struct {
	Kind    catalogue.Kind
	Title   string
	Entries []NavEntry
}

// NavEntry links to one entity page.
type NavEntry struct {
	Title string
	Path  string // relative to the site root
}

// buildNav groups pages by kind. Empty kinds are left out; entries are
// sorted by title.
func buildNav(pages []page) *Nav {
	byKind := make(map[catalogue.Kind][]NavEntry)
	for _, p := range pages {
		byKind[p.node.Kind] = append(byKind[p.node.Kind], NavEntry{Title: p.help.Name, Path: p.relPath})
	}

	nav := &Nav{}
	for _, k := range kindOrder {
		entries := byKind[k]
		if len(entries) == 0 {
			continue
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Title != entries[j].Title {
				return entries[i].Title < entries[j].Title
			}
			return entries[i].Path < entries[j].Path
		})
		nav.Sections = append(nav.Sections, NavSection{Kind: k, Title: kindTitles[k], Entries: entries})
	}
	return nav
}

// ToHTML renders the nav as nested <ul><li> HTML. basePath is the relative
// prefix back to the site root; the section holding activePath is expanded.
func (n *Nav) ToHTML(activePath, basePath string) string {
	var b strings.Builder
	homeActive := ""
	if activePath == "index.html" {
		homeActive = ` class="active"`
	}
	fmt.Fprintf(&b, `<ul><li class="file home-link"><a href="%sindex.html"%s>Home</a></li></ul>`+"\n", basePath, homeActive)

	b.WriteString("<ul>\n")
	for _, sec := range n.Sections {
		expanded := ""
		if sectionHas(sec, activePath) {
			expanded = "expanded"
		}
		fmt.Fprintf(&b, `<li class="dir %s"><span class="dir-toggle">%s</span>`+"\n<ul>\n", expanded, sec.Title)
		for _, e := range sec.Entries {
			active := ""
			if e.Path == activePath {
				active = ` class="active"`
			}
			fmt.Fprintf(&b, `<li class="file"><a href="%s%s"%s>%s</a></li>`+"\n", basePath, e.Path, active, html.EscapeString(e.Title))
		}
		b.WriteString("</ul>\n</li>\n")
	}
	b.WriteString("</ul>\n")
	return b.String()
}

func sectionHas(sec NavSection, path string) bool {
	for _, e := range sec.Entries {
		if e.Path == path {
			return true
		}
	}
	return false
}
