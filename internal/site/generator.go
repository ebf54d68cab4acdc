package site

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ziadkadry99/techtree/internal/catalogue"
	"github.com/ziadkadry99/techtree/internal/diagrams"
	"github.com/ziadkadry99/techtree/internal/engine"
	"github.com/ziadkadry99/techtree/internal/progress"
)

// Generator exports one static HTML page per laid-out entity.
type Generator struct {
	Engine    *engine.Engine
	OutputDir string
	Title     string
	Progress  progress.Reporter
}

// NewGenerator creates a Generator writing to outputDir.
func NewGenerator(eng *engine.Engine, outputDir, title string) *Generator {
	return &Generator{
		Engine:    eng,
		OutputDir: outputDir,
		Title:     title,
		Progress:  progress.Nop{},
	}
}

// pageData holds the data passed to the HTML template for each page.
type pageData struct {
	Title     string
	SiteTitle string
	Content   template.HTML
	NavHTML   template.HTML
	BasePath  string
}

// page is one entity page before rendering.
type page struct {
	node     catalogue.Node
	help     engine.Help
	relPath  string
	markdown string
}

// Generate writes the site. Returns the number of entity pages generated.
func (g *Generator) Generate() (int, error) {
	nodes := g.Engine.Catalogue.Layout.Nodes
	if len(nodes) == 0 {
		return 0, fmt.Errorf("no nodes in layout; run `techtree import` first")
	}

	children := g.childIndex()
	pages := make([]page, 0, len(nodes))
	for _, n := range nodes {
		h := g.Engine.ComposeNode(n)
		pages = append(pages, page{
			node:     n,
			help:     h,
			relPath:  PagePath(n),
			markdown: g.entityMarkdown(n, h, children[n.ID]),
		})
	}
	nav := buildNav(pages)

	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return 0, err
	}

	if err := WriteSearchIndex(buildSearchIndex(pages), filepath.Join(g.OutputDir, "search-index.json")); err != nil {
		return 0, fmt.Errorf("writing search index: %w", err)
	}

	// Write static assets.
	if err := os.WriteFile(filepath.Join(g.OutputDir, "style.css"), []byte(cssContent), 0o644); err != nil {
		return 0, err
	}
	if err := os.WriteFile(filepath.Join(g.OutputDir, "script.js"), []byte(jsContent), 0o644); err != nil {
		return 0, err
	}

	md := newMarkdown()

	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return 0, fmt.Errorf("parsing page template: %w", err)
	}

	g.Progress.Start(len(pages) + 1)
	defer g.Progress.Finish()

	if err := g.renderPage(md, tmpl, nav, "index.html", g.Title, g.indexMarkdown(nav)); err != nil {
		return 0, fmt.Errorf("rendering index: %w", err)
	}
	g.Progress.Update(1, "index.html")

	for i, p := range pages {
		if err := g.renderPage(md, tmpl, nav, p.relPath, p.help.Name, p.markdown); err != nil {
			return 0, fmt.Errorf("rendering %s: %w", p.node.ID, err)
		}
		g.Progress.Update(i+2, p.relPath)
	}

	return len(pages), nil
}

// newMarkdown configures goldmark. Raw HTML is kept because composed help
// text is already markup.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
}

// renderPage converts markdown to a full HTML page at relPath.
func (g *Generator) renderPage(md goldmark.Markdown, tmpl *template.Template, nav *Nav, relPath, title, content string) error {
	var htmlBuf bytes.Buffer
	if err := md.Convert([]byte(content), &htmlBuf); err != nil {
		return fmt.Errorf("converting markdown: %w", err)
	}

	outPath := filepath.Join(g.OutputDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	basePath := strings.Repeat("../", strings.Count(relPath, "/"))

	data := pageData{
		Title:     title,
		SiteTitle: g.Title,
		Content:   template.HTML(htmlBuf.String()),
		NavHTML:   template.HTML(nav.ToHTML(relPath, basePath)),
		BasePath:  basePath,
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return tmpl.Execute(f, data)
}

// PagePath returns the output path of a node's page, e.g. "unit/unit_4.html".
func PagePath(n catalogue.Node) string {
	return n.Kind.Prefix() + "/" + n.ID + ".html"
}

func (g *Generator) childIndex() map[string][]string {
	children := make(map[string][]string)
	for _, c := range g.Engine.Catalogue.Layout.Connections {
		// Only the edge the graph kept counts.
		if p, ok := g.Engine.Graph.Parent(c.Child); ok && p == c {
			children[c.Parent] = append(children[c.Parent], c.Child)
		}
	}
	for _, ids := range children {
		sort.Strings(ids)
	}
	return children
}

// link renders a markdown link to the page of id, relative to another
// entity page.
func (g *Generator) link(id string) string {
	n, ok := g.Engine.Catalogue.Layout.Node(id)
	if !ok {
		return id
	}
	return fmt.Sprintf("[%s](../%s)", g.Engine.Catalogue.DisplayName(n), PagePath(n))
}

func (g *Generator) label(id string) string {
	if n, ok := g.Engine.Catalogue.Layout.Node(id); ok {
		return g.Engine.Catalogue.DisplayName(n)
	}
	return id
}

// entityMarkdown builds the markdown source of an entity page.
func (g *Generator) entityMarkdown(n catalogue.Node, h engine.Help, children []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", h.Name)
	fmt.Fprintf(&b, "`%s` · `%s`", n.Kind, n.ID)
	if h.Cost != "" {
		fmt.Fprintf(&b, " · Cost:%s", h.Cost)
	}
	b.WriteString("\n\n")

	// One line, so goldmark passes it through as a single HTML block.
	b.WriteString(`<div class="helptext">` + h.Help + "</div>\n\n")
	if h.Advanced != "" {
		b.WriteString(`<div class="helptext helptext--advanced">` + h.Advanced + "</div>\n\n")
	}

	path := g.Engine.Graph.HighlightPath(n.ID)
	if len(path) > 1 {
		b.WriteString("## Requires\n\n")
		for _, step := range path[1:] {
			fmt.Fprintf(&b, "- %s\n", g.link(step.Node))
		}
		b.WriteString("\n")
		diagram := diagrams.PathDiagram(path, g.label)
		b.WriteString(`<pre class="mermaid">` + template.HTMLEscapeString(diagram) + "</pre>\n\n")
	}

	if len(children) > 0 {
		b.WriteString("## Leads to\n\n")
		for _, id := range children {
			fmt.Fprintf(&b, "- %s\n", g.link(id))
		}
		b.WriteString("\n")
	}

	if badges := g.Engine.Civs.Badges(n.Kind, n.ID); len(badges) > 0 {
		b.WriteString("## Availability\n\n| Civilization | Available |\n|---|---|\n")
		for _, badge := range badges {
			mark := "no"
			if badge.Available {
				mark = "yes"
			}
			fmt.Fprintf(&b, "| %s | %s |\n", badge.Civ, mark)
		}
		b.WriteString("\n")
	}

	if e, err := g.Engine.Catalogue.EntityForNode(n.Kind, n.ID); err == nil && e.Stats != nil {
		if data, err := json.MarshalIndent(e, "", "  "); err == nil {
			b.WriteString("## Stat record\n\n```json\n")
			b.Write(data)
			b.WriteString("\n```\n")
		}
	}
	return b.String()
}

// indexMarkdown builds the landing page: every entity grouped by kind.
func (g *Generator) indexMarkdown(nav *Nav) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", g.Title)
	fmt.Fprintf(&b, "%d entities, %d civilizations.\n\n", len(g.Engine.Catalogue.Layout.Nodes), len(g.Engine.Civs.Civs()))
	for _, sec := range nav.Sections {
		fmt.Fprintf(&b, "## %s\n\n", sec.Title)
		for _, e := range sec.Entries {
			fmt.Fprintf(&b, "- [%s](%s)\n", e.Title, e.Path)
		}
		b.WriteString("\n")
	}
	return b.String()
}
