package fetch

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Posting is the readable content of a job posting page.
type Posting struct {
	URL     string
	Title   string
	Company string
	Text    string
}

// baseNoise is removed from every page before extraction.
const baseNoise = "nav, footer, header, script, style, noscript, iframe, svg, .ad, .advertisement, .sidebar, .cookie-banner, .popup"

// ExtractPosting parses posting HTML. Content comes from the first platform
// selector that matches, falling back to <body>.
func ExtractPosting(html string, platform Platform) (*Posting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	p := &Posting{
		Title:   firstNonEmpty(metaContent(doc, "og:title"), doc.Find("h1").First().Text(), doc.Find("title").First().Text()),
		Company: metaContent(doc, "og:site_name"),
	}

	doc.Find(baseNoise).Remove()
	if noise := strings.Join(noiseSelectors(platform), ", "); noise != "" {
		doc.Find(noise).Remove()
	}

	var content *goquery.Selection
	for _, selector := range contentSelectors(platform) {
		if sel := doc.Find(selector); sel.Length() > 0 {
			content = sel.First()
			break
		}
	}
	if content == nil {
		content = doc.Find("body")
	}

	p.Text = blockText(content)
	p.Title = collapseSpaces(p.Title)
	p.Company = collapseSpaces(p.Company)
	return p, nil
}

func metaContent(doc *goquery.Document, property string) string {
	sel := doc.Find(fmt.Sprintf(`meta[property=%q], meta[name=%q]`, property, property)).First()
	v, _ := sel.Attr("content")
	return v
}

// blockText renders a selection as lines, one per block element, so that
// section headings in the posting stay on their own lines.
func blockText(sel *goquery.Selection) string {
	sel.Find("br").ReplaceWithHtml("\n")
	sel.Find("p, div, li, h1, h2, h3, h4, h5, h6, tr, section, ul, ol").Each(func(_ int, s *goquery.Selection) {
		s.BeforeHtml("\n")
		s.AfterHtml("\n")
	})
	sel.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("- ")
	})
	return cleanWhitespace(sel.Text())
}

// cleanWhitespace trims each line, collapses inner runs of spaces and drops blank lines.
func cleanWhitespace(text string) string {
	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		if line = collapseSpaces(line); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
