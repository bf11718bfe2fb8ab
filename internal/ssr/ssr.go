package ssr

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/studyassistant/internal/errors"
	"golang.org/x/net/html"
	"io"
	"net/url"
	"strings"
)

// PostProcess rewrites rendered HTML before it is sent to the browser.
//
// Links leaving the site open in a new tab without access to window.opener. Navigation links marked with
// data-nav="/path" get aria-current="page" when the path equals currentPath.
//
// A complete document is written as such. A fragment, as returned to htmx, is written without the html, head and
// body elements the parser adds around it.
func PostProcess(w io.Writer, r io.Reader, currentPath string) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "read html")
	}
	isDocument := strings.HasPrefix(strings.ToLower(strings.TrimSpace(string(raw))), "<!doctype")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	if err != nil {
		return errors.Wrap(err, "parse html")
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if isExternal(href) {
			s.SetAttr("target", "_blank")
			s.SetAttr("rel", "noopener noreferrer")
		}
	})
	doc.Find("[data-nav]").Each(func(_ int, s *goquery.Selection) {
		if path, _ := s.Attr("data-nav"); path == currentPath {
			s.SetAttr("aria-current", "page")
		}
		s.RemoveAttr("data-nav")
	})

	if isDocument {
		if err = html.Render(w, doc.Nodes[0]); err != nil {
			return errors.Wrap(err, "render html document")
		}
		return nil
	}

	body := doc.Find("body")
	if len(body.Nodes) == 0 {
		return nil
	}
	for c := body.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
		if err = html.Render(w, c); err != nil {
			return errors.Wrap(err, "render html fragment")
		}
	}
	return nil
}

func isExternal(href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
