package internal

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// DefaultTOCHrefPrefix points from the toc directory to the generated pages
const DefaultTOCHrefPrefix = "../contents/"

// TOC manages the RoboHelp .toc XML file listing every help page.
// The file is read on every call; nothing is held between calls.
type TOC struct {
	path       string
	hrefPrefix string
}

// NewTOC creates a TOC manager for the file at path
func NewTOC(path, hrefPrefix string) *TOC {
	if hrefPrefix == "" {
		hrefPrefix = DefaultTOCHrefPrefix
	}
	return &TOC{path: path, hrefPrefix: hrefPrefix}
}

// Path returns the location of the .toc file
func (t *TOC) Path() string {
	return t.path
}

func (t *TOC) load() (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(t.path); err != nil {
		return nil, fmt.Errorf("reading toc %s: %w", t.path, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("toc %s has no root element", t.path)
	}
	return doc, nil
}

// Pages returns the href of every page element, in document order
func (t *TOC) Pages() ([]string, error) {
	doc, err := t.load()
	if err != nil {
		return nil, err
	}
	var hrefs []string
	for _, page := range pageElements(doc.Root()) {
		hrefs = append(hrefs, page.SelectAttrValue("href", ""))
	}
	return hrefs, nil
}

// pageElements walks el in pre-order and collects page elements at any depth
func pageElements(el *etree.Element) []*etree.Element {
	var pages []*etree.Element
	for _, child := range el.ChildElements() {
		if child.Tag == "page" {
			pages = append(pages, child)
		}
		pages = append(pages, pageElements(child)...)
	}
	return pages
}

// IsListed reports whether some page href ends with filename
func (t *TOC) IsListed(filename string) (bool, error) {
	doc, err := t.load()
	if err != nil {
		return false, err
	}
	return isListed(doc, filename), nil
}

func isListed(doc *etree.Document, filename string) bool {
	for _, page := range pageElements(doc.Root()) {
		if strings.HasSuffix(page.SelectAttrValue("href", ""), filename) {
			return true
		}
	}
	return false
}

// Add appends a page entry for filename under the root element and rewrites
// the file with tab indentation. It returns false, without touching the file,
// when the filename is already listed.
func (t *TOC) Add(filename string) (bool, error) {
	doc, err := t.load()
	if err != nil {
		return false, err
	}
	if isListed(doc, filename) {
		return false, nil
	}

	page := doc.Root().CreateElement("page")
	page.CreateAttr("href", t.hrefPrefix+filename)

	doc.IndentTabs()
	if err := doc.WriteToFile(t.path); err != nil {
		return false, fmt.Errorf("writing toc %s: %w", t.path, err)
	}
	return true, nil
}
