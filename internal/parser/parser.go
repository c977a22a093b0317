package parser

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

var (
	// ErrMalformedLink is returned when a link label is not of the form "METHOD path".
	ErrMalformedLink = errors.New("malformed endpoint link")
	// ErrMissingDescription is returned when a linked row has no description cell.
	ErrMissingDescription = errors.New("missing description cell")
)

const (
	DefaultHeadingTag       = "h2"
	DefaultTableClass       = "help-page-table"
	DefaultDescriptionClass = "api-documentation"
)

// Options selects the markers used to recognize sections on the help page.
type Options struct {
	HeadingTag       string
	TableClass       string
	DescriptionClass string
	// StopAtNextHeading keeps a heading from binding to a table that follows a later heading.
	StopAtNextHeading bool
}

// Parser extracts sections and endpoints from a help page.
type Parser struct {
	opts Options
}

// New creates a parser; empty options fall back to the defaults.
func New(opts Options) *Parser {
	if opts.HeadingTag == "" {
		opts.HeadingTag = DefaultHeadingTag
	}
	if opts.TableClass == "" {
		opts.TableClass = DefaultTableClass
	}
	if opts.DescriptionClass == "" {
		opts.DescriptionClass = DefaultDescriptionClass
	}
	return &Parser{opts: opts}
}

// ParseString is a convenience wrapper around Parse.
func (p *Parser) ParseString(doc string) ([]Section, error) {
	return p.Parse(strings.NewReader(doc))
}

// Parse walks the document in order. Each heading binds to the first matching
// table that follows it anywhere later in the document, unless StopAtNextHeading
// is set. A malformed row aborts the whole parse.
func (p *Parser) Parse(r io.Reader) ([]Section, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	nodes := Flatten(root)
	isHeading := Tag(p.opts.HeadingTag)
	isTable := TagWithClass("table", p.opts.TableClass)

	sections := []Section{}
	for pos, heading := range nodes {
		if !isHeading(heading) {
			continue
		}
		at, table := FindNext(nodes, pos, isTable)
		if table == nil {
			continue
		}
		if p.opts.StopAtNextHeading {
			if next, _ := FindNext(nodes, pos, isHeading); next != -1 && next < at {
				continue
			}
		}

		name := strings.TrimSpace(Text(heading))
		endpoints, err := p.parseTable(name, table)
		if err != nil {
			return nil, err
		}
		if len(endpoints) > 0 {
			sections = append(sections, Section{Name: name, Endpoints: endpoints})
		}
	}
	return sections, nil
}

func (p *Parser) parseTable(section string, table *html.Node) ([]Endpoint, error) {
	tbody := firstDescendant(table, Tag("tbody"))
	if tbody == nil {
		return nil, nil
	}

	var endpoints []Endpoint
	for i, row := range FindAll(Flatten(tbody), 0, Tag("tr")) {
		link := firstDescendant(row, Tag("a"))
		if link == nil {
			continue
		}

		cell := firstDescendant(row, TagWithClass("td", p.opts.DescriptionClass))
		if cell == nil {
			return nil, fmt.Errorf("section %q row %d: %w", section, i+1, ErrMissingDescription)
		}

		label := Text(link)
		method, path, ok := strings.Cut(label, " ")
		if !ok {
			return nil, fmt.Errorf("section %q row %d: %w: %q has no space separator", section, i+1, ErrMalformedLink, label)
		}

		endpoints = append(endpoints, Endpoint{
			Method:      strings.TrimSpace(method),
			Path:        strings.TrimSpace(path),
			Description: strings.TrimSpace(Text(cell)),
			Href:        Attr(link, "href"),
		})
	}
	return endpoints, nil
}
