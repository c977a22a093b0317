package generator

import (
	"strings"

	"help2postman/internal/parser"
)

type Options struct {
	BaseURL string
	APIKey  string
}

// Generator maps parsed help page sections to a Postman collection.
type Generator struct {
	opts Options
}

func New(opts Options) *Generator {
	return &Generator{opts: opts}
}

// Generate builds one folder per section and one request per endpoint, keeping
// the parsed order. Nothing is sorted, merged or deduplicated.
func (g *Generator) Generate(sections []parser.Section) *Collection {
	c := &Collection{
		Info: Info{
			Name:        CollectionName,
			Description: CollectionDescription,
			Schema:      SchemaURL,
		},
		Variable: []Variable{
			{Key: BaseURLVariable, Value: g.opts.BaseURL, Type: "string"},
		},
		Item: make([]Folder, 0, len(sections)),
	}

	for _, s := range sections {
		folder := Folder{Name: s.Name, Item: make([]Item, 0, len(s.Endpoints))}
		for _, ep := range s.Endpoints {
			folder.Item = append(folder.Item, g.buildItem(ep))
		}
		c.Item = append(c.Item, folder)
	}
	return c
}

func (g *Generator) buildItem(ep parser.Endpoint) Item {
	return Item{
		Name: ep.Path,
		Request: Request{
			Method: ep.Method,
			Header: []Header{
				{Key: APIKeyHeader, Value: g.opts.APIKey, Description: APIKeyDescription},
			},
			URL:         BuildURL(ep.Path),
			Description: ep.Description,
		},
	}
}

// BuildURL decomposes an endpoint into path segments and query keys.
// Raw is always the untouched endpoint appended to the base URL variable.
// Query values are replaced by a placeholder named after the key; the literal
// values in the endpoint are dropped.
func BuildURL(endpoint string) URL {
	pathPart, queryPart, hasQuery := strings.Cut(endpoint, "?")

	query := []QueryParam{}
	if hasQuery {
		for _, fragment := range strings.Split(queryPart, "&") {
			key, _, _ := strings.Cut(fragment, "=")
			query = append(query, QueryParam{Key: key, Value: "{{" + key + "}}"})
		}
	}

	return URL{
		Raw:   "{{" + BaseURLVariable + "}}/" + endpoint,
		Host:  []string{"{{" + BaseURLVariable + "}}"},
		Path:  strings.Split(strings.TrimPrefix(pathPart, "/"), "/"),
		Query: query,
	}
}
