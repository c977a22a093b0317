package generator

// Postman collection v2.1 shapes. Only the fields the generator emits are modeled.

const (
	CollectionName        = "API Collection"
	CollectionDescription = "Generated from the Help page"
	SchemaURL             = "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"

	BaseURLVariable   = "baseUrl"
	APIKeyHeader      = "apiKey"
	APIKeyDescription = "API key for authentication"
)

type Collection struct {
	Info     Info       `json:"info"`
	Variable []Variable `json:"variable"`
	Item     []Folder   `json:"item"`
}

type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Schema      string `json:"schema"`
}

type Variable struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

// Folder groups the requests of one help page section.
type Folder struct {
	Name string `json:"name"`
	Item []Item `json:"item"`
}

type Item struct {
	Name    string  `json:"name"`
	Request Request `json:"request"`
}

type Request struct {
	Method      string   `json:"method"`
	Header      []Header `json:"header"`
	URL         URL      `json:"url"`
	Description string   `json:"description"`
}

type Header struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

type URL struct {
	Raw   string       `json:"raw"`
	Host  []string     `json:"host"`
	Path  []string     `json:"path"`
	Query []QueryParam `json:"query"`
}

type QueryParam struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// RequestCount returns the number of requests over all folders.
func (c *Collection) RequestCount() int {
	n := 0
	for _, f := range c.Item {
		n += len(f.Item)
	}
	return n
}
