package parser

// Section is one documentation heading together with the endpoints listed in its table.
// Sections without endpoints are never produced.
type Section struct {
	Name      string     `json:"name"`
	Endpoints []Endpoint `json:"endpoints"`
}

// Endpoint is a single row of a help page table.
type Endpoint struct {
	Method      string `json:"method"`
	Path        string `json:"endpoint"` // path plus optional query string
	Description string `json:"description"`
	Href        string `json:"href,omitempty"`
}

// Key identifies an endpoint across runs.
func (e Endpoint) Key() string {
	return e.Method + " " + e.Path
}

// CountEndpoints returns the total number of endpoints over all sections.
func CountEndpoints(sections []Section) int {
	n := 0
	for _, s := range sections {
		n += len(s.Endpoints)
	}
	return n
}
