package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const helpPage = `<html><body>
<h1>ASP.NET Web API Help Page</h1>
<h2> Users </h2>
<table class="help-page-table">
  <thead><tr><th>API</th><th>Description</th></tr></thead>
  <tbody>
    <tr><td class="api-name"><a href="/Help/Api/GET-api-users">GET api/users</a></td>
        <td class="api-documentation"><p>  List users. </p></td></tr>
    <tr><td class="api-name"><a href="/Help/Api/GET-api-users-id">GET api/users/{id}?expand=true</a></td>
        <td class="api-documentation">Get one user.</td></tr>
    <tr><td class="api-name">no link here</td><td class="api-documentation">skipped</td></tr>
  </tbody>
</table>
<h2>Empty</h2>
<p>nothing documented</p>
<h2>Orders</h2>
<div><div>
<table class="wide help-page-table">
  <tbody>
    <tr><td><a href="#">POST api/orders</a></td><td class="api-documentation">Create order.</td></tr>
  </tbody>
</table>
</div></div>
</body></html>`

func TestParser_Parse_SectionsInDocumentOrder(t *testing.T) {
	sections, err := New(Options{}).ParseString(helpPage)
	require.NoError(t, err)

	// "Empty" binds to the Orders table, which is the next matching table in the document.
	require.Len(t, sections, 3)
	assert.Equal(t, "Users", sections[0].Name)
	assert.Equal(t, "Empty", sections[1].Name)
	assert.Equal(t, "Orders", sections[2].Name)

	users := sections[0].Endpoints
	require.Len(t, users, 2, "row without a link must be skipped")
	assert.Equal(t, Endpoint{
		Method:      "GET",
		Path:        "api/users",
		Description: "List users.",
		Href:        "/Help/Api/GET-api-users",
	}, users[0])
	assert.Equal(t, "api/users/{id}?expand=true", users[1].Path)

	assert.Equal(t, "POST", sections[2].Endpoints[0].Method)
	assert.Equal(t, 4, CountEndpoints(sections))
}

func TestParser_Parse_HeadingWithoutFollowingTableIsSkipped(t *testing.T) {
	doc := `<table class="help-page-table"><tbody>
<tr><td><a>GET a</a></td><td class="api-documentation">x</td></tr>
</tbody></table>
<h2>Trailing</h2><p>no table after me</p>`

	sections, err := New(Options{}).ParseString(doc)
	require.NoError(t, err)
	assert.Empty(t, sections, "a heading must not bind to a table that precedes it")
}

func TestParser_Parse_IgnoresTablesWithoutMarker(t *testing.T) {
	doc := `<h2>Other</h2><table class="layout"><tbody>
<tr><td><a>GET a</a></td><td class="api-documentation">x</td></tr>
</tbody></table>`

	sections, err := New(Options{}).ParseString(doc)
	require.NoError(t, err)
	assert.Empty(t, sections)
}

func TestParser_Parse_NoRowsYieldsNoSection(t *testing.T) {
	doc := `<h2>Empty table</h2><table class="help-page-table"></table>
<h2>Only unlinked</h2><table class="help-page-table"><tbody><tr><td>x</td></tr></tbody></table>`

	sections, err := New(Options{}).ParseString(doc)
	require.NoError(t, err)
	assert.Empty(t, sections)
}

func TestParser_Parse_CountsPerSection(t *testing.T) {
	var sb strings.Builder
	for s := 0; s < 3; s++ {
		sb.WriteString("<h2>S</h2><table class=\"help-page-table\"><tbody>")
		for r := 0; r < 4; r++ {
			sb.WriteString(`<tr><td><a href="#">GET x/y</a></td><td class="api-documentation">d</td></tr>`)
		}
		sb.WriteString("</tbody></table>")
	}

	sections, err := New(Options{}).ParseString(sb.String())
	require.NoError(t, err)
	require.Len(t, sections, 3)
	for _, s := range sections {
		assert.Len(t, s.Endpoints, 4)
	}
}

func TestParser_Parse_LinkWithoutSpaceAborts(t *testing.T) {
	doc := `<h2>Bad</h2><table class="help-page-table"><tbody>
<tr><td><a>GET api/ok</a></td><td class="api-documentation">ok</td></tr>
<tr><td><a>GET</a></td><td class="api-documentation">broken</td></tr>
</tbody></table>`

	sections, err := New(Options{}).ParseString(doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedLink)
	assert.Contains(t, err.Error(), `section "Bad" row 2`)
	assert.Nil(t, sections)
}

func TestParser_Parse_MissingDescriptionAborts(t *testing.T) {
	doc := `<h2>Bad</h2><table class="help-page-table"><tbody>
<tr><td><a>GET api/ok</a></td><td>no marker</td></tr>
</tbody></table>`

	_, err := New(Options{}).ParseString(doc)
	assert.ErrorIs(t, err, ErrMissingDescription)
}

func TestParser_Parse_CustomMarkers(t *testing.T) {
	doc := `<h3>Custom</h3><table class="endpoints"><tbody>
<tr><td><a>DELETE items/1</a></td><td class="doc">Remove.</td></tr>
</tbody></table>`

	sections, err := New(Options{HeadingTag: "h3", TableClass: "endpoints", DescriptionClass: "doc"}).ParseString(doc)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "DELETE", sections[0].Endpoints[0].Method)
	assert.Equal(t, "Remove.", sections[0].Endpoints[0].Description)
}

func TestFindNext_FirstMatchAfterPosition(t *testing.T) {
	root, err := html.Parse(strings.NewReader(`<div><p id="a"></p><section><p id="b"></p></section><p id="c"></p></div>`))
	require.NoError(t, err)
	nodes := Flatten(root)

	first, a := FindNext(nodes, -1, Tag("p"))
	require.NotNil(t, a)
	assert.Equal(t, "a", Attr(a, "id"))

	_, b := FindNext(nodes, first, Tag("p"))
	require.NotNil(t, b)
	assert.Equal(t, "b", Attr(b, "id"), "nested elements count in document order")

	idx, none := FindNext(nodes, len(nodes)-1, Tag("p"))
	assert.Equal(t, -1, idx)
	assert.Nil(t, none)

	assert.Len(t, FindAll(nodes, -1, Tag("p")), 3)
}

func TestHasClass_MatchesTokens(t *testing.T) {
	n := &html.Node{Type: html.ElementNode, Data: "td", Attr: []html.Attribute{{Key: "class", Val: "x  api-documentation y"}}}
	assert.True(t, HasClass(n, "api-documentation"))
	assert.False(t, HasClass(n, "api"))
}

func TestParser_Parse_StopAtNextHeading(t *testing.T) {
	sections, err := New(Options{StopAtNextHeading: true}).ParseString(helpPage)
	require.NoError(t, err)

	require.Len(t, sections, 2)
	assert.Equal(t, "Users", sections[0].Name)
	assert.Equal(t, "Orders", sections[1].Name)
}
