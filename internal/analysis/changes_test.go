package analysis

import (
	"testing"

	"help2postman/internal/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare_AddedAndRemoved(t *testing.T) {
	prev := []parser.Section{
		{Name: "Users", Endpoints: []parser.Endpoint{
			{Method: "GET", Path: "api/users"},
			{Method: "DELETE", Path: "api/users/{id}"},
		}},
	}
	curr := []parser.Section{
		{Name: "Users", Endpoints: []parser.Endpoint{
			{Method: "GET", Path: "api/users"},
		}},
		{Name: "Orders", Endpoints: []parser.Endpoint{
			{Method: "POST", Path: "api/orders"},
		}},
	}

	report := Compare(prev, curr)
	require.True(t, report.HasChanges())
	require.Len(t, report.Added, 1)
	assert.Equal(t, "Orders", report.Added[0].Section)
	assert.Equal(t, "POST api/orders", report.Added[0].Endpoint.Key())
	require.Len(t, report.Removed, 1)
	assert.Equal(t, "DELETE", report.Removed[0].Endpoint.Method)
}

func TestCompare_MovedEndpointIsNotAChange(t *testing.T) {
	prev := []parser.Section{{Name: "A", Endpoints: []parser.Endpoint{{Method: "GET", Path: "x"}}}}
	curr := []parser.Section{{Name: "B", Endpoints: []parser.Endpoint{{Method: "GET", Path: "x"}}}}

	report := Compare(prev, curr)
	assert.False(t, report.HasChanges())
	assert.Empty(t, report.Added)
	assert.Empty(t, report.Removed)
}
