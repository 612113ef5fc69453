package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMutation(t *testing.T) {
	testCases := []struct {
		name          string
		query         string
		operationName string
		want          bool
	}{
		{name: "anonymous query", query: `{ allMessages { id } }`},
		{name: "named query", query: `query List { allMessages { id } }`},
		{name: "mutation", query: `mutation { sendMessage(author: "a", text: "b") { id } }`, want: true},
		{name: "mutation with variables", query: `mutation Send($text: String = "{") { sendMessage(text: $text) { id } }`, want: true},
		{name: "keyword inside comment", query: `{ allMessages { text } } # mutation`},
		{name: "keyword inside string", query: `query Q($t: String = "mutation { x }") { allMessages { text } }`},
		{name: "leading comment", query: "# read only\nmutation { sendMessage { id } }", want: true},
		{
			name:          "selected by name",
			query:         `query List { allMessages { id } } mutation Send { sendMessage { id } }`,
			operationName: "Send",
			want:          true,
		},
		{
			name:          "query selected from mixed document",
			query:         `query List { allMessages { id } } mutation Send { sendMessage { id } }`,
			operationName: "List",
		},
		{
			name:  "fragment is not an operation",
			query: `fragment F on Message { id } mutation { sendMessage { ...F } }`,
			want:  true,
		},
		{name: "ambiguous without name", query: `query A { allMessages { id } } mutation B { sendMessage { id } }`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isMutation(tc.query, tc.operationName))
		})
	}
}
