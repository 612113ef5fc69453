package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage_DisplayAuthor(t *testing.T) {
	tests := []struct {
		name   string
		author string
		want   string
	}{
		{name: "named author", author: "Alice", want: "Alice"},
		{name: "empty author", author: "", want: AnonymousAuthor},
		{name: "whitespace is kept", author: " ", want: " "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := Message{ID: 1, Author: tt.author, Text: "Hello"}
			assert.Equal(t, tt.want, msg.DisplayAuthor())
			assert.Equal(t, tt.author, msg.Author, "display label must not mutate the stored author")
		})
	}
}
