package api

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/graph-gophers/graphql-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/livechat/internal/testutils"
)

func newTestSchema(t *testing.T, svc ChatService) *graphql.Schema {
	t.Helper()
	schema, err := NewSchema(svc)
	require.NoError(t, err)
	return schema
}

type messageJSON struct {
	ID     int    `json:"id"`
	Author string `json:"author"`
	Text   string `json:"text"`
}

const (
	allMessagesQuery = `{ allMessages { id author text } }`
	sendMutation     = `mutation Send($author: String!, $text: String!) { sendMessage(author: $author, text: $text) { id author text } }`
	sentSubscription = `subscription { messageSent { id author text } }`
)

func TestSchema_AllMessagesEmpty(t *testing.T) {
	schema := newTestSchema(t, testutils.NewChatService(t))

	resp := schema.Exec(context.Background(), allMessagesQuery, "", nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"allMessages":[]}`, string(resp.Data))
}

func TestSchema_SendMessageThenList(t *testing.T) {
	schema := newTestSchema(t, testutils.NewChatService(t))
	ctx := context.Background()

	resp := schema.Exec(ctx, sendMutation, "Send", map[string]interface{}{"author": "Alice", "text": "hi"})
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"sendMessage":{"id":1,"author":"Alice","text":"hi"}}`, string(resp.Data))

	resp = schema.Exec(ctx, sendMutation, "Send", map[string]interface{}{"author": "Bob", "text": "yo"})
	require.Empty(t, resp.Errors)

	resp = schema.Exec(ctx, allMessagesQuery, "", nil)
	require.Empty(t, resp.Errors)

	var data struct {
		AllMessages []messageJSON `json:"allMessages"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, []messageJSON{
		{ID: 1, Author: "Alice", Text: "hi"},
		{ID: 2, Author: "Bob", Text: "yo"},
	}, data.AllMessages)
}

func TestSchema_SendMessageAcceptsEmptyValues(t *testing.T) {
	schema := newTestSchema(t, testutils.NewChatService(t))

	resp := schema.Exec(context.Background(), sendMutation, "Send", map[string]interface{}{"author": "", "text": ""})
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"sendMessage":{"id":1,"author":"","text":""}}`, string(resp.Data))
}

func TestSchema_SendMessageRequiresArguments(t *testing.T) {
	schema := newTestSchema(t, testutils.NewChatService(t))

	resp := schema.Exec(context.Background(), `mutation { sendMessage(author: "Alice") { id } }`, "", nil)
	assert.NotEmpty(t, resp.Errors)
}

func TestSchema_MessageSentStreamsNewMessages(t *testing.T) {
	svc := testutils.NewChatService(t)
	schema := newTestSchema(t, svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc.SendMessage(ctx, "Alice", "before")

	responses, err := schema.Subscribe(ctx, sentSubscription, "", nil)
	require.NoError(t, err)

	svc.SendMessage(ctx, "Bob", "after")

	select {
	case r := <-responses:
		resp, ok := r.(*graphql.Response)
		require.True(t, ok)
		require.Empty(t, resp.Errors)
		assert.JSONEq(t, `{"messageSent":{"id":2,"author":"Bob","text":"after"}}`, string(resp.Data))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for subscription event")
	}

	cancel()
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-responses:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}
