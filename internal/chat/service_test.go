package chat

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/livechat/internal/domain"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewStore(), newTestChannel(t, 32))
}

func TestService_EndToEndScenario(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	alice := svc.SendMessage(ctx, "Alice", "hi")
	assert.Equal(t, domain.Message{ID: 1, Author: "Alice", Text: "hi"}, alice)

	bob := svc.SendMessage(ctx, "Bob", "yo")
	assert.Equal(t, domain.Message{ID: 2, Author: "Bob", Text: "yo"}, bob)

	assert.Equal(t, []domain.Message{
		{ID: 1, Author: "Alice", Text: "hi"},
		{ID: 2, Author: "Bob", Text: "yo"},
	}, svc.AllMessages(ctx))
}

func TestService_NSendsProduceIDsOneToN(t *testing.T) {
	for _, n := range []int{0, 1, 7, 25} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			svc := newTestService(t)
			ctx := context.Background()

			for i := 0; i < n; i++ {
				svc.SendMessage(ctx, "author", fmt.Sprintf("message %d", i))
			}

			messages := svc.AllMessages(ctx)
			require.Len(t, messages, n)
			assert.Equal(t, n, svc.Count())
			for i, msg := range messages {
				assert.Equal(t, i+1, msg.ID)
				assert.Equal(t, fmt.Sprintf("message %d", i), msg.Text)
			}
		})
	}
}

func TestService_SendIsNotIdempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first := svc.SendMessage(ctx, "Alice", "same")
	second := svc.SendMessage(ctx, "Alice", "same")

	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, svc.AllMessages(ctx), 2)
}

func TestService_ReadIsIdempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	svc.SendMessage(ctx, "Alice", "hi")

	assert.Equal(t, svc.AllMessages(ctx), svc.AllMessages(ctx))
}

func TestService_EmptyAuthorIsStoredAsIs(t *testing.T) {
	svc := newTestService(t)

	msg := svc.SendMessage(context.Background(), "", "Hello")
	assert.Equal(t, "", msg.Author)
	assert.Equal(t, domain.AnonymousAuthor, msg.DisplayAuthor())
	assert.Equal(t, "", svc.AllMessages(context.Background())[0].Author)
}

func TestService_MessageSentDeliversMatchingMessage(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	svc.SendMessage(ctx, "Early", "not delivered")

	sub, err := svc.MessageSent(ctx)
	require.NoError(t, err)
	defer sub.Close()

	sent := svc.SendMessage(ctx, "Alice", "hi")
	later := svc.SendMessage(ctx, "Bob", "yo")

	assert.Equal(t, sent, receive(t, sub))
	assert.Equal(t, later, receive(t, sub))
	assert.Empty(t, sub.C())
}

func TestService_SendSurvivesClosedBus(t *testing.T) {
	channel := newTestChannel(t, 4)
	require.NoError(t, channel.publisher.Close())
	svc := NewService(NewStore(), channel)

	msg := svc.SendMessage(context.Background(), "Alice", "hi")
	assert.Equal(t, 1, msg.ID)
	assert.Len(t, svc.AllMessages(context.Background()), 1)
}
