package api

import (
	"context"

	"github.com/samber/lo"

	"github.com/nfrund/livechat/internal/domain"
)

// Resolver is the root resolver for queries, mutations and subscriptions.
type Resolver struct {
	chat ChatService
}

// NewResolver creates a root resolver backed by the chat service.
func NewResolver(svc ChatService) *Resolver {
	return &Resolver{chat: svc}
}

// AllMessages resolves Query.allMessages.
func (r *Resolver) AllMessages(ctx context.Context) *[]*messageResolver {
	resolvers := lo.Map(r.chat.AllMessages(ctx), func(m domain.Message, _ int) *messageResolver {
		return &messageResolver{msg: m}
	})
	return &resolvers
}

type sendMessageArgs struct {
	Author string
	Text   string
}

// SendMessage resolves Mutation.sendMessage.
func (r *Resolver) SendMessage(ctx context.Context, args sendMessageArgs) *messageResolver {
	return &messageResolver{msg: r.chat.SendMessage(ctx, args.Author, args.Text)}
}

// MessageSent resolves Subscription.messageSent. The returned channel closes when
// ctx is canceled or the underlying subscription ends.
func (r *Resolver) MessageSent(ctx context.Context) (<-chan *messageResolver, error) {
	sub, err := r.chat.MessageSent(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan *messageResolver)
	go func() {
		defer close(out)
		defer sub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.C():
				if !ok {
					return
				}
				select {
				case out <- &messageResolver{msg: msg}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

type messageResolver struct {
	msg domain.Message
}

func (m *messageResolver) ID() int32 {
	return int32(m.msg.ID)
}

func (m *messageResolver) Author() string {
	return m.msg.Author
}

func (m *messageResolver) Text() string {
	return m.msg.Text
}
