package chat

import (
	"github.com/nfrund/livechat/internal/domain"
	"github.com/nfrund/livechat/internal/pubsub"
)

// TopicMessageSent is the single broadcast topic carrying newly created messages.
var TopicMessageSent = pubsub.NewTopic[domain.Message](
	"CHAT_CHANNEL",
	"Broadcasts every message created by sendMessage to all live subscribers",
)
