package domain

// AnonymousAuthor is the label shown for messages sent without an author.
const AnonymousAuthor = "Anonymous"

// Message is a single chat message. Once created it is never changed.
type Message struct {
	// ID is 1-based and assigned by the store in creation order.
	ID     int    `json:"id"`
	Author string `json:"author"`
	Text   string `json:"text"`
}

// DisplayAuthor returns the name to render for the message author.
// The stored Author is left untouched.
func (m Message) DisplayAuthor() string {
	if m.Author == "" {
		return AnonymousAuthor
	}
	return m.Author
}
