package web

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	. "maragu.dev/gomponents/html"

	"github.com/nfrund/livechat/internal/domain"
	"github.com/nfrund/livechat/internal/view"
)

const (
	messageListID  = "messages"
	messageCountID = "message-count"
)

// pageTitle builds the document title.
func pageTitle(title string) string {
	if title != "" {
		return title + " - livechat"
	}
	return "livechat"
}

// Layout wraps page content in the HTML document shell.
func Layout(title string, flash view.FlashData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return Doctype(
			HTML(
				Lang("en"),
				Head(
					Meta(Charset("utf-8")),
					Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
					TitleEl(g.Text(pageTitle(title))),
					Script(Src("https://unpkg.com/htmx.org@1.9.12")),
					Script(Src("https://unpkg.com/htmx.org@1.9.12/dist/ext/ws.js")),
				),
				Body(
					hx.Boost("true"),
					Class("container mx-auto p-8"),
					flashNotices(flash),
					view.Node(ctx, body),
				),
			),
		).Render(w)
	})
}

func flashNotices(flash view.FlashData) g.Node {
	if flash.Empty() {
		return nil
	}
	return Div(
		ID("flash"),
		g.Map(flash.Error, func(msg string) g.Node {
			return P(Class("text-red-600"), Role("alert"), g.Text(msg))
		}),
		g.Map(flash.Success, func(msg string) g.Node {
			return P(Class("text-green-600"), g.Text(msg))
		}),
	)
}

// ChatContent is the chat page body: header with count, the post form and the feed.
// Live messages are prepended to the list by FeedFragment.
func ChatContent(messages []domain.Message, count, author string) g.Node {
	return Div(
		hx.Ext("ws"),
		g.Attr("ws-connect", "/feed"),
		H1(
			Class("text-3xl font-bold mb-4"),
			g.Text("livechat "),
			CountBadge(count, false),
		),
		messageForm(author),
		Ul(
			ID(messageListID),
			Class("space-y-2 mt-6"),
			g.Map(messages, MessageItem),
		),
	)
}

func messageForm(author string) g.Node {
	return FormEl(
		Method("post"),
		Action("/messages"),
		Class("flex gap-2"),
		Input(Type("text"), Name("author"), Placeholder("Your name"), Value(author), MaxLength("64")),
		Input(Type("text"), Name("text"), Placeholder("Say something"), AutoComplete("off"), AutoFocus()),
		Button(Type("submit"), g.Text("Send")),
	)
}

// MessageItem renders one message, labelling empty authors as Anonymous.
func MessageItem(msg domain.Message) g.Node {
	return Li(
		ID("message-"+strconv.Itoa(msg.ID)),
		Strong(g.Text(msg.DisplayAuthor())),
		g.Text(": "+msg.Text),
	)
}

// CountBadge renders the message counter. The oob variant replaces the badge in place.
func CountBadge(count string, oob bool) g.Node {
	return Span(
		ID(messageCountID),
		Class("text-sm text-gray-500"),
		g.If(oob, hx.SwapOOB("true")),
		g.Text("("+count+")"),
	)
}

// FeedFragment is what the feed websocket pushes for a new message: the item prepended to
// the list plus a refreshed counter.
func FeedFragment(msg domain.Message, count string) g.Node {
	return g.Group{
		Div(
			hx.SwapOOB("afterbegin:#"+messageListID),
			MessageItem(msg),
		),
		CountBadge(count, true),
	}
}
