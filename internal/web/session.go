package web

import (
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	authorSessionName = "livechat-author"
	authorKey         = "author"
)

// lastAuthor returns the author name used in the previous post, if any.
func lastAuthor(c echo.Context) string {
	sess, err := session.Get(authorSessionName, c)
	if err != nil {
		return ""
	}
	author, _ := sess.Values[authorKey].(string)
	return author
}

// rememberAuthor stores the author name so the form is prefilled next time.
func rememberAuthor(c echo.Context, author string) error {
	sess, err := session.Get(authorSessionName, c)
	if err != nil {
		return err
	}
	sess.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
	}
	sess.Values[authorKey] = author
	return sess.Save(c.Request(), c.Response())
}
