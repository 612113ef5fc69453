package web

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var supportedLanguages = []language.Tag{
	language.English,
	language.German,
	language.French,
	language.Spanish,
}

var languageMatcher = language.NewMatcher(supportedLanguages)

// printerFor picks a number printer from an Accept-Language header.
func printerFor(acceptLanguage string) *message.Printer {
	tags, _, _ := language.ParseAcceptLanguage(acceptLanguage)
	tag, _, _ := languageMatcher.Match(tags...)
	return message.NewPrinter(tag)
}

// formatCount renders the message count with locale-aware digit grouping.
func formatCount(p *message.Printer, n int) string {
	if n == 1 {
		return p.Sprintf("%d message", n)
	}
	return p.Sprintf("%d messages", n)
}
