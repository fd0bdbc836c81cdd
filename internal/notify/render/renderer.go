// Package render produces localized reveal notification copy.
package render

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	defaultGenericTitle = "Research update"
	defaultGenericBody  = "The investigation has progressed."
)

// Kind identifies what is being revealed.
type Kind string

const (
	// KindThreshold renders copy for a progress milestone reveal.
	KindThreshold Kind = "threshold"
	// KindLocation renders copy for a location reveal.
	KindLocation Kind = "location"
)

// Input is one reveal render request.
type Input struct {
	Kind      Kind
	TopicName string
	// Text is the narrative payload for the target audience. It may contain
	// host-specific markup and is passed through as an opaque string.
	Text string
}

// Output is localized copy for one reveal notification.
type Output struct {
	Title string
	Body  string
}

// Localizer is the minimal message-printer contract required by the renderer.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// Printer returns a message printer for the locale tag, falling back to
// English when the tag does not parse.
func Printer(locale string) *message.Printer {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag)
}

// Render returns localized copy for one reveal. The narrative payload wins
// over localized fallback copy when present.
func Render(loc Localizer, input Input) Output {
	topicName := strings.TrimSpace(input.TopicName)

	var title, fallbackBody string
	switch input.Kind {
	case KindThreshold:
		title = localize(loc, "reveal.threshold.title", topicName)
		fallbackBody = localize(loc, "reveal.threshold.body")
	case KindLocation:
		title = localize(loc, "reveal.location.title", topicName)
		fallbackBody = localize(loc, "reveal.location.body")
	default:
		title = localizeWithFallback(loc, "reveal.generic.title", defaultGenericTitle)
		fallbackBody = localizeWithFallback(loc, "reveal.generic.body", defaultGenericBody)
	}

	body := strings.TrimSpace(input.Text)
	if body == "" {
		body = fallbackBody
	}

	return Output{Title: title, Body: body}
}

func localize(loc Localizer, key string, args ...any) string {
	if loc == nil {
		return key
	}
	return loc.Sprintf(key, args...)
}

func localizeWithFallback(loc Localizer, key, fallback string) string {
	value := localize(loc, key)
	if value == key {
		return fallback
	}
	return value
}
