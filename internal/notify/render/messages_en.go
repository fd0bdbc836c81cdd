package render

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	message.SetString(lang, "reveal.generic.title", defaultGenericTitle)
	message.SetString(lang, "reveal.generic.body", defaultGenericBody)
	message.SetString(lang, "reveal.threshold.title", "Research breakthrough: %s")
	message.SetString(lang, "reveal.threshold.body", "A research milestone has been reached.")
	message.SetString(lang, "reveal.location.title", "Location discovered: %s")
	message.SetString(lang, "reveal.location.body", "A new place to investigate has been uncovered.")
}
