package render

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.MustParse("pt-BR")

	message.SetString(lang, "reveal.generic.title", "Atualização da pesquisa")
	message.SetString(lang, "reveal.generic.body", "A investigação avançou.")
	message.SetString(lang, "reveal.threshold.title", "Avanço na pesquisa: %s")
	message.SetString(lang, "reveal.threshold.body", "Um marco da pesquisa foi alcançado.")
	message.SetString(lang, "reveal.location.title", "Local descoberto: %s")
	message.SetString(lang, "reveal.location.body", "Um novo lugar para investigar foi revelado.")
}
