// internal/service/prompt.go
package service

import "fmt"

const SystemPrompt = "You are a cold email strategist."

// BuildPrompt embeds niche and offer verbatim into the campaign brief.
func BuildPrompt(niche, offer string) string {
	return fmt.Sprintf(`You are a cold email strategist. Given the niche: '%s' and the offer: '%s', create:
- A 3-part cold email sequence
- 5 subject lines
- A LinkedIn message version

Make the emails persuasive, short, and use a Hook → Pain → Value → CTA structure.`, niche, offer)
}
