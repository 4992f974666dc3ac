package agents

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/cerebro-bot/cerebro/internal/models"
)

// summaryMaxLen caps the fallback summary derived from the raw message.
const summaryMaxLen = 100

const classifierPrompt = `Você é um assistente que classifica mensagens.

Classifique a mensagem do usuário em um de dois tipos:
- IDEIA: o usuário está descrevendo uma ideia, projeto ou plano
- QUESTAO: o usuário está fazendo uma pergunta ou pedindo informação

Responda SOMENTE com uma lista JSON de três elementos, sem nenhum texto adicional:
["TIPO","conteúdo completo da mensagem","resumo curto de até 10 palavras"]`

// Classifier labels free-form text as idea or question via the LLM.
type Classifier struct {
	client *ChatClient
}

func NewClassifier(client *ChatClient) *Classifier {
	return &Classifier{client: client}
}

// Classify returns (kind, content, summary) for the given text. It never
// fails: when the model call or the reply parsing goes wrong, the message is
// treated as a question with a truncated summary.
func (c *Classifier) Classify(ctx context.Context, text string) (string, string, string) {
	reply, err := c.client.Complete(ctx, classifierPrompt, text)
	if err != nil {
		log.Printf("Classification call failed, using fallback: %v", err)
		return models.KindQuestion, text, truncate(text, summaryMaxLen)
	}

	kind, content, summary, ok := parseClassification(reply)
	if !ok {
		log.Printf("Could not parse classification reply %q, using fallback", reply)
		return models.KindQuestion, text, truncate(text, summaryMaxLen)
	}
	return kind, content, summary
}

// parseClassification extracts the (kind, content, summary) triple from a
// loosely structured model reply. Strict JSON first, then a bracket and
// quote stripping split on the first two commas.
func parseClassification(reply string) (string, string, string, bool) {
	reply = strings.TrimSpace(reply)

	var parts []string
	if err := json.Unmarshal([]byte(reply), &parts); err == nil && len(parts) == 3 {
		return normalizeTriple(parts[0], parts[1], parts[2])
	}

	trimmed := strings.TrimSpace(strings.Trim(reply, "[]"))
	pieces := strings.SplitN(trimmed, ",", 3)
	if len(pieces) != 3 {
		return "", "", "", false
	}

	clean := func(s string) string {
		return strings.Trim(strings.TrimSpace(s), `"'[]`)
	}
	return normalizeTriple(clean(pieces[0]), clean(pieces[1]), clean(pieces[2]))
}

func normalizeTriple(kind, content, summary string) (string, string, string, bool) {
	kind = strings.ToUpper(strings.TrimSpace(kind))
	// Accept the accented spelling the model sometimes produces
	if kind == "QUESTÃO" {
		kind = models.KindQuestion
	}
	if kind != models.KindIdea && kind != models.KindQuestion {
		return "", "", "", false
	}
	content = strings.TrimSpace(content)
	summary = strings.TrimSpace(summary)
	if content == "" {
		return "", "", "", false
	}
	if summary == "" {
		summary = truncate(content, summaryMaxLen)
	}
	return kind, content, summary, true
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
