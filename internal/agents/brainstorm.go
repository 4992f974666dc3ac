package agents

import (
	"context"
	"fmt"
)

const brainstormPrompt = `Você é um especialista em inovação e brainstorming.

O usuário vai enviar uma ideia. Desenvolva um brainstorm para ajudá-lo a
evoluir essa ideia:
- explore diferentes ângulos e possibilidades
- aponte pontos fortes e riscos
- sugira próximos passos concretos

Responda em português, de forma organizada e direta.`

const questionPrompt = `Você é um assistente virtual útil e informativo. Responda à pergunta do usuário em português, de forma clara e objetiva.`

// Generator produces brainstorm expansions and question answers.
type Generator struct {
	client *ChatClient
}

func NewGenerator(client *ChatClient) *Generator {
	return &Generator{client: client}
}

// GenerateBrainstorm expands an idea's content. The raw reply is the result;
// transport or API failures surface as an error, never as sentinel text.
func (g *Generator) GenerateBrainstorm(ctx context.Context, ideaContent string) (string, error) {
	reply, err := g.client.Complete(ctx, brainstormPrompt, ideaContent)
	if err != nil {
		return "", fmt.Errorf("failed to generate brainstorm: %w", err)
	}
	return reply, nil
}

// AnswerQuestion answers a question-classified message.
func (g *Generator) AnswerQuestion(ctx context.Context, question string) (string, error) {
	reply, err := g.client.Complete(ctx, questionPrompt, question)
	if err != nil {
		return "", fmt.Errorf("failed to answer question: %w", err)
	}
	return reply, nil
}
