package telegram

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
)

// handleCommand dispatches the slash-command surface onto the store and
// generator operations.
func (h *MessageHandler) handleCommand(ctx context.Context, chatID int64, command, args string) {
	switch command {
	case "start":
		h.handleStart(chatID)
	case "help":
		h.handleHelp(chatID)
	case "list":
		h.handleList(ctx, chatID)
	case "view":
		h.handleView(ctx, chatID, args)
	case "delete":
		h.handleDelete(ctx, chatID, args)
	case "redo":
		h.handleRedo(ctx, chatID, args)
	default:
		h.reply(chatID, "Comando desconhecido. Use /help para ver a lista de comandos.")
	}
}

func (h *MessageHandler) handleStart(chatID int64) {
	h.reply(chatID,
		"Olá! Eu sou o Cerebro, seu assistente para brainstorming de ideias.\n\n"+
			"Você pode me enviar uma mensagem de texto ou áudio com sua ideia, e eu vou "+
			"gerar um brainstorm para ajudar a desenvolvê-la.\n\n"+
			"Comandos disponíveis:\n"+
			"/help - Mostra a lista completa de comandos\n"+
			"/list - Lista suas ideias salvas\n"+
			"/view [id] - Mostra detalhes de uma ideia\n"+
			"/delete [id] - Apaga uma ideia\n"+
			"/redo [id] - Refaz o brainstorm de uma ideia")
}

func (h *MessageHandler) handleHelp(chatID int64) {
	h.replyMarkdown(chatID,
		"🤖 *Comandos disponíveis:*\n\n"+
			"/start - Inicia o bot e mostra a mensagem de boas-vindas\n"+
			"/help - Mostra esta lista de comandos\n"+
			"/list - Lista todas as suas ideias salvas\n"+
			"/view [id] - Mostra os detalhes de uma ideia específica\n"+
			"/delete [id] - Apaga uma ideia e seus brainstorms\n"+
			"/redo [id] - Refaz o brainstorm de uma ideia existente\n\n"+
			"*Como usar:*\n"+
			"• Envie uma mensagem de texto ou áudio com sua ideia\n"+
			"• O bot vai classificar a mensagem e perguntar se deseja um brainstorm\n"+
			"• Responda 'sim' para gerar o brainstorm")
}

func (h *MessageHandler) handleList(ctx context.Context, chatID int64) {
	superuser := h.gate.IsSuperuser(chatID)

	ideas, err := h.store.ListIdeas(ctx, chatID, superuser)
	if err != nil {
		log.Printf("❌ Failed to list ideas: %v", err)
		h.reply(chatID, "❌ Erro ao listar suas ideias. Tente novamente mais tarde.")
		return
	}

	if len(ideas) == 0 {
		h.reply(chatID, "Você ainda não tem ideias salvas. Envie uma mensagem com sua ideia para começar!")
		return
	}

	var sb strings.Builder
	if superuser {
		sb.WriteString("📋 *Todas as ideias no sistema:*\n\n")
	} else {
		sb.WriteString("📋 *Suas ideias salvas:*\n\n")
	}

	for _, idea := range ideas {
		if superuser && idea.Owner != chatID {
			sb.WriteString(fmt.Sprintf("*ID %d* (Autor: %d): %s\n", idea.ID, idea.Owner, preview(idea.Content, 50)))
		} else {
			sb.WriteString(fmt.Sprintf("*ID %d:* %s\n", idea.ID, preview(idea.Content, 50)))
		}
	}
	sb.WriteString("\nUse /view [id] para ver os detalhes de uma ideia específica.")

	h.replyMarkdown(chatID, sb.String())
}

func (h *MessageHandler) handleView(ctx context.Context, chatID int64, args string) {
	ideaID, ok := parseIdeaID(args)
	if !ok {
		h.reply(chatID, "Por favor, forneça o ID da ideia que deseja visualizar. Exemplo: /view 1")
		return
	}

	idea, err := h.store.GetIdea(ctx, ideaID, chatID, h.gate.IsSuperuser(chatID))
	if err != nil {
		h.reply(chatID, fmt.Sprintf("Ideia com ID %d não encontrada ou não pertence a você.", ideaID))
		return
	}

	brainstorms, err := h.store.GetBrainstorms(ctx, ideaID)
	if err != nil {
		log.Printf("❌ Failed to load brainstorms for idea %d: %v", ideaID, err)
		h.reply(chatID, "❌ Erro ao carregar os brainstorms desta ideia.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📝 *Ideia %d*\n\n%s\n\n", idea.ID, idea.Content))

	if len(brainstorms) > 0 {
		sb.WriteString("*Brainstorm:*\n\n")
		sb.WriteString(brainstorms[0].Content)
		sb.WriteString("\n\n")
		if len(brainstorms) > 1 {
			sb.WriteString(fmt.Sprintf("Esta ideia tem %d versões de brainstorm.\n", len(brainstorms)))
		}
	} else {
		sb.WriteString("*Sem brainstorms*\n\nEsta ideia ainda não tem brainstorms associados.\n")
	}

	sb.WriteString("\nUse /redo para gerar um novo brainstorm para esta ideia.")
	sb.WriteString("\nUse /delete para excluir esta ideia e seus brainstorms.")

	h.replyMarkdown(chatID, sb.String())
}

// handleDelete asks for confirmation before anything is removed; the actual
// cascade happens in confirmDelete.
func (h *MessageHandler) handleDelete(ctx context.Context, chatID int64, args string) {
	ideaID, ok := parseIdeaID(args)
	if !ok {
		h.reply(chatID, "Por favor, forneça o ID da ideia que deseja apagar. Exemplo: /delete 1")
		return
	}

	idea, err := h.store.GetIdea(ctx, ideaID, chatID, h.gate.IsSuperuser(chatID))
	if err != nil {
		h.reply(chatID, fmt.Sprintf("Ideia com ID %d não encontrada ou não pertence a você.", ideaID))
		return
	}

	h.tracker.SetAwaitingDelete(chatID, ideaID)
	h.replyMarkdown(chatID, fmt.Sprintf(
		"Você tem certeza que deseja apagar a ideia %d?\n\n*%s*\n\nResponda com 'sim' para confirmar ou 'não' para cancelar.",
		ideaID, preview(idea.Content, 100)))
}

// handleRedo regenerates the most recent brainstorm of an idea in place.
func (h *MessageHandler) handleRedo(ctx context.Context, chatID int64, args string) {
	ideaID, ok := parseIdeaID(args)
	if !ok {
		h.reply(chatID, "Por favor, forneça o ID da ideia para refazer o brainstorm. Exemplo: /redo 1")
		return
	}

	idea, err := h.store.GetIdea(ctx, ideaID, chatID, h.gate.IsSuperuser(chatID))
	if err != nil {
		h.reply(chatID, fmt.Sprintf("Ideia com ID %d não encontrada ou não pertence a você.", ideaID))
		return
	}

	brainstorms, err := h.store.GetBrainstorms(ctx, ideaID)
	if err != nil {
		log.Printf("❌ Failed to load brainstorms for idea %d: %v", ideaID, err)
		h.reply(chatID, "❌ Erro ao carregar os brainstorms desta ideia.")
		return
	}
	if len(brainstorms) == 0 {
		h.reply(chatID, fmt.Sprintf("A ideia com ID %d não tem brainstorms para refazer.", ideaID))
		return
	}

	h.reply(chatID, "🧠 Gerando novo brainstorm... Isso pode levar alguns segundos.")

	brainstorm, err := h.generator.GenerateBrainstorm(ctx, idea.Content)
	if err != nil {
		log.Printf("❌ Failed to regenerate brainstorm: %v", err)
		h.reply(chatID, "❌ Erro ao gerar o brainstorm. Por favor, tente novamente.")
		return
	}

	updated, err := h.store.UpdateBrainstorm(ctx, brainstorms[0].ID, brainstorm)
	if err != nil || !updated {
		log.Printf("❌ Failed to update brainstorm %d: %v", brainstorms[0].ID, err)
		h.reply(chatID, fmt.Sprintf("❌ Erro ao atualizar o brainstorm da ideia %d. Tente novamente mais tarde.", ideaID))
		return
	}

	h.replyMarkdown(chatID, fmt.Sprintf(
		"✅ *Brainstorm refeito para a ideia %d*\n\n*Ideia:* %s\n\n*Novo Brainstorm:*\n\n%s",
		ideaID, preview(idea.Content, 100), brainstorm))
}

func parseIdeaID(args string) (int64, bool) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return 0, false
	}
	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
