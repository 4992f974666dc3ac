package telegram

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/cerebro-bot/cerebro/internal/auth"
	"github.com/cerebro-bot/cerebro/internal/conversation"
	"github.com/cerebro-bot/cerebro/internal/database"
	"github.com/cerebro-bot/cerebro/internal/models"
)

// Sender delivers outbound replies. Implemented by Client.
type Sender interface {
	SendText(chatID int64, text string, markdown bool) error
}

// AudioFetcher resolves a transport audio reference into raw bytes.
type AudioFetcher interface {
	DownloadVoice(ctx context.Context, fileID string) ([]byte, error)
}

// Classifier labels text as idea or question. It never fails.
type Classifier interface {
	Classify(ctx context.Context, text string) (kind, content, summary string)
}

// Generator produces brainstorms and question answers.
type Generator interface {
	GenerateBrainstorm(ctx context.Context, ideaContent string) (string, error)
	AnswerQuestion(ctx context.Context, question string) (string, error)
}

// Converter normalizes audio for transcription. The caller removes the
// returned file.
type Converter interface {
	ToWAV(ctx context.Context, inputPath, formatHint string) (string, error)
}

// Transcriber converts normalized WAV audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath string) (string, error)
}

// MessageHandler runs the message-to-outcome pipeline: authorization,
// optional transcription, classification, persistence and the per-chat
// confirmation state machine.
type MessageHandler struct {
	sender      Sender
	fetcher     AudioFetcher
	gate        *auth.Gate
	store       database.Store
	classifier  Classifier
	generator   Generator
	converter   Converter
	transcriber Transcriber
	tracker     *conversation.Tracker
}

func NewMessageHandler(
	sender Sender,
	fetcher AudioFetcher,
	gate *auth.Gate,
	store database.Store,
	classifier Classifier,
	generator Generator,
	converter Converter,
	transcriber Transcriber,
) *MessageHandler {
	return &MessageHandler{
		sender:      sender,
		fetcher:     fetcher,
		gate:        gate,
		store:       store,
		classifier:  classifier,
		generator:   generator,
		converter:   converter,
		transcriber: transcriber,
		tracker:     conversation.NewTracker(),
	}
}

// HandleUpdate dispatches one inbound update. The authorization gate runs
// before any state mutation or external call.
func (h *MessageHandler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID

	if !h.gate.IsAuthorized(chatID) {
		h.reply(chatID, "Acesso não autorizado.")
		return
	}

	switch {
	case update.Message.IsCommand():
		h.handleCommand(ctx, chatID, update.Message.Command(), update.Message.CommandArguments())
	case update.Message.Voice != nil:
		h.handleVoice(ctx, chatID, update.Message.Voice.FileID)
	case update.Message.Text != "":
		h.handleText(ctx, chatID, update.Message.Text)
	default:
		h.reply(chatID, "Por favor, envie uma mensagem de texto ou áudio para que eu possa processar sua ideia.")
	}
}

// handleText runs one text message through the conversation state machine.
func (h *MessageHandler) handleText(ctx context.Context, chatID int64, text string) {
	pending := h.tracker.Get(chatID)

	switch pending.Action {
	case conversation.AwaitingBrainstormConfirm:
		if conversation.IsAffirmative(text) {
			h.confirmBrainstorm(ctx, chatID, pending.IdeaID)
			return
		}
		if conversation.IsNegative(text) {
			h.tracker.Clear(chatID)
			h.reply(chatID, "Ok, não vou gerar um brainstorm para esta ideia agora.\nVocê pode solicitar um mais tarde com /redo seguido do ID da ideia.")
			return
		}
		// Anything else is new content; drop the stale confirmation.
		h.tracker.Clear(chatID)

	case conversation.AwaitingDeleteConfirm:
		h.confirmDelete(ctx, chatID, pending.IdeaID, text)
		return
	}

	h.processNewContent(ctx, chatID, text)
}

// processNewContent classifies and persists a message from the idle state.
func (h *MessageHandler) processNewContent(ctx context.Context, chatID int64, text string) {
	kind, content, summary := h.classifier.Classify(ctx, text)
	log.Printf("💬 Message from chat %d classified as %s (%s)", chatID, kind, summary)

	ideaID, err := h.store.SaveIdea(ctx, kind, content, summary, chatID)
	if err != nil {
		log.Printf("❌ Failed to save idea: %v", err)
		h.reply(chatID, "❌ Erro ao salvar sua mensagem. Por favor, tente novamente mais tarde.")
		return
	}

	if kind == models.KindIdea {
		h.tracker.SetAwaitingBrainstorm(chatID, ideaID)
		h.replyMarkdown(chatID, fmt.Sprintf(
			"Identifiquei uma ideia: *%s*\n\n✅ Salva com ID %d.\n\nDeseja que eu faça um brainstorm para desenvolver esta ideia? Responda com 'sim' ou 'não'.",
			summary, ideaID))
		return
	}

	h.reply(chatID, "🤔 Processando sua pergunta... Aguarde um momento.")

	answer, err := h.generator.AnswerQuestion(ctx, content)
	if err != nil {
		log.Printf("❌ Failed to answer question: %v", err)
		h.reply(chatID, "❌ Erro ao gerar a resposta. Por favor, tente novamente.")
		return
	}
	h.replyMarkdown(chatID, fmt.Sprintf("*Resposta:*\n\n%s", answer))
}

// confirmBrainstorm handles an affirmative reply to the brainstorm prompt.
// The pending state is cleared only once the brainstorm row is durable, so a
// failed generation or store write can be retried with another 'sim'.
func (h *MessageHandler) confirmBrainstorm(ctx context.Context, chatID, ideaID int64) {
	idea, err := h.store.GetIdea(ctx, ideaID, chatID, false)
	if err != nil {
		log.Printf("❌ Failed to load idea %d: %v", ideaID, err)
		h.tracker.Clear(chatID)
		h.reply(chatID, "Erro ao recuperar sua ideia. Por favor, tente novamente.")
		return
	}

	h.reply(chatID, "🧠 Gerando brainstorm... Isso pode levar alguns segundos.")

	brainstorm, err := h.generator.GenerateBrainstorm(ctx, idea.Content)
	if err != nil {
		log.Printf("❌ Failed to generate brainstorm: %v", err)
		h.reply(chatID, "❌ Erro ao gerar o brainstorm. Responda 'sim' para tentar novamente ou 'não' para cancelar.")
		return
	}

	if _, err := h.store.SaveBrainstorm(ctx, ideaID, brainstorm); err != nil {
		log.Printf("❌ Failed to save brainstorm: %v", err)
		h.reply(chatID, "❌ Erro ao salvar o brainstorm. Responda 'sim' para tentar novamente ou 'não' para cancelar.")
		return
	}

	h.tracker.Clear(chatID)
	h.replyMarkdown(chatID, fmt.Sprintf(
		"✅ *Brainstorm para sua ideia:*\n\n*Ideia:* %s\n\n*Brainstorm:*\n\n%s",
		preview(idea.Content, 100), brainstorm))
}

// confirmDelete resolves a pending delete confirmation. Any reply other than
// an affirmative cancels it.
func (h *MessageHandler) confirmDelete(ctx context.Context, chatID, ideaID int64, text string) {
	if !conversation.IsAffirmative(text) {
		h.tracker.Clear(chatID)
		h.reply(chatID, "Exclusão cancelada. A ideia não foi apagada.")
		return
	}

	deleted, err := h.store.DeleteIdea(ctx, ideaID, chatID, h.gate.IsSuperuser(chatID))
	if err != nil {
		// Store failure: stay in the confirmation state so the user can retry.
		log.Printf("❌ Failed to delete idea %d: %v", ideaID, err)
		h.reply(chatID, fmt.Sprintf("❌ Erro ao apagar a ideia %d. Responda 'sim' para tentar novamente ou 'não' para cancelar.", ideaID))
		return
	}

	h.tracker.Clear(chatID)
	if deleted {
		h.reply(chatID, fmt.Sprintf("✅ Ideia %d e seus brainstorms foram apagados com sucesso.", ideaID))
	} else {
		h.reply(chatID, fmt.Sprintf("Ideia com ID %d não encontrada ou não pertence a você.", ideaID))
	}
}

// handleVoice downloads, converts and transcribes a voice note, then feeds
// the transcript into the text pipeline.
func (h *MessageHandler) handleVoice(ctx context.Context, chatID int64, fileID string) {
	h.reply(chatID, "🎙️ Processando seu áudio... Isso pode levar alguns segundos.")

	audio, err := h.fetcher.DownloadVoice(ctx, fileID)
	if err != nil {
		log.Printf("❌ Failed to download voice note: %v", err)
		h.reply(chatID, "❌ Erro ao baixar o arquivo de áudio. Por favor, tente novamente.")
		return
	}

	oggPath := filepath.Join(os.TempDir(), "cerebro_voice_"+uuid.New().String()+".ogg")
	if err := os.WriteFile(oggPath, audio, 0o600); err != nil {
		log.Printf("❌ Failed to write voice temp file: %v", err)
		h.reply(chatID, "❌ Erro ao processar o áudio. Por favor, tente novamente.")
		return
	}
	defer os.Remove(oggPath)

	// Telegram voice notes arrive as ogg/opus; the hint may still be wrong
	// for forwarded audio, the converter falls back to a generic decode.
	wavPath, err := h.converter.ToWAV(ctx, oggPath, "ogg")
	if err != nil {
		log.Printf("❌ Audio conversion failed: %v", err)
		h.reply(chatID, "❌ Não consegui processar este áudio. Tente gravar novamente em um ambiente mais silencioso ou envie sua mensagem como texto.")
		return
	}
	defer os.Remove(wavPath)

	transcript, err := h.transcriber.Transcribe(ctx, wavPath)
	if err != nil {
		log.Printf("❌ Transcription failed: %v", err)
		h.reply(chatID, "❌ Não consegui transcrever o áudio. Fale de forma clara e pausada, ou envie sua mensagem como texto.")
		return
	}

	h.replyMarkdown(chatID, fmt.Sprintf("🎙️ *Transcrição do seu áudio:*\n\n%s", transcript))
	h.handleText(ctx, chatID, transcript)
}

func (h *MessageHandler) reply(chatID int64, text string) {
	if err := h.sender.SendText(chatID, text, false); err != nil {
		log.Printf("❌ Failed to send reply to chat %d: %v", chatID, err)
	}
}

func (h *MessageHandler) replyMarkdown(chatID int64, text string) {
	if err := h.sender.SendText(chatID, text, true); err != nil {
		log.Printf("❌ Failed to send reply to chat %d: %v", chatID, err)
	}
}

func preview(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
