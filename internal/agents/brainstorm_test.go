package agents

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBrainstormReturnsRawReply(t *testing.T) {
	reply := "1. Comece com um MVP\n2. Valide com usuários reais"
	server := newChatServer(t, reply)
	t.Cleanup(server.Close)

	g := NewGenerator(NewChatClient("test-key", server.URL, "gpt-3.5-turbo"))

	got, err := g.GenerateBrainstorm(context.Background(), "Preciso criar um app de lembretes")
	require.NoError(t, err)
	assert.Equal(t, reply, got)
}

func TestGenerateBrainstormAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"type":"rate_limit","message":"slow down"}}`))
	}))
	t.Cleanup(server.Close)

	g := NewGenerator(NewChatClient("test-key", server.URL, "gpt-3.5-turbo"))

	_, err := g.GenerateBrainstorm(context.Background(), "qualquer ideia")
	assert.Error(t, err)
}

func TestAnswerQuestion(t *testing.T) {
	server := newChatServer(t, "A capital da França é Paris.")
	t.Cleanup(server.Close)

	g := NewGenerator(NewChatClient("test-key", server.URL, "gpt-3.5-turbo"))

	got, err := g.AnswerQuestion(context.Background(), "Qual a capital da França?")
	require.NoError(t, err)
	assert.Equal(t, "A capital da França é Paris.", got)
}

func TestCompleteNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatResponse{})
	}))
	t.Cleanup(server.Close)

	client := NewChatClient("test-key", server.URL, "gpt-3.5-turbo")
	_, err := client.Complete(context.Background(), "system", "user")
	assert.Error(t, err)
}
