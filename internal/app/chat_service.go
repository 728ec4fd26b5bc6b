package app

import (
	"context"
	"log"
	"strings"

	"knowledgebot/internal/ai"
)

const chatSystemPrompt = "You are a knowledgeable assistant answering questions about the documents in your knowledge base. " +
	"Answer based only on the provided context. If the context does not contain enough information, say so plainly; " +
	"do not make up facts. Answer concisely in markdown."

// ChatService answers user questions with retrieval-augmented chat:
// search the index for the latest user message, splice the matching
// chunks into the prompt, stream the model's answer.
type ChatService struct {
	retrieval  *RetrievalService
	llmClient  *ai.Client
	chatConfig ai.ChatConfig
	topK       int
}

func NewChatService(retrieval *RetrievalService, llmClient *ai.Client, chatConfig ai.ChatConfig, topK int) *ChatService {
	if topK <= 0 {
		topK = 5
	}
	return &ChatService{
		retrieval:  retrieval,
		llmClient:  llmClient,
		chatConfig: chatConfig,
		topK:       topK,
	}
}

// StreamAnswer streams the assistant's reply, invoking onChunk per
// token delta, and returns the full answer. A failed knowledge-base
// search degrades to an answer without context rather than failing the
// chat call.
func (s *ChatService) StreamAnswer(ctx context.Context, messages []ai.ChatMessage, onChunk func(chunk string) error) (string, error) {
	question := latestUserMessage(messages)
	if question == "" {
		return "", ErrInvalidInput
	}

	contextBlock := s.searchContext(ctx, question)

	prompt := make([]ai.ChatMessage, 0, len(messages)+2)
	prompt = append(prompt, ai.ChatMessage{Role: "system", Content: chatSystemPrompt})
	prompt = append(prompt, messages...)
	prompt = append(prompt, ai.ChatMessage{
		Role:    "system",
		Content: "Knowledge base context for the latest question:\n" + contextBlock,
	})

	return s.llmClient.StreamComplete(ctx, s.chatConfig, prompt, onChunk)
}

func (s *ChatService) searchContext(ctx context.Context, question string) string {
	matches, err := s.retrieval.Search(ctx, question, s.topK)
	if err != nil {
		log.Printf("knowledge base search failed: %v", err)
		return "No relevant information found in the knowledge base."
	}
	if len(matches) == 0 {
		return "No relevant information found in the knowledge base."
	}

	var b strings.Builder
	for _, m := range matches {
		b.WriteString("\n---\nSource: ")
		b.WriteString(m.Metadata.Title)
		b.WriteString("\n")
		b.WriteString(m.Metadata.Text)
	}
	b.WriteString("\n---")
	return b.String()
}

func latestUserMessage(messages []ai.ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return strings.TrimSpace(messages[i].Content)
		}
	}
	return ""
}
