package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kevinmichaelchen/star-suggest/internal/text"
	"github.com/kevinmichaelchen/star-suggest/internal/topic"
	openai "github.com/sashabaranov/go-openai"
)

// maxTerms bounds how many ranked terms the model is asked for.
const maxTerms = 10

// Modeler asks a chat model for the dominant topic of a corpus. It is an
// alternative to topic.LDA for small or noisy corpora.
type Modeler struct {
	client *openai.Client
	model  string
}

func NewModeler(baseURL, apiKey, model string) *Modeler {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	return &Modeler{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

const systemPrompt = `You are a topic modelling engine. You receive one line per GitHub repository description, already reduced to lowercase keywords.

Infer the single dominant topic across all lines and return a JSON array of up to 10 keywords taken from the input, most representative first.

Return ONLY valid JSON. No markdown, no code fences.`

func (m *Modeler) Fit(ctx context.Context, corpus text.Corpus) (topic.Model, error) {
	if corpus.TokenCount() == 0 {
		return nil, topic.ErrEmptyCorpus
	}

	lines := make([]string, 0, len(corpus))
	for _, doc := range corpus {
		if len(doc) > 0 {
			lines = append(lines, strings.Join(doc, " "))
		}
	}

	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: m.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: strings.Join(lines, "\n")},
		},
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM topic call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned for topic call")
	}

	ranked, err := parseTerms(resp.Choices[0].Message.Content, vocabulary(corpus))
	if err != nil {
		return nil, err
	}
	return ranked, nil
}

// parseTerms decodes the model's answer, keeping only known, unique terms.
func parseTerms(content string, vocab map[string]bool) (topic.Ranked, error) {
	content = stripCodeFences(content)

	var words []string
	if err := json.Unmarshal([]byte(content), &words); err != nil {
		return nil, fmt.Errorf("parsing LLM topic response: %w\nraw: %s", err, content)
	}

	seen := make(map[string]bool, len(words))
	var ranked topic.Ranked
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if !vocab[w] || seen[w] {
			continue
		}
		seen[w] = true
		ranked = append(ranked, topic.Term{Word: w, Weight: 1 / float64(len(ranked)+1)})
		if len(ranked) == maxTerms {
			break
		}
	}
	if len(ranked) == 0 {
		return nil, fmt.Errorf("LLM returned no terms from the corpus")
	}
	return ranked, nil
}

func vocabulary(corpus text.Corpus) map[string]bool {
	vocab := make(map[string]bool)
	for _, doc := range corpus {
		for _, tok := range doc {
			vocab[tok] = true
		}
	}
	return vocab
}

// stripCodeFences removes markdown code fences that some models wrap around JSON.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		// Remove opening fence (```json or ```)
		if i := strings.Index(s, "\n"); i != -1 {
			s = s[i+1:]
		}
		// Remove closing fence
		if i := strings.LastIndex(s, "```"); i != -1 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	return s
}
