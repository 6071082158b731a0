package nlu

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"gopkg.in/yaml.v3"

	"hurricane-skill-backend/internal/log"
)

// PromptSpec is the YAML document that drives the LLM classifier.
type PromptSpec struct {
	System  string `yaml:"system"`
	Intents []struct {
		Name        string            `yaml:"name"`
		Description string            `yaml:"description"`
		Slots       map[string]string `yaml:"slots"`
	} `yaml:"intents"`
	Style struct {
		Temperature float32 `yaml:"temperature"`
		MaxTokens   int     `yaml:"max_tokens"`
	} `yaml:"style"`
}

// ParsePromptSpec decodes a prompt spec and checks it names at least one
// intent.
func ParsePromptSpec(b []byte) (PromptSpec, error) {
	var spec PromptSpec
	if err := yaml.Unmarshal(b, &spec); err != nil {
		return PromptSpec{}, fmt.Errorf("parse prompt spec: %w", err)
	}
	if len(spec.Intents) == 0 {
		return PromptSpec{}, fmt.Errorf("parse prompt spec: no intents defined")
	}
	return spec, nil
}

// classified is the JSON object the model is asked to answer with.
type classified struct {
	Type       string            `json:"type"`
	Intent     string            `json:"intent"`
	Slots      map[string]string `json:"slots"`
	Confidence float32           `json:"confidence"`
	Message    string            `json:"message,omitempty"`
}

// Classifier asks a chat model to classify the utterance against the prompt
// spec. When the model call or its answer fails, it defers to Fallback.
type Classifier struct {
	spec     PromptSpec
	client   *openai.Client
	model    string
	timeout  time.Duration
	fallback Detector
	logger   zerolog.Logger
}

func NewClassifier(spec PromptSpec, client *openai.Client, model string) *Classifier {
	return &Classifier{
		spec:     spec,
		client:   client,
		model:    model,
		timeout:  10 * time.Second,
		fallback: Keywords{},
		logger:   log.WithComponent("nlu"),
	}
}

// LoadClassifier reads the prompt spec at path.
func LoadClassifier(path string, client *openai.Client, model string) (*Classifier, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt spec: %w", err)
	}
	spec, err := ParsePromptSpec(b)
	if err != nil {
		return nil, err
	}
	return NewClassifier(spec, client, model), nil
}

func (c *Classifier) Detect(ctx context.Context, text string, history []Turn) (Result, error) {
	res, err := c.classify(ctx, text, history)
	if err != nil {
		logger := log.WithContext(ctx, c.logger)
		logger.Warn().Err(err).Msg("llm classification failed, using keywords")
		return c.fallback.Detect(ctx, text, history)
	}
	return res, nil
}

func (c *Classifier) classify(ctx context.Context, text string, history []Turn) (Result, error) {
	temp := c.spec.Style.Temperature
	if temp <= 0 {
		temp = 0.1
	}
	maxTok := c.spec.Style.MaxTokens
	if maxTok <= 0 {
		maxTok = 200
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temp,
		MaxTokens:   maxTok,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.prompt(text, history)},
		},
	})
	if err != nil {
		return Result{}, err
	}
	if len(resp.Choices) == 0 {
		return Result{}, fmt.Errorf("no choices")
	}
	out, err := decodeClassified(resp.Choices[0].Message.Content)
	if err != nil {
		return Result{}, err
	}
	return out.result(), nil
}

// prompt embeds the spec, the intent catalogue and a compact transcript into a
// single system message.
func (c *Classifier) prompt(text string, history []Turn) string {
	catalogue, _ := json.Marshal(c.spec.Intents)

	var b strings.Builder
	b.WriteString(c.spec.System)
	b.WriteString("\n\nIntents:\n")
	b.Write(catalogue)
	if len(history) > 0 {
		b.WriteString("\n\nTranscript (role: content):\n")
		for _, t := range history {
			role := strings.ToUpper(t.Role)
			if role == "" {
				role = "USER"
			}
			b.WriteString(role)
			b.WriteString(": ")
			b.WriteString(strings.ReplaceAll(strings.TrimSpace(t.Content), "\n", " "))
			b.WriteString("\n")
		}
	}
	b.WriteString("\nUtterance: ")
	b.WriteString(strings.TrimSpace(text))
	b.WriteString("\n\nOutput ONLY the JSON object.\n")
	return b.String()
}

// decodeClassified parses the model answer, tolerating prose or code fences
// around the JSON object.
func decodeClassified(raw string) (classified, error) {
	var out classified
	err := json.Unmarshal([]byte(raw), &out)
	if err != nil {
		first := strings.Index(raw, "{")
		last := strings.LastIndex(raw, "}")
		if first < 0 || last <= first {
			return classified{}, fmt.Errorf("decode classification: %w", err)
		}
		if err2 := json.Unmarshal([]byte(raw[first:last+1]), &out); err2 != nil {
			return classified{}, fmt.Errorf("decode classification: %w", err2)
		}
	}
	return out, nil
}

func (c classified) result() Result {
	switch Kind(strings.ToLower(c.Type)) {
	case KindLaunch:
		return Result{Kind: KindLaunch, Confidence: c.Confidence}
	case KindIntent:
		if strings.TrimSpace(c.Intent) == "" {
			break
		}
		slots := make(map[string]string, len(c.Slots))
		for k, v := range c.Slots {
			if v != "" {
				slots[k] = v
			}
		}
		r := Result{Kind: KindIntent, Confidence: c.Confidence, Message: c.Message}
		r.Intent.Name = c.Intent
		r.Intent.Slots = slots
		return r
	}
	return Result{Kind: KindUnknown, Confidence: c.Confidence, Message: c.Message}
}
