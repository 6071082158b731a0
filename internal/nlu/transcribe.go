package nlu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

var ErrEmptyTranscription = errors.New("empty transcription")

// Transcriber turns uploaded audio into text with the OpenAI speech-to-text
// API.
type Transcriber struct {
	client *openai.Client
	model  string
}

func NewTranscriber(client *openai.Client, model string) *Transcriber {
	return &Transcriber{client: client, model: model}
}

// Transcribe reads audio from r. filename is only used by the API to infer
// the audio format.
func (t *Transcriber) Transcribe(ctx context.Context, r io.Reader, filename string) (string, error) {
	tr, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		Reader:   r,
		FilePath: filename,
	})
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	text := strings.TrimSpace(tr.Text)
	if text == "" {
		return "", ErrEmptyTranscription
	}
	return text, nil
}
