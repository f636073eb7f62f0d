// Package llmaction provides a built-in dag.Action that sends the upstream
// text Input to one of three large-language-model providers and wraps the
// response text in an Output.
package llmaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/generative-ai-go/genai"
	"github.com/openai/openai-go"
	openaioption "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	googleoption "google.golang.org/api/option"

	"github.com/arjuncodes/dagrunner/dag"
)

// Provider selects which backend NewAction calls.
type Provider int

const (
	ProviderAnthropic Provider = iota
	ProviderOpenAI
	ProviderGoogle
)

func (p Provider) String() string {
	switch p {
	case ProviderAnthropic:
		return "anthropic"
	case ProviderOpenAI:
		return "openai"
	case ProviderGoogle:
		return "google"
	default:
		return "unknown"
	}
}

// Env keys the action reads its API key from. Kept with the shared Env
// rather than as constructor parameters, matching the scheduler's "no
// per-task parameter plumbing" rule for anything that isn't the Input.
const (
	EnvAnthropicAPIKey = "anthropic_api_key"
	EnvOpenAIAPIKey    = "openai_api_key"
	EnvGoogleAPIKey    = "google_api_key"
)

var errMissingAPIKey = errors.New("llmaction: no API key set in Env for the selected provider")

type action struct {
	provider Provider
	model    string
}

// NewAction returns a dag.Action that treats the first predecessor Output
// (unwrapped as a string) as a prompt, sends it to provider/model, and
// wraps the response text as the task's Output. Reaching the provider
// fails, or a missing API key, surfaces as a dag.ActionError — never a
// panic.
func NewAction(provider Provider, model string) dag.Action {
	return &action{provider: provider, model: model}
}

func (a *action) Run(ctx context.Context, in dag.Input, env *dag.Env) (dag.Output, error) {
	box, ok := in.At(0)
	if !ok {
		return dag.Output{}, dag.NewActionError("llmaction: no prompt in Input", nil)
	}
	prompt, ok := dag.UnwrapAs[string](box)
	if !ok {
		return dag.Output{}, dag.NewActionError("llmaction: Input[0] is not a string prompt", nil)
	}

	var (
		text string
		err  error
	)
	switch a.provider {
	case ProviderAnthropic:
		text, err = a.callAnthropic(ctx, env, prompt)
	case ProviderOpenAI:
		text, err = a.callOpenAI(ctx, env, prompt)
	case ProviderGoogle:
		text, err = a.callGoogle(ctx, env, prompt)
	default:
		err = fmt.Errorf("llmaction: unknown provider %v", a.provider)
	}
	if err != nil {
		return dag.Output{}, dag.NewActionError(fmt.Sprintf("llmaction: %s call failed", a.provider), err)
	}
	return dag.NewOutput(text), nil
}

func (a *action) callAnthropic(ctx context.Context, env *dag.Env, prompt string) (string, error) {
	key, ok := dag.Get[string](env, EnvAnthropicAPIKey)
	if !ok || key == "" {
		return "", errMissingAPIKey
	}
	client := anthropic.NewClient(anthropicoption.WithAPIKey(key))
	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}
	var out string
	for _, block := range message.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	return out, nil
}

func (a *action) callOpenAI(ctx context.Context, env *dag.Env, prompt string) (string, error) {
	key, ok := dag.Get[string](env, EnvOpenAIAPIKey)
	if !ok || key == "" {
		return "", errMissingAPIKey
	}
	client := openai.NewClient(openaioption.WithAPIKey(key))
	completion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(prompt),
					},
				},
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("llmaction: no choices returned by openai")
	}
	return completion.Choices[0].Message.Content, nil
}

func (a *action) callGoogle(ctx context.Context, env *dag.Env, prompt string) (string, error) {
	key, ok := dag.Get[string](env, EnvGoogleAPIKey)
	if !ok || key == "" {
		return "", errMissingAPIKey
	}
	client, err := genai.NewClient(ctx, googleoption.WithAPIKey(key))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel(a.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}
	var out string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out += string(text)
		}
	}
	return out, nil
}
