package flags

import (
	"github.com/spf13/pflag"

	"github.com/hristov111/companion/pkg/ai"
)

// AIFlags contains flags for the language-model collaborator.
type AIFlags struct {
	Endpoint string
	Model    string
}

func NewAIFlags() *AIFlags {
	return &AIFlags{
		Model: "meta-llama/Llama-3.1-8B-Instruct",
	}
}

func (f *AIFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Endpoint, "ai-endpoint", f.Endpoint, "URL for an OpenAI-compatible endpoint. Set OPENAI_API_KEY to specify an API key.")
	fs.StringVar(&f.Model, "ai-model", f.Model, "The model used for chat completions")
}

func (f *AIFlags) GetLLMClient() *ai.LLMClient {
	return ai.NewLLMClient(f.Endpoint, f.Model)
}
