// Package providers implements the Reviewer interface for each supported LLM
// provider.
//
// Supported providers: Anthropic (Claude), OpenAI (GPT), Google (Gemini) via
// the official genai SDK, and Ollama / LM Studio for local models.
//
// Credentials are supplied at construction and never read from ambient state,
// so the same process can drive differently-credentialed reviewers
// concurrently. All providers share a common retry helper that backs off
// exponentially on rate limits only, bounded by the caller's context
// deadline.
//
// Use [New] to obtain a Reviewer by provider name, model string, and API key.
package providers
