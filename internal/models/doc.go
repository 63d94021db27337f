// Package models provides functionality for listing the models available
// at the configured OpenAI-compatible endpoint. It helps users discover
// which chat models they can pass to --llm-model, whether against
// api.openai.com or a local Ollama server.
package models
