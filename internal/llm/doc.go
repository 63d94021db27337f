// Package llm generates flashcard question/answer pairs from recognized
// text. It supports OpenAI-compatible endpoints (a local Ollama install or
// the OpenAI cloud API) and Gemini, and decides how many generation calls
// the bulk pipeline may overlap per host kind.
package llm
