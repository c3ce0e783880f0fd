// Package openai implements the ai interfaces against OpenAI-compatible APIs.
//
// Embeddings and chat completions go through langchaingo; audio transcription
// uses the go-openai client because langchaingo exposes no audio endpoint.
// All three services share one Config, so ingestion and querying are
// guaranteed to embed with the same model.
package openai
