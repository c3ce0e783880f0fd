package query

// personaPrompt frames the assistant: answer strictly from retrieved context.
const personaPrompt = `You are a helpful assistant that answers questions using the provided document context. Base your answers only on the context given. If the context does not contain the information needed to answer, say that you don't know rather than guessing.`

const (
	// defaultTopK is how many chunks to retrieve for context.
	defaultTopK = 3
	// answerMaxTokens bounds the completion length.
	answerMaxTokens = 800
	// answerTemperature is the sampling temperature for answers.
	answerTemperature = 0.5
)
