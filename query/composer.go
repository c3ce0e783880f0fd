package query

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/luminai/askdocs/ai"
	"github.com/luminai/askdocs/core"
	"github.com/luminai/askdocs/storage"
	"github.com/luminai/askdocs/vector"
)

// Composer answers questions over the indexed corpus: embed the query,
// retrieve the nearest chunks, and complete against them. Every answered
// query is persisted as an exchange on a chat session.
type Composer struct {
	embedder  ai.Embedder
	completer ai.Completer
	index     vector.Index
	chat      storage.ChatRepository
	gate      Gate
	topK      int
	logger    *slog.Logger
}

// ComposerOption configures a Composer.
type ComposerOption func(*Composer) error

// WithTopK sets how many chunks are retrieved for context. Default is 3.
func WithTopK(topK int) ComposerOption {
	return func(c *Composer) error {
		if topK > 0 {
			c.topK = topK
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ComposerOption {
	return func(c *Composer) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewComposer creates a Composer.
func NewComposer(
	embedder ai.Embedder,
	completer ai.Completer,
	index vector.Index,
	chat storage.ChatRepository,
	gate Gate,
	opts ...ComposerOption,
) (*Composer, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	if index == nil {
		return nil, ErrIndexRequired
	}
	if chat == nil {
		return nil, ErrChatRepositoryRequired
	}
	if gate == nil {
		return nil, ErrGateRequired
	}

	c := &Composer{
		embedder:  embedder,
		completer: completer,
		index:     index,
		chat:      chat,
		gate:      gate,
		topK:      defaultTopK,
		logger:    slog.Default().With("component", "query"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Answer runs the full retrieval flow for one question. sessionID zero means
// start a new session for the caller; a non-zero sessionID must belong to
// them. Returns the answer and the session the exchange landed on.
//
// The quota gate runs before any model call; a rejected caller costs nothing.
// Nothing is persisted until the answer exists: a fresh session is only
// created after Complete succeeds, and usage is recorded only after the
// exchange lands, so a failed answer leaves no trace and burns no budget.
func (c *Composer) Answer(ctx context.Context, identity core.Identity, queryText string, sessionID core.ID) (string, core.ID, error) {
	queryText = strings.TrimSpace(queryText)
	if queryText == "" {
		return "", 0, core.ErrEmptyQuery
	}
	if identity.Subject == "" {
		return "", 0, core.ErrEmptyOwner
	}

	if err := c.gate.Allow(ctx, identity); err != nil {
		return "", 0, err
	}

	// Ownership of an existing session is checked up front; creating a
	// session for a new conversation waits until there is an answer to
	// store in it.
	var session *core.ChatSession
	if sessionID != 0 {
		var err error
		session, err = c.fetchOwnedSession(ctx, identity, sessionID)
		if err != nil {
			return "", 0, err
		}
	}

	contextText, err := c.retrieveContext(ctx, queryText)
	if err != nil {
		return "", 0, err
	}
	userPrompt := fmt.Sprintf("Context:\n%s\n\nQuestion:\n%s", contextText, queryText)

	answer, err := c.completer.Complete(ctx, personaPrompt, userPrompt, answerMaxTokens, answerTemperature)
	if err != nil {
		return "", 0, fmt.Errorf("completing answer: %w", err)
	}

	if session == nil {
		session, err = c.chat.CreateSession(ctx, identity.Subject)
		if err != nil {
			return "", 0, fmt.Errorf("creating session: %w", err)
		}
	}

	if _, err := c.chat.AddExchange(ctx, &core.Exchange{
		SessionId: session.Id,
		Owner:     identity.Subject,
		Query:     queryText,
		Answer:    answer,
	}); err != nil {
		return "", 0, fmt.Errorf("persisting exchange: %w", err)
	}

	if err := c.gate.Record(ctx, identity); err != nil {
		c.logger.Error("could not record prompt usage", "subject", identity.Subject, "err", err)
	}

	return answer, session.Id, nil
}

// History returns the caller's exchanges for a session, oldest first.
func (c *Composer) History(ctx context.Context, identity core.Identity, sessionID core.ID) ([]*core.Exchange, error) {
	session, err := c.chat.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Owner != identity.Subject {
		return nil, ErrNotSessionOwner
	}
	return c.chat.GetExchanges(ctx, sessionID)
}

// fetchOwnedSession loads an existing session and checks it belongs to
// the caller.
func (c *Composer) fetchOwnedSession(ctx context.Context, identity core.Identity, sessionID core.ID) (*core.ChatSession, error) {
	session, err := c.chat.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Owner != identity.Subject {
		return nil, ErrNotSessionOwner
	}
	return session, nil
}

// retrieveContext embeds the query and gathers the nearest chunk texts.
// An embedding failure fails the question. An index failure degrades to
// an empty context instead; the model then answers from nothing and
// says so.
func (c *Composer) retrieveContext(ctx context.Context, queryText string) (string, error) {
	queryVec, err := c.embedder.EmbedText(ctx, queryText)
	if err != nil {
		return "", fmt.Errorf("embedding query: %w", err)
	}

	matches, err := c.index.Query(ctx, queryVec, c.topK)
	if err != nil {
		c.logger.Warn("index query failed", "err", err)
		return "", nil
	}

	texts := make([]string, 0, len(matches))
	for _, match := range matches {
		if match.Text != "" {
			texts = append(texts, match.Text)
		}
	}
	return strings.Join(texts, "\n\n"), nil
}
