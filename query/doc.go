// Package query answers questions over the indexed document corpus.
//
// The Composer embeds the question, retrieves the most similar chunks from
// the vector index, and asks the completion model to answer from that context
// alone. Answers are persisted as exchanges on chat sessions, and a quota
// Gate meters how many prompts each caller may spend per month.
package query
