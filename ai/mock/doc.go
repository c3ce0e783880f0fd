// Package mock provides test doubles for the ai interfaces.
//
// The mocks default to deterministic behavior (FNV-seeded vectors, canned
// answers and transcripts) and support behavior injection via XFunc fields
// plus call-count assertions, so pipeline and composer tests run without any
// external AI service.
package mock
