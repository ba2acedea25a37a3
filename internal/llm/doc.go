// Package llm implements the generative fallback stage of the categorization
// chain: a black-box text model asked to pick one category from the fixed
// enumeration.
//
// The stage is explicitly non-deterministic and best-effort. Every call runs
// under an enforced timeout, behind a token-bucket rate limiter, with a TTL
// cache keyed by normalized description in front of the API. Any failure
// (transport, parse, timeout, out-of-enumeration answer) surfaces as a stage
// error that the engine absorbs by falling through to the rule-based stage.
package llm
