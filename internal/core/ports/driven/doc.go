// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): the similarity-search engine and the
// tool-calling completion service.
package driven
