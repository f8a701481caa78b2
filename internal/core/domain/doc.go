// Package domain contains the core business entities for studyhall:
// courses, lessons, content chunks, search results, and conversation
// sessions. Domain types have no dependencies on adapters or services.
package domain
