// Package provider implements single-attempt transports to the translation
// backend.
package provider

import "github.com/ZaguanLabs/bilingo"

// Transport is an alias to the main package interface for convenience.
type Transport = bilingo.Transport

// ChatRequest is an alias to the main package type.
type ChatRequest = bilingo.ChatRequest
