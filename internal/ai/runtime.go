package ai

import "context"

// Runtime is the minimal interface the agent needs from a model backend.
// *Client implements it; tests substitute fakes.
type Runtime interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}
