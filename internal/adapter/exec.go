package adapter

import (
	"context"
	"os/exec"
)

// Commander defines an interface for running external programs to enable mocking
//
//go:generate mockgen -source=exec.go -destination=../mocks/exec.go -package=mocks -mock_names=Commander=MockCommander
type Commander interface {
	// Run starts the program and waits for it to exit, returning its combined output
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// RealCommander implements Commander using os/exec
type RealCommander struct{}

// NewCommander creates a new real commander
func NewCommander() Commander {
	return &RealCommander{}
}

func (c *RealCommander) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput() //nolint:gosec,G204
}
