package application

import "context"

// Command is a request that changes system state.
type Command interface {
	CommandName() string
}

// CommandHandler handles a single command type.
type CommandHandler[C Command] interface {
	Handle(ctx context.Context, cmd C) error
}
