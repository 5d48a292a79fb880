package repl

import (
	"errors"
	"strings"
)

var (
	ErrEmptyCommand   = errors.New("empty command")
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadCommand     = errors.New("bad command")
)

/*
Command types are centralized here to remove hard-coded dependencies
*/
const (
	CommandGet     = "GET"
	CommandSet     = "SET"
	CommandDel     = "DEL"
	CommandExists  = "EXISTS"
	CommandMSet    = "MSET"
	CommandMGet    = "MGET"
	CommandBegin   = "BEGIN"
	CommandCommit  = "COMMIT"
	CommandAbort   = "ABORT"
	CommandExpire  = "EXPIRE"
	CommandTTL     = "TTL"
	CommandPersist = "PERSIST"
	CommandRange   = "RANGE"
	CommandExit    = "EXIT"
)

/*
CommandSpec defines a command name and its arity rule. MinArgs/MaxArgs
count arguments after the verb; MaxArgs -1 means variadic.
*/
type CommandSpec struct {
	Name    string
	MinArgs int
	MaxArgs int
	// PairedArgs exige número par de argumentos (MSET k v k v ...)
	PairedArgs bool
}

/*
Registry of all supported commands and their arity
*/
var commandSpec = map[string]CommandSpec{
	CommandGet:     {Name: CommandGet, MinArgs: 1, MaxArgs: 1},
	CommandSet:     {Name: CommandSet, MinArgs: 2, MaxArgs: -1},
	CommandDel:     {Name: CommandDel, MinArgs: 1, MaxArgs: 1},
	CommandExists:  {Name: CommandExists, MinArgs: 1, MaxArgs: 1},
	CommandMSet:    {Name: CommandMSet, MinArgs: 2, MaxArgs: -1, PairedArgs: true},
	CommandMGet:    {Name: CommandMGet, MinArgs: 1, MaxArgs: -1},
	CommandBegin:   {Name: CommandBegin, MinArgs: 0, MaxArgs: 0},
	CommandCommit:  {Name: CommandCommit, MinArgs: 0, MaxArgs: 0},
	CommandAbort:   {Name: CommandAbort, MinArgs: 0, MaxArgs: 0},
	CommandExpire:  {Name: CommandExpire, MinArgs: 2, MaxArgs: 2},
	CommandTTL:     {Name: CommandTTL, MinArgs: 1, MaxArgs: 1},
	CommandPersist: {Name: CommandPersist, MinArgs: 1, MaxArgs: 1},
	CommandRange:   {Name: CommandRange, MinArgs: 2, MaxArgs: 2},
	CommandExit:    {Name: CommandExit, MinArgs: 0, MaxArgs: 0},
}

/*
Command represents a parsed client command.
*/
type Command struct {
	Name string
	Args []string
}

/*
ParseLine parses a single protocol line into a Command.

Tokens are split on whitespace runs; the verb is uppercased on
dispatch. The input line is expected to be a single line without the
trailing newline.
*/
func ParseLine(line string) (Command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Command{}, ErrEmptyCommand
	}

	cmd := strings.ToUpper(parts[0])
	args := parts[1:]

	spec, ok := commandSpec[cmd]
	if !ok {
		return Command{}, ErrUnknownCommand
	}

	if len(args) < spec.MinArgs {
		return Command{}, ErrBadCommand
	}
	if spec.MaxArgs >= 0 && len(args) > spec.MaxArgs {
		return Command{}, ErrBadCommand
	}
	if spec.PairedArgs && len(args)%2 != 0 {
		return Command{}, ErrBadCommand
	}

	return Command{
		Name: cmd,
		Args: args,
	}, nil
}
