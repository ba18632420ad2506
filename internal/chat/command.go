package chat

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Command - closed set of chat commands.
type Command int

const (
	_ Command = iota
	// CommandQuit - disconnect sender.
	CommandQuit
	// CommandListUsers - send the list of participants to sender.
	CommandListUsers
	// CommandListCommands - send the list of commands to sender.
	CommandListCommands
)

var commandTable = map[string]Command{
	"!quit":     CommandQuit,
	"!users":    CommandListUsers,
	"!commands": CommandListCommands,
}

// lookupCommand - exact match of the whole line.
func lookupCommand(line string) (Command, bool) {
	c, ok := commandTable[line]
	return c, ok
}

func (c Command) String() string {
	switch c {
	case CommandQuit:
		return "quit"
	case CommandListUsers:
		return "list-users"
	case CommandListCommands:
		return "list-commands"
	default:
		return "unknown command"
	}
}

func commandsLine() string {
	tokens := lo.Keys(commandTable)
	sort.Strings(tokens)
	return "Available commands are: " + strings.Join(tokens, " ") + "\n"
}

func usersLine(names []string) string {
	return "Current users are: " + strings.Join(names, ", ") + "\n"
}
