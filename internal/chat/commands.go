// Package chat implements the career-coach conversation surface. Model
// replies may embed command tags; a small explicit parser extracts them
// and dispatches each to a dedicated generator whose output is
// substituted back into the reply.
package chat

import (
	"regexp"
	"strings"
)

// CommandKind enumerates the commands the coach model may emit.
type CommandKind int

const (
	// RequestQuiz asks for a short quiz on a topic.
	RequestQuiz CommandKind = iota
	// RequestProject asks for a portfolio project idea for a skill.
	RequestProject
)

// Command is one parsed command tag.
type Command struct {
	Kind CommandKind
	// Arg is the topic (RequestQuiz) or skill (RequestProject).
	Arg string
	// Raw is the exact tag text as it appeared in the reply.
	Raw string
}

// tagPattern matches [QUIZ:topic] and [PROJECT:skill] tags. Arguments
// run to the closing bracket and may contain spaces.
var tagPattern = regexp.MustCompile(`\[(QUIZ|PROJECT):([^\]\n]+)\]`)

// ParseCommands extracts command tags from a model reply in order of
// appearance. Malformed or empty-argument tags are ignored.
func ParseCommands(text string) []Command {
	var commands []Command
	for _, match := range tagPattern.FindAllStringSubmatch(text, -1) {
		arg := strings.TrimSpace(match[2])
		if arg == "" {
			continue
		}

		var kind CommandKind
		switch match[1] {
		case "QUIZ":
			kind = RequestQuiz
		case "PROJECT":
			kind = RequestProject
		default:
			continue
		}
		commands = append(commands, Command{Kind: kind, Arg: arg, Raw: match[0]})
	}
	return commands
}
