package commands

import (
	"fmt"
	"strings"
)

type Type string

const (
	TypeFind  Type = "find"
	TypeTag   Type = "tag"
	TypeClear Type = "clear"
	TypeSave  Type = "save"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type FindArgs struct {
	Query string
}

type TagArgs struct {
	Name string
}

type Command struct {
	Type Type
	Raw  string
	Find *FindArgs
	Tag  *TagArgs
}

// Parse reads a slash command typed into the capture panel. The leading
// slash is optional so the palette can feed pre-stripped input.
func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeFind:
		// An empty query just opens the search bar.
		return Command{Type: TypeFind, Raw: raw, Find: &FindArgs{Query: strings.Join(args, " ")}}, nil
	case TypeTag:
		return parseTag(raw, args)
	case TypeClear:
		if len(args) > 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "clear takes no arguments"}
		}
		return Command{Type: TypeClear, Raw: raw}, nil
	case TypeSave:
		if len(args) > 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "save takes no arguments"}
		}
		return Command{Type: TypeSave, Raw: raw}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseTag(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "tag requires a name"}
	}
	name := strings.TrimPrefix(args[0], "#")
	if name == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "tag requires a name"}
	}
	return Command{Type: TypeTag, Raw: raw, Tag: &TagArgs{Name: name}}, nil
}
