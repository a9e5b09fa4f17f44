package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Find  func(FindArgs) (Result, error)
	Tag   func(TagArgs) (Result, error)
	Clear func() (Result, error)
	Save  func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeFind:
		if handlers.Find == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "find handler not configured"}
		}
		return handlers.Find(*cmd.Find)
	case TypeTag:
		if handlers.Tag == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "tag handler not configured"}
		}
		return handlers.Tag(*cmd.Tag)
	case TypeClear:
		if handlers.Clear == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "clear handler not configured"}
		}
		return handlers.Clear()
	case TypeSave:
		if handlers.Save == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "save handler not configured"}
		}
		return handlers.Save()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
