package workspace

import "errors"

var (
	ErrNoCollection         = errors.New("create a collection first")
	ErrNothingSelected      = errors.New("nothing selected")
	ErrNotARequest          = errors.New("can only duplicate requests")
	ErrCannotMoveCollection = errors.New("cannot move collections")
	ErrNoPendingMove        = errors.New("no move in progress")
	ErrMoveIntoSelf         = errors.New("cannot move a folder into itself")
	ErrDestinationMissing   = errors.New("destination folder not found")
	ErrSourceMissing        = errors.New("item not found in source collection")
	ErrUnsavedRequest       = errors.New("request is not part of a collection; use 'n' in the request list to create one")
	ErrEmptyName            = errors.New("name cannot be empty")
	ErrInvalidSelection     = errors.New("invalid selection")
)
