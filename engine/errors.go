package engine

import "fmt"

// MoveErrorCode identifies why an action was judged illegal. The set is
// closed: validation never fails for any other reason.
type MoveErrorCode uint8

const (
	// MoveErrZeroAmount: the action takes zero coins.
	MoveErrZeroAmount MoveErrorCode = iota + 1
	// MoveErrAmountTooLarge: the action takes more coins than the stack has.
	MoveErrAmountTooLarge
	// MoveErrSplitForbidden: the action splits where the matching rules
	// forbid it.
	MoveErrSplitForbidden
	// MoveErrSplitRequired: the action omits the split the matching rules
	// demand.
	MoveErrSplitRequired
	// MoveErrBadSplit: the split halves are not both positive or do not
	// sum to the post-take remainder.
	MoveErrBadSplit
	// MoveErrNoMatchingRule: no rule in the set permits the requested
	// amount at all.
	MoveErrNoMatchingRule
	// MoveErrPlaceUnsupported: place actions are a reserved extension and
	// cannot be validated yet.
	MoveErrPlaceUnsupported
)

// MoveError reports why an action is illegal for a stack under a rule set.
type MoveError struct {
	Code   MoveErrorCode
	Height Stack
	Action NimAction
}

func (e *MoveError) Error() string {
	switch e.Code {
	case MoveErrZeroAmount:
		return "move takes zero coins"
	case MoveErrAmountTooLarge:
		return fmt.Sprintf("move takes %d coins from a stack of height %d", e.Action.Amount, e.Height)
	case MoveErrSplitForbidden:
		return fmt.Sprintf("split not permitted after taking %d coins", e.Action.Amount)
	case MoveErrSplitRequired:
		return fmt.Sprintf("split required after taking %d coins", e.Action.Amount)
	case MoveErrBadSplit:
		return fmt.Sprintf("split (%d,%d) does not partition the remainder %d",
			e.Action.Split.A, e.Action.Split.B, uint64(e.Height)-e.Action.Amount)
	case MoveErrNoMatchingRule:
		return fmt.Sprintf("no rule permits taking %d coins", e.Action.Amount)
	case MoveErrPlaceUnsupported:
		return "place actions are not supported yet"
	default:
		return "illegal move"
	}
}

func moveError(code MoveErrorCode, height Stack, action NimAction) *MoveError {
	return &MoveError{Code: code, Height: height, Action: action}
}
