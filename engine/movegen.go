package engine

// CheckMove reports whether action is legal for a stack of the given height
// under rules. It returns nil for a legal action and a *MoveError naming the
// first violated constraint otherwise. Rules are combined by union: the
// action is legal iff at least one rule matches both its amount and its
// split shape.
func CheckMove(rules []Rule, stack Stack, action NimAction) error {
	if action.Kind == ActionPlace {
		return moveError(MoveErrPlaceUnsupported, stack, action)
	}
	if action.Amount == 0 {
		return moveError(MoveErrZeroAmount, stack, action)
	}
	if action.Amount > uint64(stack) {
		return moveError(MoveErrAmountTooLarge, stack, action)
	}
	if action.Split.Split {
		remainder := uint64(stack) - action.Amount
		if action.Split.A < 1 || action.Split.B < 1 ||
			uint64(action.Split.A)+uint64(action.Split.B) != remainder {
			return moveError(MoveErrBadSplit, stack, action)
		}
	}

	// The amount may match several rules with conflicting split policies;
	// any single rule accepting both amount and shape makes the move legal.
	var splitErr *MoveError
	for _, rule := range rules {
		if !rule.Take.matches(action.Amount, stack) {
			continue
		}
		switch rule.Split {
		case SplitNever:
			if !action.Split.Split {
				return nil
			}
			splitErr = moveError(MoveErrSplitForbidden, stack, action)
		case SplitAlways:
			if action.Split.Split {
				return nil
			}
			splitErr = moveError(MoveErrSplitRequired, stack, action)
		case SplitOptional:
			return nil
		}
	}
	if splitErr != nil {
		return splitErr
	}
	return moveError(MoveErrNoMatchingRule, stack, action)
}

// CalculateLegalMoves enumerates every action legal for a stack of the given
// height under rules, in rule order, then amount order, then split order
// (the plain take before the split variants for optional rules).
// Structurally identical actions produced by different rules are kept; the
// caller sees them as distinct legal actions.
func CalculateLegalMoves(rules []Rule, stack Stack) []NimAction {
	var moves []NimAction
	for _, rule := range rules {
		for _, amount := range rule.Take.legalAmounts(stack) {
			remainder := stack - Stack(amount)
			switch rule.Split {
			case SplitNever:
				moves = append(moves, Take(amount))
			case SplitOptional:
				moves = append(moves, Take(amount))
				for _, sp := range CalculateSplits(remainder) {
					moves = append(moves, TakeAndSplit(amount, sp.Left, sp.Right))
				}
			case SplitAlways:
				for _, sp := range CalculateSplits(remainder) {
					moves = append(moves, TakeAndSplit(amount, sp.Left, sp.Right))
				}
			}
		}
	}
	return moves
}

// ApplyMoveUnchecked performs the arithmetic of action against a stack of
// the given height without validation, returning the stacks that replace it:
// one stack of height-amount for a plain take (possibly height zero), or the
// two split halves. Behavior is defined only for actions CheckMove accepts;
// passing an illegal action is a contract violation, not a recoverable
// error.
func ApplyMoveUnchecked(stack Stack, action NimAction) []Stack {
	if action.Split.Split {
		return []Stack{action.Split.A, action.Split.B}
	}
	return []Stack{stack - Stack(action.Amount)}
}

// ApplyMove validates action with CheckMove and then applies it. On illegal
// input it returns exactly the error CheckMove reports and leaves nothing
// mutated.
func ApplyMove(rules []Rule, stack Stack, action NimAction) ([]Stack, error) {
	if err := CheckMove(rules, stack, action); err != nil {
		return nil, err
	}
	return ApplyMoveUnchecked(stack, action), nil
}
