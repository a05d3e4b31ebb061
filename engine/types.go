// Package engine implements move generation and nimber calculation for
// generalized Nim games: stacks of coins, a rule set describing which take
// amounts are legal, and optional or forced splitting of the remainder into
// two non-empty stacks.
package engine

// Stack is the height of a single stack of coins. A height of zero is
// terminal: no legal moves exist against it.
type Stack uint64

// Nimber is a Sprague-Grundy value. It is a distinct type from Stack so
// heights and game values cannot be conflated in arithmetic.
type Nimber uint64

// Position is an ordered sequence of stacks making up one full game state.
// Order among stacks is irrelevant to the game value (XOR is commutative)
// but preserved for display and deterministic move enumeration.
type Position []Stack

// TotalHeight sums the stack heights of the position.
func (p Position) TotalHeight() Stack {
	var total Stack
	for _, s := range p {
		total += s
	}
	return total
}

// SplitRule says whether a player may or must split a stack into two
// non-empty stacks after taking coins.
type SplitRule uint8

const (
	// SplitNever forbids splitting the remainder.
	SplitNever SplitRule = iota
	// SplitOptional allows the remainder to be split or left whole.
	SplitOptional
	// SplitAlways requires the remainder to be split.
	SplitAlways
)

func (s SplitRule) String() string {
	switch s {
	case SplitNever:
		return "never"
	case SplitOptional:
		return "optional"
	case SplitAlways:
		return "always"
	default:
		return "unknown"
	}
}

// TakeKind discriminates TakeSize variants.
type TakeKind uint8

const (
	// TakeExact allows removing exactly Amount coins.
	TakeExact TakeKind = iota
	// TakeAny allows removing any positive number of coins up to the
	// stack height.
	TakeAny
	// TakePlace is the reserved Poker-Nim variant: returning coins from a
	// player pool onto a stack. It is representable and serializable but
	// not evaluable; move generation skips rules of this kind and
	// CheckMove rejects place actions.
	TakePlace
)

// TakeSize specifies how many coins a rule allows to be taken in one move.
type TakeSize struct {
	Kind   TakeKind
	Amount uint64 // coins removed when Kind == TakeExact
}

// Exact returns a take size removing exactly n coins.
func Exact(n uint64) TakeSize { return TakeSize{Kind: TakeExact, Amount: n} }

// Any is the take size allowing any positive amount up to the stack height.
var Any = TakeSize{Kind: TakeAny}

// Place is the reserved pool-placement take size.
var Place = TakeSize{Kind: TakePlace}

// legalAmounts returns the amounts this take size permits against a stack
// of the given height, in increasing order. Place yields none.
func (t TakeSize) legalAmounts(height Stack) []uint64 {
	switch t.Kind {
	case TakeExact:
		if t.Amount >= 1 && t.Amount <= uint64(height) {
			return []uint64{t.Amount}
		}
		return nil
	case TakeAny:
		amounts := make([]uint64, 0, height)
		for a := uint64(1); a <= uint64(height); a++ {
			amounts = append(amounts, a)
		}
		return amounts
	default:
		return nil
	}
}

// matches reports whether amount is one of the take size's legal amounts
// against a stack of the given height.
func (t TakeSize) matches(amount uint64, height Stack) bool {
	switch t.Kind {
	case TakeExact:
		return amount == t.Amount && amount <= uint64(height)
	case TakeAny:
		return amount >= 1 && amount <= uint64(height)
	default:
		return false
	}
}

// Rule pairs a take size with a split requirement. A move is legal for a
// rule set iff at least one rule matches it; rule order only affects
// enumeration order, never legality.
type Rule struct {
	Take  TakeSize
	Split SplitRule
}

// ActionKind discriminates NimAction variants.
type ActionKind uint8

const (
	// ActionTake removes coins from a stack.
	ActionTake ActionKind = iota
	// ActionPlace returns pooled coins to a stack (reserved, rejected by
	// CheckMove until pool semantics land).
	ActionPlace
)

// NimSplit describes the split part of an action: either no split, or two
// resulting stacks A and B, both >= 1, summing to the post-take remainder.
type NimSplit struct {
	Split bool
	A, B  Stack
}

// NoSplit is the split shape of a plain take.
func NoSplit() NimSplit { return NimSplit{} }

// SplitInto is the split shape dividing the remainder into stacks a and b.
func SplitInto(a, b Stack) NimSplit { return NimSplit{Split: true, A: a, B: b} }

// NimAction is one proposed move against a single stack.
type NimAction struct {
	Kind   ActionKind
	Amount uint64
	Split  NimSplit
}

// Take returns a plain take action removing amount coins.
func Take(amount uint64) NimAction {
	return NimAction{Kind: ActionTake, Amount: amount}
}

// TakeAndSplit returns a take action that splits the remainder into a and b.
func TakeAndSplit(amount uint64, a, b Stack) NimAction {
	return NimAction{Kind: ActionTake, Amount: amount, Split: SplitInto(a, b)}
}
