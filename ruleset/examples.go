// Well-known rule sets, mostly for tests and CLI demos.
package ruleset

import "nimlib/engine"

// ClassicNim: take any positive number of coins, no splitting. The nimber
// of a stack equals its height.
func ClassicNim() *Document {
	return FromRules("classic-nim", []engine.Rule{
		{Take: engine.Any, Split: engine.SplitNever},
	})
}

// Parity: take exactly one coin each turn. Nimbers alternate 0,1 with the
// height's parity.
func Parity() *Document {
	return FromRules("parity", []engine.Rule{
		{Take: engine.Exact(1), Split: engine.SplitNever},
	})
}

// Subtraction123: take 1, 2, or 3 coins. Nimbers cycle 0,1,2,3.
func Subtraction123() *Document {
	return FromRules("subtraction-1-2-3", []engine.Rule{
		{Take: engine.Exact(1), Split: engine.SplitNever},
		{Take: engine.Exact(2), Split: engine.SplitNever},
		{Take: engine.Exact(3), Split: engine.SplitNever},
	})
}

// Kayles: take 1 or 2 coins and optionally split the remainder.
func Kayles() *Document {
	return FromRules("kayles", []engine.Rule{
		{Take: engine.Exact(1), Split: engine.SplitOptional},
		{Take: engine.Exact(2), Split: engine.SplitOptional},
	})
}

// PokerNim: classic Nim plus a reserved place rule. Place moves are not
// generated or accepted yet, so this plays exactly like ClassicNim for now.
func PokerNim() *Document {
	return FromRules("poker-nim", []engine.Rule{
		{Take: engine.Any, Split: engine.SplitNever},
		{Take: engine.Place, Split: engine.SplitNever},
	})
}

// Examples lists every built-in rule set.
func Examples() []*Document {
	return []*Document{
		ClassicNim(),
		Parity(),
		Subtraction123(),
		Kayles(),
		PokerNim(),
	}
}
