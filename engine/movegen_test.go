package engine

import "testing"

// TestLegalMovesClassicNim verifies move enumeration for take-any rules:
// one plain take per amount 1..height, in amount order.
func TestLegalMovesClassicNim(t *testing.T) {
	rules := []Rule{{Take: Any, Split: SplitNever}}

	for height := Stack(0); height <= 100; height++ {
		moves := CalculateLegalMoves(rules, height)
		if len(moves) != int(height) {
			t.Fatalf("height %d: expected %d moves, got %d", height, height, len(moves))
		}
		for i, move := range moves {
			if move.Amount != uint64(i+1) || move.Split.Split {
				t.Errorf("height %d move %d: expected plain take of %d, got %+v", height, i, i+1, move)
			}
		}
	}
}

// TestLegalMovesExactTakes verifies enumeration for exact-take rules: a rule
// contributes one move iff its amount fits the stack.
func TestLegalMovesExactTakes(t *testing.T) {
	rules := []Rule{
		{Take: Exact(1), Split: SplitNever},
		{Take: Exact(2), Split: SplitNever},
		{Take: Exact(3), Split: SplitNever},
	}

	for height := Stack(0); height <= 100; height++ {
		moves := CalculateLegalMoves(rules, height)
		want := int(height)
		if want > 3 {
			want = 3
		}
		if len(moves) != want {
			t.Fatalf("height %d: expected %d moves, got %d", height, want, len(moves))
		}
	}

	// At height 10 the three moves come out in rule order.
	moves := CalculateLegalMoves(rules, 10)
	for i, move := range moves {
		if move.Amount != uint64(i+1) {
			t.Errorf("move %d: expected amount %d, got %d", i, i+1, move.Amount)
		}
		if move.Split.Split {
			t.Errorf("move %d: expected no split, got %+v", i, move.Split)
		}
	}
}

// TestLegalMovesOptionalSplit verifies that an optional-split rule emits the
// plain take first, then one split variant per partition of the remainder.
func TestLegalMovesOptionalSplit(t *testing.T) {
	rules := []Rule{{Take: Exact(1), Split: SplitOptional}}

	// Height 4, take 1, remainder 3: plain take plus the single split (1,2).
	moves := CalculateLegalMoves(rules, 4)
	want := []NimAction{
		Take(1),
		TakeAndSplit(1, 1, 2),
	}
	if len(moves) != len(want) {
		t.Fatalf("expected %d moves, got %d: %+v", len(want), len(moves), moves)
	}
	for i := range want {
		if moves[i] != want[i] {
			t.Errorf("move %d: expected %+v, got %+v", i, want[i], moves[i])
		}
	}
}

// TestLegalMovesAlwaysSplit verifies that a forced-split rule emits only
// split variants, and none when the remainder cannot be split.
func TestLegalMovesAlwaysSplit(t *testing.T) {
	rules := []Rule{{Take: Exact(1), Split: SplitAlways}}

	// Remainder 5 splits as (1,4) and (2,3).
	moves := CalculateLegalMoves(rules, 6)
	want := []NimAction{
		TakeAndSplit(1, 1, 4),
		TakeAndSplit(1, 2, 3),
	}
	if len(moves) != len(want) {
		t.Fatalf("expected %d moves, got %d: %+v", len(want), len(moves), moves)
	}
	for i := range want {
		if moves[i] != want[i] {
			t.Errorf("move %d: expected %+v, got %+v", i, want[i], moves[i])
		}
	}

	// Remainders 0 and 1 cannot be split, so heights 1 and 2 are stuck.
	for _, height := range []Stack{1, 2} {
		if moves := CalculateLegalMoves(rules, height); len(moves) != 0 {
			t.Errorf("height %d: expected no moves under forced split, got %+v", height, moves)
		}
	}
}

// TestLegalMovesKeepsDuplicatesAcrossRules verifies that two rules matching
// the same amount both contribute their moves; the union is not deduplicated.
func TestLegalMovesKeepsDuplicatesAcrossRules(t *testing.T) {
	rules := []Rule{
		{Take: Exact(1), Split: SplitNever},
		{Take: Any, Split: SplitNever},
	}

	moves := CalculateLegalMoves(rules, 2)
	// Exact(1) yields take-1; Any yields take-1 and take-2.
	if len(moves) != 3 {
		t.Fatalf("expected 3 moves, got %d: %+v", len(moves), moves)
	}
	if moves[0] != Take(1) || moves[1] != Take(1) || moves[2] != Take(2) {
		t.Errorf("unexpected enumeration: %+v", moves)
	}
}

// TestLegalMovesSkipPlaceRules verifies that reserved place rules generate
// nothing.
func TestLegalMovesSkipPlaceRules(t *testing.T) {
	rules := []Rule{
		{Take: Place, Split: SplitNever},
		{Take: Exact(2), Split: SplitNever},
	}

	moves := CalculateLegalMoves(rules, 5)
	if len(moves) != 1 || moves[0] != Take(2) {
		t.Errorf("expected only the exact take, got %+v", moves)
	}
}

// TestCheckMoveErrors walks the closed error taxonomy.
func TestCheckMoveErrors(t *testing.T) {
	cases := []struct {
		name   string
		rules  []Rule
		height Stack
		action NimAction
		code   MoveErrorCode
	}{
		{
			name:   "zero amount",
			rules:  []Rule{{Take: Any, Split: SplitNever}},
			height: 4,
			action: Take(0),
			code:   MoveErrZeroAmount,
		},
		{
			name:   "amount exceeds height",
			rules:  []Rule{{Take: Any, Split: SplitNever}},
			height: 4,
			action: Take(5),
			code:   MoveErrAmountTooLarge,
		},
		{
			name:   "split not permitted",
			rules:  []Rule{{Take: Exact(2), Split: SplitNever}},
			height: 4,
			action: TakeAndSplit(2, 1, 1),
			code:   MoveErrSplitForbidden,
		},
		{
			name:   "split required",
			rules:  []Rule{{Take: Exact(1), Split: SplitAlways}},
			height: 4,
			action: Take(1),
			code:   MoveErrSplitRequired,
		},
		{
			name:   "split halves do not sum",
			rules:  []Rule{{Take: Exact(1), Split: SplitOptional}},
			height: 4,
			action: TakeAndSplit(1, 1, 1),
			code:   MoveErrBadSplit,
		},
		{
			name:   "split half empty",
			rules:  []Rule{{Take: Exact(2), Split: SplitOptional}},
			height: 4,
			action: TakeAndSplit(2, 0, 2),
			code:   MoveErrBadSplit,
		},
		{
			name:   "no matching rule",
			rules:  []Rule{{Take: Exact(2), Split: SplitNever}},
			height: 4,
			action: Take(3),
			code:   MoveErrNoMatchingRule,
		},
		{
			name:   "place action rejected",
			rules:  []Rule{{Take: Place, Split: SplitNever}},
			height: 4,
			action: NimAction{Kind: ActionPlace, Amount: 1},
			code:   MoveErrPlaceUnsupported,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckMove(tc.rules, tc.height, tc.action)
			if err == nil {
				t.Fatalf("expected error code %d, got nil", tc.code)
			}
			moveErr, ok := err.(*MoveError)
			if !ok {
				t.Fatalf("expected *MoveError, got %T", err)
			}
			if moveErr.Code != tc.code {
				t.Errorf("expected code %d, got %d (%v)", tc.code, moveErr.Code, moveErr)
			}
		})
	}
}

// TestCheckMoveUnionSemantics verifies that legality is the OR over rules: a
// split forbidden by one rule is still legal when another matching rule
// permits it.
func TestCheckMoveUnionSemantics(t *testing.T) {
	rules := []Rule{
		{Take: Exact(1), Split: SplitNever},
		{Take: Exact(1), Split: SplitAlways},
	}

	// Both shapes are legal: the first rule accepts the plain take, the
	// second accepts the split.
	if err := CheckMove(rules, 4, Take(1)); err != nil {
		t.Errorf("plain take should be legal: %v", err)
	}
	if err := CheckMove(rules, 4, TakeAndSplit(1, 1, 2)); err != nil {
		t.Errorf("split take should be legal: %v", err)
	}
}

// TestCheckMoveAcceptsAllGeneratedMoves cross-checks the generator against
// the validator for a rule set exercising every split policy.
func TestCheckMoveAcceptsAllGeneratedMoves(t *testing.T) {
	rules := []Rule{
		{Take: Exact(1), Split: SplitOptional},
		{Take: Exact(3), Split: SplitAlways},
		{Take: Any, Split: SplitNever},
	}

	for height := Stack(0); height <= 40; height++ {
		for _, move := range CalculateLegalMoves(rules, height) {
			if err := CheckMove(rules, height, move); err != nil {
				t.Fatalf("generated move %+v at height %d judged illegal: %v", move, height, err)
			}
		}
	}
}

// TestApplyMoveRoundTrip verifies that the checked apply agrees exactly with
// the unchecked primitive on legal input, and reproduces CheckMove's error
// on illegal input.
func TestApplyMoveRoundTrip(t *testing.T) {
	rules := []Rule{
		{Take: Exact(1), Split: SplitOptional},
		{Take: Exact(2), Split: SplitNever},
	}

	for height := Stack(0); height <= 30; height++ {
		for _, move := range CalculateLegalMoves(rules, height) {
			got, err := ApplyMove(rules, height, move)
			if err != nil {
				t.Fatalf("legal move %+v at height %d: %v", move, height, err)
			}
			want := ApplyMoveUnchecked(height, move)
			if len(got) != len(want) {
				t.Fatalf("apply mismatch at height %d for %+v: %v vs %v", height, move, got, want)
			}
			for i := range got {
				if got[i] != want[i] {
					t.Errorf("apply mismatch at height %d for %+v: %v vs %v", height, move, got, want)
				}
			}
		}
	}

	// Illegal input surfaces the same error CheckMove reports.
	illegal := TakeAndSplit(2, 1, 1)
	checkErr := CheckMove(rules, 4, illegal)
	_, applyErr := ApplyMove(rules, 4, illegal)
	if checkErr == nil || applyErr == nil {
		t.Fatalf("expected both calls to fail, got check=%v apply=%v", checkErr, applyErr)
	}
	if checkErr.(*MoveError).Code != applyErr.(*MoveError).Code {
		t.Errorf("error codes diverge: check=%v apply=%v", checkErr, applyErr)
	}
}

// TestApplyMoveUncheckedArithmetic pins the raw arithmetic: a plain take
// leaves one stack of height-amount (possibly zero), a split leaves the two
// halves.
func TestApplyMoveUncheckedArithmetic(t *testing.T) {
	got := ApplyMoveUnchecked(5, Take(3))
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("take 3 from 5: expected [2], got %v", got)
	}

	got = ApplyMoveUnchecked(5, Take(5))
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("take 5 from 5: expected [0], got %v", got)
	}

	got = ApplyMoveUnchecked(6, TakeAndSplit(1, 2, 3))
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("take 1 from 6 splitting (2,3): expected [2 3], got %v", got)
	}
}
