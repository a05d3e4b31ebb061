// Package game models one Nim game in progress: a rule set plus an ordered
// sequence of stacks and per-player coin pools.
package game

import (
	"fmt"

	"nimlib/engine"
)

// Move is an action against one stack of the game, tagged with the index of
// the stack it targets.
type Move struct {
	StackIndex int
	Action     engine.NimAction
}

// Game is a Nim position under a fixed rule set. The zero value is not
// usable; call New.
type Game struct {
	rules  *engine.RuleSet
	stacks []engine.Stack

	// Coin pools for the reserved Poker-Nim extension. Always zero until
	// place semantics land.
	coinsA uint64
	coinsB uint64
}

// New builds a game from a rule set and initial stack heights. The stacks
// are copied.
func New(rules *engine.RuleSet, stacks []engine.Stack) *Game {
	g := &Game{
		rules:  rules,
		stacks: make([]engine.Stack, len(stacks)),
	}
	copy(g.stacks, stacks)
	return g
}

// Rules returns the game's rule set.
func (g *Game) Rules() *engine.RuleSet { return g.rules }

// Stacks returns a copy of the current stack heights in order.
func (g *Game) Stacks() []engine.Stack {
	stacks := make([]engine.Stack, len(g.stacks))
	copy(stacks, g.stacks)
	return stacks
}

// Pools returns the coin pools of players A and B.
func (g *Game) Pools() (uint64, uint64) { return g.coinsA, g.coinsB }

// Position returns the current position.
func (g *Game) Position() engine.Position {
	return engine.Position(g.Stacks())
}

// Nimber computes the game value of the current position.
func (g *Game) Nimber() engine.Nimber {
	return g.rules.NimberForPosition(engine.Position(g.stacks))
}

// FirstPlayerWins reports whether the player to move wins under optimal
// play.
func (g *Game) FirstPlayerWins() bool {
	return g.Nimber() != 0
}

// Moves enumerates every legal move of the whole game, stack by stack in
// position order, each stack's moves in rule enumeration order.
func (g *Game) Moves() []Move {
	var moves []Move
	for i, stack := range g.stacks {
		for _, action := range g.rules.LegalMoves(stack) {
			moves = append(moves, Move{StackIndex: i, Action: action})
		}
	}
	return moves
}

// Apply validates mv against the current position and applies it, replacing
// the moved-on stack with its resulting stacks: the remainder stays at the
// stack's index, and a split's second half is inserted directly after it.
// On error the game is unchanged.
func (g *Game) Apply(mv Move) error {
	if mv.StackIndex < 0 || mv.StackIndex >= len(g.stacks) {
		return fmt.Errorf("stack index %d out of range [0,%d)", mv.StackIndex, len(g.stacks))
	}
	result, err := g.rules.ApplyMove(g.stacks[mv.StackIndex], mv.Action)
	if err != nil {
		return err
	}

	g.stacks[mv.StackIndex] = result[0]
	if len(result) == 2 {
		i := mv.StackIndex + 1
		g.stacks = append(g.stacks, 0)
		copy(g.stacks[i+1:], g.stacks[i:])
		g.stacks[i] = result[1]
	}
	return nil
}
