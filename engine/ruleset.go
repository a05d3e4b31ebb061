package engine

// RuleSet bundles an ordered list of rules with the cache that memoizes
// nimbers computed under those rules. Each rule set owns its cache
// exclusively, so stale values can never leak between rule sets, and two
// rule sets can always be used concurrently with no coordination.
type RuleSet struct {
	rules []Rule
	cache *Cache
}

// NewRuleSet copies rules into a rule set with a fresh, empty cache. The
// cache fills lazily, one height at a time, as nimbers are requested.
func NewRuleSet(rules ...Rule) *RuleSet {
	rs := &RuleSet{
		rules: make([]Rule, len(rules)),
		cache: NewCache(),
	}
	copy(rs.rules, rules)
	return rs
}

// Rules returns a copy of the rule list in definition order.
func (rs *RuleSet) Rules() []Rule {
	rules := make([]Rule, len(rs.rules))
	copy(rules, rs.rules)
	return rules
}

// Cache exposes the rule set's memo table for inspection.
func (rs *RuleSet) Cache() *Cache { return rs.cache }

// NimberForHeight computes the nimber of a single stack of the given height.
func (rs *RuleSet) NimberForHeight(height Stack) Nimber {
	return NimberForHeight(rs.rules, height, rs.cache)
}

// NimberForPosition computes the nimber of a full position.
func (rs *RuleSet) NimberForPosition(pos Position) Nimber {
	return NimberForPosition(rs.rules, pos, rs.cache)
}

// FirstPlayerWins reports whether the player to move wins pos under optimal
// play from both sides.
func (rs *RuleSet) FirstPlayerWins(pos Position) bool {
	return rs.NimberForPosition(pos) != 0
}

// LegalMoves enumerates every legal action against a single stack.
func (rs *RuleSet) LegalMoves(stack Stack) []NimAction {
	return CalculateLegalMoves(rs.rules, stack)
}

// CheckMove reports whether action is legal against a stack of the given
// height.
func (rs *RuleSet) CheckMove(stack Stack, action NimAction) error {
	return CheckMove(rs.rules, stack, action)
}

// ApplyMove validates and applies action against a single stack, returning
// the stacks that replace it.
func (rs *RuleSet) ApplyMove(stack Stack, action NimAction) ([]Stack, error) {
	return ApplyMove(rs.rules, stack, action)
}
