package sexp

// RuleTable maps a head symbol to the indent depth its lists are placed at.
// Lookup only looks at the list's own head, never at its ancestors.
type RuleTable map[string]int

// KiCadRules returns the layout rules that reproduce KiCad footprint and
// board files.
func KiCadRules() RuleTable {
	return RuleTable{
		"layer":   1,
		"desc":    1,
		"fp_text": 1,
		"fp_poly": 1,
		"fp_line": 1,
		"pad":     1,
		"general": 1,
	}
}

// Clone returns a copy that can be modified independently.
func (t RuleTable) Clone() RuleTable {
	c := make(RuleTable, len(t))
	for k, v := range t {
		c[k] = v
	}
	return c
}

// depthFor returns the indent depth for a list and whether a rule applies.
// Negative depths count as no rule.
func (t RuleTable) depthFor(n *Node) (int, bool) {
	if t == nil || n == nil || n.Kind != KindList || len(n.List) == 0 {
		return 0, false
	}
	head := n.List[0]
	if head.Kind != KindSymbol {
		return 0, false
	}
	d, ok := t[head.Text]
	if d < 0 {
		return 0, false
	}
	return d, ok
}
