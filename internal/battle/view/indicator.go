package view

// TurnIndicator tracks which node carries the active-turn highlight and the
// action text shown above it. Only one node is highlighted at a time.
type TurnIndicator struct {
	current *CharacterNode
	turn    int
}

// NewTurnIndicator creates an indicator with no active node.
func NewTurnIndicator() *TurnIndicator {
	return &TurnIndicator{}
}

// Turn returns the last seen turn number.
func (ti *TurnIndicator) Turn() int { return ti.turn }

// Active returns the highlighted node, nil when none.
func (ti *TurnIndicator) Active() *CharacterNode { return ti.current }

// OnTurnStarted moves the highlight to the acting node. A nil node (an
// unresolved reference) just clears the previous highlight.
func (ti *TurnIndicator) OnTurnStarted(turn int, node *CharacterNode) {
	ti.turn = turn
	if ti.current != nil {
		ti.current.SetHighlight(false)
		ti.current.ClearAction()
	}
	ti.current = node
	if node != nil {
		node.SetHighlight(true)
	}
}

// OnAction shows the action text above the acting node.
func (ti *TurnIndicator) OnAction(node *CharacterNode, text string) {
	if node == nil {
		return
	}
	node.ShowAction(text)
}

// OnTurnEnded clears the highlight and action text.
func (ti *TurnIndicator) OnTurnEnded() {
	if ti.current != nil {
		ti.current.SetHighlight(false)
		ti.current.ClearAction()
		ti.current = nil
	}
}

// Clear resets the indicator at battle end or teardown.
func (ti *TurnIndicator) Clear() {
	ti.OnTurnEnded()
	ti.turn = 0
}
