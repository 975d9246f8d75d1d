package board

// LegalMoves filters the pseudo-legal moves down to those that do not leave
// the mover's own king attacked. Each candidate is tried with Apply/Undo.
func (p *Position) LegalMoves() []Move {
	us := p.SideToMove
	pseudo := p.PseudoLegalMoves()
	legal := make([]Move, 0, len(pseudo))

	for _, m := range pseudo {
		p.Apply(m)
		if !p.InCheck(us) {
			legal = append(legal, m)
		}
		p.Undo()
	}
	return legal
}

// HasLegalMoves returns true if the side to move has at least one legal move.
func (p *Position) HasLegalMoves() bool {
	us := p.SideToMove
	for _, m := range p.PseudoLegalMoves() {
		p.Apply(m)
		safe := !p.InCheck(us)
		p.Undo()
		if safe {
			return true
		}
	}
	return false
}

// UpdateStatus sets the Checkmate and Stalemate flags for the side to move:
// no legal move while in check is checkmate, no legal move otherwise is
// stalemate.
func (p *Position) UpdateStatus() {
	if p.HasLegalMoves() {
		p.Checkmate = false
		p.Stalemate = false
		return
	}
	inCheck := p.InCheck(p.SideToMove)
	p.Checkmate = inCheck
	p.Stalemate = !inCheck
}

// GameOver returns true if a status flag is set.
func (p *Position) GameOver() bool {
	return p.Checkmate || p.Stalemate
}
