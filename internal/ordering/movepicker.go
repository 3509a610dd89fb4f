//
// FrankyGo - UCI chess engine in GO for learning purposes
//
// MIT License
//
// Copyright (c) 2018-2020 Frank Kopp
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//

package ordering

import (
	"github.com/hhaas/gochess/internal/moveslice"
	"github.com/hhaas/gochess/internal/position"
	. "github.com/hhaas/gochess/internal/types"
)

// orderValue is a small ordering-only piece value scale used purely to rank
// moves for search, distinct from the evaluator's centipawn scale. A king
// capture value of 1000 stands in for "infinite" since only promotions and
// captures are scored against it.
var orderValue = [PtLength]int{
	PtNone: 0,
	King:   1000,
	Pawn:   1,
	Knight: 3,
	Bishop: 3,
	Rook:   5,
	Queen:  9,
}

const (
	classTT = iota
	classCapture
	classPromotion
	classKiller
	classQuiet
)

// scored pairs a candidate move with its priority class and an in-class
// score so the picker can return moves without sorting the whole list.
type scored struct {
	move  Move
	class int
	score int
}

// MovePicker lazily yields moves from a pre-generated pseudo-legal move
// list in priority order: the transposition table move first, then
// captures ordered by MVV/LVA, then promotions by promoted piece value,
// then killer moves for the current ply, then quiet moves ordered by
// history score. It is built fresh for each search node and consumed
// once via HasNext/Next.
type MovePicker struct {
	entries []scored
	idx     int
}

// NewMovePicker scores every move in moves for position p at ply and
// returns a picker ready to be drained with HasNext/Next. ttMove may be
// MoveNone if no transposition table move is available.
func NewMovePicker(p *position.Position, moves *moveslice.MoveSlice, info *OrderingInfo, ply int, ttMove Move) *MovePicker {
	entries := make([]scored, 0, moves.Len())
	for _, m := range *moves {
		entries = append(entries, classify(p, m, info, ply, ttMove))
	}
	pm := &MovePicker{entries: entries}
	pm.sort()
	return pm
}

func classify(p *position.Position, m Move, info *OrderingInfo, ply int, ttMove Move) scored {
	if ttMove != MoveNone && m.MoveOf() == ttMove.MoveOf() {
		return scored{move: m, class: classTT, score: 0}
	}

	if m.MoveType() == Promotion {
		return scored{move: m, class: classPromotion, score: orderValue[m.PromotionType()]}
	}

	captured := p.GetPiece(m.To())
	if m.MoveType() == EnPassant || captured != PieceNone {
		attacker := p.GetPiece(m.From())
		victimValue := orderValue[Pawn]
		if captured != PieceNone {
			victimValue = orderValue[captured.TypeOf()]
		}
		attackerValue := orderValue[attacker.TypeOf()]
		// MVV/LVA: highest victim value first, cheapest attacker breaks ties.
		score := victimValue*(orderValue[King]+1) - attackerValue
		return scored{move: m, class: classCapture, score: score}
	}

	if info != nil && info.IsKiller(ply, m.MoveOf()) {
		return scored{move: m, class: classKiller, score: 0}
	}

	score := 0
	if info != nil {
		score = int(info.History(p.NextPlayer(), m.From(), m.To()))
	}
	return scored{move: m, class: classQuiet, score: score}
}

// sort orders entries by class ascending, then by score descending within
// a class. The candidate lists per node are short, so a simple insertion
// sort is both fast enough and allocation-free.
func (pm *MovePicker) sort() {
	for i := 1; i < len(pm.entries); i++ {
		cur := pm.entries[i]
		j := i - 1
		for j >= 0 && less(cur, pm.entries[j]) {
			pm.entries[j+1] = pm.entries[j]
			j--
		}
		pm.entries[j+1] = cur
	}
}

// less reports whether a sorts before b: lower class first, then higher
// score first within the same class.
func less(a, b scored) bool {
	if a.class != b.class {
		return a.class < b.class
	}
	return a.score > b.score
}

// HasNext reports whether another move remains to be picked.
func (pm *MovePicker) HasNext() bool {
	return pm.idx < len(pm.entries)
}

// Next returns the next move in priority order. Callers must check
// HasNext before calling Next.
func (pm *MovePicker) Next() Move {
	m := pm.entries[pm.idx].move
	pm.idx++
	return m
}
