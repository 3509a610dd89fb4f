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

// Package ordering provides the search-time move-ordering heuristics
// (killer moves and history scores) and a MovePicker that yields moves
// from a pseudo-legal move list in priority order. OrderingInfo is owned
// by a single Search instance for the lifetime of one search call;
// MovePicker borrows it (plus the current board and move list) for the
// lifetime of one search node.
package ordering

import (
	. "github.com/hhaas/gochess/internal/types"
)

// killerSlots is the number of killer moves tracked per ply.
const killerSlots = 2

// OrderingInfo holds per-search move ordering state: killer moves per ply
// and a history table per (color, from, to) square pair.
type OrderingInfo struct {
	killers [MaxDepth + 1][killerSlots]Move
	history [ColorLength][SqLength][SqLength]int64
	ply     int
}

// NewOrderingInfo creates a fresh, empty OrderingInfo.
func NewOrderingInfo() *OrderingInfo {
	return &OrderingInfo{}
}

// UpdateKillers prepends move to the two-slot killer list at ply, dropping
// the move if it is already present rather than storing a duplicate.
func (o *OrderingInfo) UpdateKillers(ply int, move Move) {
	if ply < 0 || ply > MaxDepth {
		return
	}
	slots := &o.killers[ply]
	if slots[0] == move {
		return
	}
	if slots[1] == move {
		slots[1] = slots[0]
		slots[0] = move
		return
	}
	slots[1] = slots[0]
	slots[0] = move
}

// IsKiller reports whether move is one of the killer moves stored at ply.
func (o *OrderingInfo) IsKiller(ply int, move Move) bool {
	if ply < 0 || ply > MaxDepth {
		return false
	}
	slots := &o.killers[ply]
	return slots[0] == move || slots[1] == move
}

// IncrementHistory adds depth*depth to the history cell for a quiet move
// that caused a beta cutoff.
func (o *OrderingInfo) IncrementHistory(color Color, from Square, to Square, depth int) {
	o.history[color][from][to] += int64(depth) * int64(depth)
}

// History returns the current history score for (color, from, to).
func (o *OrderingInfo) History(color Color, from Square, to Square) int64 {
	return o.history[color][from][to]
}

// IncrementPly advances the search-depth cursor used to key killer lookups.
func (o *OrderingInfo) IncrementPly() {
	o.ply++
}

// DecrementPly reverts the search-depth cursor.
func (o *OrderingInfo) DecrementPly() {
	o.ply--
}

// GetPly returns the current search-depth cursor.
func (o *OrderingInfo) GetPly() int {
	return o.ply
}

// Clear resets killers and history, e.g. at the start of a new game.
func (o *OrderingInfo) Clear() {
	*o = OrderingInfo{}
}
