/*
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package search

import (
	golog "log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/op/go-logging"

	. "github.com/hhaas/gochess/internal/config"
	"github.com/hhaas/gochess/internal/movegen"
	"github.com/hhaas/gochess/internal/moveslice"
	"github.com/hhaas/gochess/internal/ordering"
	"github.com/hhaas/gochess/internal/position"
	"github.com/hhaas/gochess/internal/transpositiontable"
	. "github.com/hhaas/gochess/internal/types"
	"github.com/hhaas/gochess/internal/util"
)

var trace = false

// rootSearch starts the recursive alpha beta search with the root moves at ply 0.
// Root moves are treated separately so scores can be stored back into the
// root move list for sorting before the next iteration.
func (s *Search) rootSearch(position *position.Position, depth int, alpha Value, beta Value) Value {
	if trace {
		s.slog.Debugf("Ply %-2.d Depth %-2.d start: %s", 0, depth, s.statistics.CurrentVariation.StringUci())
		defer s.slog.Debugf("Ply %-2.d Depth %-2.d end: %s", 0, depth, s.statistics.CurrentVariation.StringUci())
	}

	bestNodeValue := ValueNA
	var value Value

	// ///////////////////////////////////////////////////////
	// MOVE LOOP
	for i, m := range *s.rootMoves {

		position.DoMove(m)
		s.nodesVisited++
		s.statistics.CurrentVariation.PushBack(m)
		s.statistics.CurrentRootMoveIndex = i
		s.statistics.CurrentRootMove = m

		// check repetition and 50 moves
		if s.checkDrawRepAnd50(position, 2) {
			value = ValueDraw
		} else {
			value = -s.search(position, depth-1, 1, -beta, -alpha)
		}

		s.statistics.CurrentVariation.PopBack()
		position.UndoMove()

		// we want to do at least one complete search with depth 1
		// after that we can stop any time - any new best move will
		// already have been stored in pv[0]
		if s.stopConditions() && depth > 1 {
			return bestNodeValue
		}

		// store the value into the root move so it can be used to
		// sort the root moves before the next iteration
		s.rootMoves.Set(i, m.SetValue(value))

		if value > bestNodeValue {
			bestNodeValue = value
			// we have a new pv[0][0] - store pv+1 to pv
			savePV(m, s.pv[1], s.pv[0])
		}
	}
	// MOVE LOOP
	// ///////////////////////////////////////////////////////

	return bestNodeValue
}

// search is the recursive negamax search with alpha-beta pruning and
// transposition table lookup/store (ply > 0). When the remaining depth
// reaches 0 it hands off to qsearch.
func (s *Search) search(p *position.Position, depth int, ply int, alpha Value, beta Value) Value {
	if trace {
		s.slog.Debugf("%0*s Ply %-2.d Depth %-2.d a:%-6.d b:%-6.d start:  %s", ply, "", ply, depth, alpha, beta, s.statistics.CurrentVariation.StringUci())
		defer s.slog.Debugf("%0*s Ply %-2.d Depth %-2.d a:%-6.d b:%-6.d end  :  %s", ply, "", ply, depth, alpha, beta, s.statistics.CurrentVariation.StringUci())
	}

	if s.stopConditions() {
		return ValueNA
	}

	alphaOrig := alpha

	// Mate Distance Pruning
	// a shorter mate already found elsewhere makes this branch irrelevant
	if alpha < -ValueCheckMate+Value(ply) {
		alpha = -ValueCheckMate + Value(ply)
	}
	if beta > ValueCheckMate-Value(ply) {
		beta = ValueCheckMate - Value(ply)
	}
	if alpha >= beta {
		s.statistics.Mdp++
		return alpha
	}

	// TT Lookup
	us := p.NextPlayer()
	ttMove := MoveNone
	var ttEntry *transpositiontable.TtEntry
	if Settings.Search.UseTT {
		ttEntry = s.tt.Probe(p.ZobristKey())
		if ttEntry != nil { // tt hit
			s.statistics.TTHit++
			ttMove = ttEntry.Move()
			if int(ttEntry.Depth()) >= depth {
				ttValue := valueFromTT(ttEntry.Value(), ply)
				switch ttEntry.Vtype() {
				case EXACT:
					s.statistics.TTCuts++
					return ttValue
				case LOWER_BOUND:
					if ttValue > alpha {
						alpha = ttValue
					}
				case UPPER_BOUND:
					if ttValue < beta {
						beta = ttValue
					}
				}
				if alpha >= beta {
					s.statistics.TTCuts++
					return ttValue
				}
			}
			s.statistics.TTNoCuts++
		} else {
			s.statistics.TTMiss++
		}
	}

	// depth exhausted - hand off to quiescence search
	if depth <= 0 {
		return s.qsearch(p, ply, alpha, beta)
	}

	hasCheck := p.HasCheck()

	// generate the pseudo legal move list for this ply and hand it to the
	// move picker, which yields it in priority order: TT move, captures by
	// MVV/LVA, promotions, killers, then quiets by history score.
	myMg := s.mg[ply]
	moveList := myMg.GeneratePseudoLegalMoves(p, movegen.GenAll)
	s.pv[ply].Clear()

	if ttMove != MoveNone {
		s.statistics.TTMoveUsed++
	} else {
		s.statistics.NoTTMove++
	}
	picker := ordering.NewMovePicker(p, moveList, s.ordering, ply, ttMove)

	bestNodeValue := ValueNA
	bestNodeMove := MoveNone
	var value Value
	movesSearched := 0

	// ///////////////////////////////////////////////////////
	// MOVE LOOP
	for picker.HasNext() {
		move := picker.Next()

		p.DoMove(move)

		if !p.WasLegalMove() {
			p.UndoMove()
			continue
		}

		s.nodesVisited++
		s.statistics.CurrentVariation.PushBack(move)
		s.sendSearchUpdateToUci()

		if s.checkDrawRepAnd50(p, 2) {
			value = ValueDraw
		} else {
			value = -s.search(p, depth-1, ply+1, -beta, -alpha)
		}

		s.statistics.CurrentVariation.PopBack()

		movesSearched++
		p.UndoMove()

		if s.stopConditions() {
			return ValueNA
		}

		if value > bestNodeValue {
			bestNodeValue = value
			bestNodeMove = move
			if value > alpha {
				savePV(move, s.pv[ply+1], s.pv[ply])
				alpha = value
			}
		}

		if value >= beta {
			s.statistics.BetaCuts++
			if movesSearched == 1 {
				s.statistics.BetaCuts1st++
			}
			if Settings.Search.UseKiller && !p.IsCapturingMove(move) {
				s.ordering.UpdateKillers(ply, move.MoveOf())
			}
			if Settings.Search.UseHistory && !p.IsCapturingMove(move) {
				s.ordering.IncrementHistory(us, move.From(), move.To(), depth)
			}
			if Settings.Search.UseTT {
				s.storeTT(p, depth, ply, move, beta, LOWER_BOUND)
			}
			return beta
		}
	}
	// MOVE LOOP
	// ///////////////////////////////////////////////////////

	// no legal move found - mate or stalemate
	if movesSearched == 0 && !s.stopConditions() {
		if hasCheck {
			s.statistics.Checkmates++
			bestNodeValue = -ValueCheckMate + Value(ply)
		} else {
			s.statistics.Stalemates++
			bestNodeValue = ValueDraw
		}
		bestNodeMove = MoveNone
	}

	ttType := EXACT
	if bestNodeValue <= alphaOrig {
		ttType = UPPER_BOUND
	}
	if Settings.Search.UseTT {
		s.storeTT(p, depth, ply, bestNodeMove, bestNodeValue, ttType)
	}

	return bestNodeValue
}

// qsearch is a simplified search to counter the horizon effect in depth based
// searches. It continues into deeper branches as long as there are captures
// (including capturing promotions) available; non-capturing promotions are
// only searched when in check. Only when a position is quiet does
// it return a static evaluation to the caller.
func (s *Search) qsearch(p *position.Position, ply int, alpha Value, beta Value) Value {
	if trace {
		s.slog.Debugf("%0*s Ply %-2.d QSearch     a:%-6.d b:%-6.d start:  %s", ply, "", ply, alpha, beta, s.statistics.CurrentVariation.StringUci())
		defer s.slog.Debugf("%0*s Ply %-2.d QSearch     a:%-6.d b:%-6.d end  :  %s", ply, "", ply, alpha, beta, s.statistics.CurrentVariation.StringUci())
	}

	if s.statistics.CurrentExtraSearchDepth < ply {
		s.statistics.CurrentExtraSearchDepth = ply
	}

	if !Settings.Search.UseQuiescence || ply >= MaxDepth {
		return s.evaluate(p, ply)
	}

	if alpha < -ValueCheckMate+Value(ply) {
		alpha = -ValueCheckMate + Value(ply)
	}
	if beta > ValueCheckMate-Value(ply) {
		beta = ValueCheckMate - Value(ply)
	}
	if alpha >= beta {
		s.statistics.Mdp++
		return alpha
	}

	hasCheck := p.HasCheck()

	bestNodeValue := ValueNA
	if !hasCheck {
		// Quiescence StandPat: use the static evaluation as a lower bound.
		// https://www.chessprogramming.org/Quiescence_Search#Standing_Pat
		staticEval := s.evaluate(p, ply)
		if staticEval >= beta {
			s.statistics.StandpatCuts++
			return staticEval
		}
		if staticEval > alpha {
			alpha = staticEval
		}
		bestNodeValue = staticEval
	}

	myMg := s.mg[ply]
	s.pv[ply].Clear()

	// if in check we must search all moves - a check extension built into qsearch
	var mode movegen.GenMode
	if hasCheck {
		s.statistics.CheckInQS++
		mode = movegen.GenAll
	} else {
		mode = movegen.GenCap
	}

	moveList := myMg.GeneratePseudoLegalMoves(p, mode)
	picker := ordering.NewMovePicker(p, moveList, s.ordering, ply, MoveNone)

	movesSearched := 0
	var value Value

	// ///////////////////////////////////////////////////////
	// MOVE LOOP
	for picker.HasNext() {
		move := picker.Next()

		// restrict quiescence to captures that are worth looking at
		if !hasCheck && !s.goodCapture(p, move) {
			continue
		}

		p.DoMove(move)

		if !p.WasLegalMove() {
			p.UndoMove()
			continue
		}

		s.nodesVisited++
		s.statistics.CurrentVariation.PushBack(move)
		s.sendSearchUpdateToUci()

		if hasCheck && s.checkDrawRepAnd50(p, 2) {
			value = ValueDraw
		} else {
			value = -s.qsearch(p, ply+1, -beta, -alpha)
		}

		movesSearched++
		s.statistics.CurrentVariation.PopBack()
		p.UndoMove()

		if s.stopConditions() {
			return ValueNA
		}

		if value > bestNodeValue {
			bestNodeValue = value
			if value > alpha {
				savePV(move, s.pv[ply+1], s.pv[ply])
				alpha = value
			}
		}

		if value >= beta {
			s.statistics.BetaCuts++
			if movesSearched == 1 {
				s.statistics.BetaCuts1st++
			}
			return beta
		}
	}
	// MOVE LOOP
	// ///////////////////////////////////////////////////////

	// no legal move: if we were in check (all moves generated) it's mate;
	// otherwise we only looked at captures so the standpat value stands.
	if movesSearched == 0 && !s.stopConditions() && hasCheck {
		s.statistics.Checkmates++
		bestNodeValue = -ValueCheckMate + Value(ply)
	}

	return bestNodeValue
}

// evaluate calls the static evaluator for the position.
func (s *Search) evaluate(position *position.Position, ply int) Value {
	s.statistics.LeafPositionsEvaluated++
	s.statistics.Evaluations++
	return s.eval.Evaluate(position)
}

// goodCapture reduces the number of moves searched in quiescence by only
// looking at captures that are likely to gain material: winning or equal
// exchanges (via SEE), all recaptures, and captures of undefended pieces.
func (s *Search) goodCapture(p *position.Position, move Move) bool {
	if see(p, move) >= 0 {
		return true
	}
	// all recaptures should be looked at regardless of SEE
	if p.LastMove() != MoveNone && p.LastMove().To() == move.To() && p.LastCapturedPiece() != PieceNone {
		return true
	}
	// undefended pieces are good captures even if SEE looks bad
	return !p.IsAttacked(move.To(), p.NextPlayer().Flip())
}

// savePV adds the given move as first move to a cleared dest and then appends
// all src moves to dest.
func savePV(move Move, src *moveslice.MoveSlice, dest *moveslice.MoveSlice) {
	dest.Clear()
	dest.PushBack(move)
	*dest = append(*dest, *src...)
}

// storeTT stores a position into the TT
func (s *Search) storeTT(p *position.Position, depth int, ply int, move Move, value Value, valueType ValueType) {
	s.tt.Put(p.ZobristKey(), move, int8(depth), valueToTT(value, ply), valueType, ValueNA)
}

// correct the value for mate distance when storing to TT
func valueToTT(value Value, ply int) Value {
	if value.IsCheckMateValue() {
		if value > 0 {
			value = value + Value(ply)
		} else {
			value = value - Value(ply)
		}
	}
	return value
}

// correct the value for mate distance when reading from TT
func valueFromTT(value Value, ply int) Value {
	if value.IsCheckMateValue() {
		if value > 0 {
			value = value - Value(ply)
		} else {
			value = value + Value(ply)
		}
	}
	return value
}

// getSearchTraceLog returns an instance of a standard Logger with a "normal"
// logging format (e.g. time - level) for usage in the search itself. It logs
// to os.Stdout, unless the log folder is found and the log file can be opened;
// then the file backend replaces the os.Stdout backend.
func getSearchTraceLog() *logging.Logger {
	searchLog := logging.MustGetLogger("search")

	searchLogFormat := logging.MustStringFormatter(`%{time:15:04:05.000} %{level:-7.7s}:  %{message}`)

	backend1 := logging.NewLogBackend(os.Stdout, "", golog.Lmsgprefix)
	backend1Formatter := logging.NewBackendFormatter(backend1, searchLogFormat)
	searchBackEnd := logging.AddModuleLevel(backend1Formatter)
	searchBackEnd.SetLevel(logging.Level(SearchLogLevel), "")
	searchLog.SetBackend(searchBackEnd)

	// File backend
	programName, _ := os.Executable()
	exeName := strings.TrimSuffix(filepath.Base(programName), ".exe")

	// find log path
	logPath, err := util.ResolveFolder(Settings.Log.LogPath)
	if err != nil {
		golog.Println("Log folder could not be found:", err)
		return searchLog
	}
	searchLogFilePath := filepath.Join(logPath, exeName+"_search.log")

	// create file backend
	searchLogFile, err := os.OpenFile(searchLogFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		golog.Println("Logfile could not be created:", err)
		return searchLog
	}
	backend2 := logging.NewLogBackend(searchLogFile, "", golog.Lmsgprefix)
	backend2Formatter := logging.NewBackendFormatter(backend2, searchLogFormat)
	searchBackEnd2 := logging.AddModuleLevel(backend2Formatter)
	searchBackEnd2.SetLevel(logging.DEBUG, "")
	searchLog.SetBackend(searchBackEnd2)
	searchLog.Infof("Log %s started at %s:", searchLogFile.Name(), time.Now().String())
	return searchLog
}
