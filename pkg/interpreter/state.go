package interpreter

import (
	"github.com/lang-programming/lang-interpreter-sub001/pkg/ast"
	"github.com/lang-programming/lang-interpreter-sub001/pkg/runtime"
)

type tryFrameKind int

const (
	frameTry tryFrameKind = iota
	frameSoftTry
	// frameNonTry hides every enclosing try frame.
	frameNonTry
)

// tryFrame is pushed while the first part of a try statement runs.
type tryFrame struct {
	kind      tryFrameKind
	bodyDepth int
}

// executionState is the shared signal inspected after every child
// evaluation. Control flow never unwinds the Go stack: a set stop flag makes
// every enclosing list, loop and call return until a construct consumes it.
type executionState struct {
	stop bool

	// Return and throw.
	pending *runtime.DataObject
	thrown  bool
	pos     ast.Span
	trace   []StackFrame

	// Break and continue.
	breakContinueCount int
	isContinue         bool

	tryFrames []*tryFrame
	// caught is the frame that intercepted the pending error, if any.
	caught *tryFrame
	// raiseDepth is the scope depth the pending error was raised at.
	raiseDepth int

	// fatal aborts evaluation and is never consumed by language constructs.
	fatal error
}

// intercept finds the try frame responsible for an error raised at depth.
// A non-try frame hides everything outside of it; a soft-try frame only
// accepts errors raised directly in its own body.
func (s *executionState) intercept(depth int) *tryFrame {
	for idx := len(s.tryFrames) - 1; idx >= 0; idx-- {
		f := s.tryFrames[idx]
		switch f.kind {
		case frameNonTry:
			return nil
		case frameSoftTry:
			if f.bodyDepth == depth {
				return f
			}
		default:
			return f
		}
	}
	return nil
}

func (s *executionState) pushTryFrame(f *tryFrame) {
	s.tryFrames = append(s.tryFrames, f)
}

func (s *executionState) popTryFrame() {
	s.tryFrames = s.tryFrames[:len(s.tryFrames)-1]
}

// signal is the part of the state a finally block saves and restores.
type signal struct {
	stop               bool
	pending            *runtime.DataObject
	thrown             bool
	pos                ast.Span
	trace              []StackFrame
	breakContinueCount int
	isContinue         bool
	caught             *tryFrame
	raiseDepth         int
}

func (s *executionState) save() signal {
	return signal{
		stop:               s.stop,
		pending:            s.pending,
		thrown:             s.thrown,
		pos:                s.pos,
		trace:              s.trace,
		breakContinueCount: s.breakContinueCount,
		isContinue:         s.isContinue,
		caught:             s.caught,
		raiseDepth:         s.raiseDepth,
	}
}

func (s *executionState) restore(sig signal) {
	s.stop = sig.stop
	s.pending = sig.pending
	s.thrown = sig.thrown
	s.pos = sig.pos
	s.trace = sig.trace
	s.breakContinueCount = sig.breakContinueCount
	s.isContinue = sig.isContinue
	s.caught = sig.caught
	s.raiseDepth = sig.raiseDepth
}

// clearSignal consumes any pending return, throw, break or continue.
func (s *executionState) clearSignal() {
	s.restore(signal{})
}

// stopFatal aborts evaluation with err. The first fatal error wins.
func (i *Interpreter) stopFatal(err error) {
	if i.state.fatal == nil {
		i.state.fatal = err
	}
	i.state.stop = true
}

// checkForceStop turns an observed ForceStop into the fatal stopped state.
func (i *Interpreter) checkForceStop() bool {
	if !i.forceStop.Load() {
		return false
	}
	if i.state.fatal == nil {
		i.setErrno(runtime.ErrorStopped)
	}
	i.stopFatal(ErrStopped)
	return true
}
