package interpreter

import (
	"github.com/lang-programming/lang-interpreter-sub001/pkg/ast"
	"github.com/lang-programming/lang-interpreter-sub001/pkg/runtime"
)

//-----------------------------------------------------------------------------
// If
//-----------------------------------------------------------------------------

func (i *Interpreter) interpretIfStatement(n *ast.IfStatement) *runtime.DataObject {
	for idx, part := range n.Parts {
		if part.Condition == nil && idx != len(n.Parts)-1 {
			return i.raise(runtime.ErrorInvalidASTNode, n.Span(), "the else part must be the last part of an if statement")
		}
		if part.Condition != nil {
			cond, ok := i.interpretValue(part.Condition)
			if !ok {
				return nil
			}
			if !cond.ToBool() {
				continue
			}
		}
		return i.interpretList(part.Body)
	}
	return nil
}

//-----------------------------------------------------------------------------
// Loops
//-----------------------------------------------------------------------------

func (i *Interpreter) interpretLoopStatement(n *ast.LoopStatement) *runtime.DataObject {
	if len(n.Parts) == 0 {
		return nil
	}
	first := n.Parts[0]
	if first.Kind == ast.LoopElse {
		return i.raise(runtime.ErrorInvalidASTNode, n.Span(), "a loop statement can not start with an else part")
	}
	for _, part := range n.Parts[1:] {
		if part.Kind != ast.LoopElse {
			return i.raise(runtime.ErrorInvalidASTNode, n.Span(), "only an else part may follow the loop part")
		}
	}
	iterations, ok := i.runLoopPart(n, first)
	if !ok || i.state.stop {
		return nil
	}
	if iterations == 0 {
		for _, part := range n.Parts[1:] {
			i.interpretList(part.Body)
			if i.state.stop {
				break
			}
		}
	}
	return nil
}

// runLoopPart runs the loop part and returns the number of iterations that
// were started.
func (i *Interpreter) runLoopPart(n *ast.LoopStatement, part *ast.LoopPart) (int, bool) {
	switch part.Kind {
	case ast.LoopLoop:
		count := 0
		for {
			count++
			if i.runIteration(part.Body) {
				return count, true
			}
		}
	case ast.LoopWhile, ast.LoopUntil:
		count := 0
		for {
			cond, ok := i.interpretValue(part.Condition)
			if !ok {
				return count, false
			}
			if cond.ToBool() != (part.Kind == ast.LoopWhile) {
				return count, true
			}
			count++
			if i.runIteration(part.Body) {
				return count, true
			}
		}
	case ast.LoopRepeat:
		return i.runRepeat(part)
	case ast.LoopForEach:
		return i.runForEach(part)
	default:
		i.raise(runtime.ErrorInvalidASTNode, n.Span(), "unknown loop part %q", part.Kind)
		return 0, false
	}
}

func (i *Interpreter) runRepeat(part *ast.LoopPart) (int, bool) {
	var counter *runtime.DataObject
	if part.Variable != nil {
		var ok bool
		if counter, ok = i.loopVariable(part.Variable); !ok {
			return 0, false
		}
	}
	countValue, ok := i.interpretValue(part.Count)
	if !ok {
		return 0, false
	}
	number := countValue.ToNumber()
	if number == nil {
		i.raise(runtime.ErrorNoNum, part.Count.Span(), "repeat count must be a number, got %s", countValue.Type())
		return 0, false
	}
	limit, _ := number.Int64()
	if limit < 0 {
		i.raise(runtime.ErrorNegativeRepeatCount, part.Count.Span(), "repeat count must not be negative, got %d", limit)
		return 0, false
	}
	for idx := int64(0); idx < limit; idx++ {
		if counter != nil {
			if err := counter.SetInt(int32(idx)); err != nil {
				i.raiseErr(err, part.Variable.Span())
				return int(idx), false
			}
		}
		if i.runIteration(part.Body) {
			return int(idx) + 1, true
		}
	}
	return int(limit), true
}

func (i *Interpreter) runForEach(part *ast.LoopPart) (int, bool) {
	target, ok := i.loopVariable(part.Variable)
	if !ok {
		return 0, false
	}
	collection, ok := i.interpretValue(part.Collection)
	if !ok {
		return 0, false
	}
	var items []*runtime.DataObject
	switch collection.Type() {
	case runtime.TypeArray, runtime.TypeList, runtime.TypeStruct:
		if collection.Type() == runtime.TypeStruct && collection.Struct().IsDefinition() {
			i.raise(runtime.ErrorIncompatibleDataType, part.Collection.Span(), "can not iterate over a struct definition")
			return 0, false
		}
		items = collection.ToArray()
	case runtime.TypeText:
		for _, r := range collection.Text() {
			items = append(items, runtime.Char(r))
		}
	case runtime.TypeByteBuffer:
		for _, b := range collection.ByteBuffer() {
			items = append(items, runtime.Int(int32(b)))
		}
	default:
		i.raise(runtime.ErrorIncompatibleDataType, part.Collection.Span(), "can not iterate over %s", collection.Type())
		return 0, false
	}
	for idx, item := range items {
		if err := target.SetData(item); err != nil {
			i.raiseErr(err, part.Variable.Span())
			return idx, false
		}
		if i.runIteration(part.Body) {
			return idx + 1, true
		}
	}
	return len(items), true
}

// loopVariable resolves the counter or element target of a loop part: a
// pointer's target, or a variable that is declared on first use.
func (i *Interpreter) loopVariable(node ast.Node) (*runtime.DataObject, bool) {
	switch n := node.(type) {
	case *ast.VariableName:
		slot, err := i.declareVariable(n.Name)
		if err != nil {
			i.raiseErr(err, n.Span())
			return nil, false
		}
		return slot, true
	case *ast.UnprocessedVariableName:
		slot, err := i.declareVariable(n.Name)
		if err != nil {
			i.raiseErr(err, n.Span())
			return nil, false
		}
		return slot, true
	case *ast.Operation:
		if n.Operator == ast.OpReference {
			return i.loopVariable(n.Left)
		}
	}
	value, ok := i.interpretValue(node)
	if !ok {
		return nil, false
	}
	if value.Type() != runtime.TypeVarPointer {
		i.raise(runtime.ErrorInvalidArguments, node.Span(), "loop variable must be a variable or a pointer, got %s", value.Type())
		return nil, false
	}
	return value.VarPointer(), true
}

// runIteration runs one loop body and reports whether the loop must end.
func (i *Interpreter) runIteration(body *ast.List) bool {
	i.interpretList(body)
	return i.consumeLoopSignal()
}

// consumeLoopSignal handles a stop at the end of an iteration. A stop
// without a pending break/continue (return, throw, fatal) ends the loop and
// keeps propagating. Otherwise one level is consumed; if levels remain the
// enclosing loop handles them.
func (i *Interpreter) consumeLoopSignal() bool {
	st := &i.state
	if !st.stop {
		return false
	}
	if st.breakContinueCount == 0 {
		return true
	}
	st.breakContinueCount--
	if st.breakContinueCount > 0 {
		return true
	}
	st.stop = false
	return !st.isContinue
}

func (i *Interpreter) interpretContinueBreak(n *ast.ContinueBreak) *runtime.DataObject {
	levels := int32(1)
	if n.Levels != nil {
		value, ok := i.interpretValue(n.Levels)
		if !ok {
			return nil
		}
		number := value.ToNumber()
		if number == nil || number.Type() != runtime.TypeInt || number.Int() < 1 {
			return i.raise(runtime.ErrorInvalidArguments, n.Levels.Span(), "level must be an INT of at least 1, got %s", value.ToText())
		}
		levels = number.Int()
	}
	st := &i.state
	st.breakContinueCount = int(levels)
	st.isContinue = n.Continue
	st.stop = true
	return nil
}

//-----------------------------------------------------------------------------
// Return and throw
//-----------------------------------------------------------------------------

func (i *Interpreter) interpretReturn(n *ast.Return) *runtime.DataObject {
	value := runtime.Void()
	if n.Value != nil {
		v, ok := i.interpretValue(n.Value)
		if !ok {
			return nil
		}
		value = v.CopyValue()
	}
	st := &i.state
	st.pending = value
	st.thrown = false
	st.pos = n.Span()
	st.stop = true
	return nil
}

// interpretThrow throws an ERROR value. Any other value, or an error whose
// kind is not a real error, is returned instead.
func (i *Interpreter) interpretThrow(n *ast.Throw) *runtime.DataObject {
	value, ok := i.interpretValue(n.Value)
	if !ok {
		return nil
	}
	st := &i.state
	if value.Type() != runtime.TypeError || !value.ErrorObject().Kind.IsError() {
		st.pending = value.CopyValue()
		st.thrown = false
		st.pos = n.Span()
		st.stop = true
		return nil
	}
	errObj := value.ErrorObject()
	message := errObj.Message
	if n.Message != nil {
		msg, ok := i.interpretValue(n.Message)
		if !ok {
			return nil
		}
		message = msg.ToText()
	}
	i.throwError(runtime.NewErrorObject(errObj.Kind, message), n.Span())
	return nil
}

// throwError stops execution with a thrown error. Whether a try frame
// intercepts it is decided now, at the throwing scope depth.
func (i *Interpreter) throwError(errObj *runtime.ErrorObject, pos ast.Span) {
	i.setErrno(errObj.Kind)
	st := &i.state
	st.pending = runtime.ErrorValue(errObj.Kind, errObj.Message)
	st.thrown = true
	st.pos = pos
	st.trace = i.StackTrace()
	st.raiseDepth = i.depth()
	st.caught = st.intercept(st.raiseDepth)
	st.stop = true
}

//-----------------------------------------------------------------------------
// Try
//-----------------------------------------------------------------------------

type tryParts struct {
	body     *ast.TryPart
	catches  []*ast.TryPart
	elsePart *ast.TryPart
	finally  *ast.TryPart
}

func splitTryParts(parts []*ast.TryPart) (tryParts, bool) {
	var out tryParts
	if len(parts) == 0 {
		return out, false
	}
	switch parts[0].Kind {
	case ast.TryTry, ast.TrySoftTry, ast.TryNonTry:
		out.body = parts[0]
	default:
		return out, false
	}
	stage := 0
	for _, p := range parts[1:] {
		switch {
		case p.Kind == ast.TryCatch && stage == 0:
			out.catches = append(out.catches, p)
		case p.Kind == ast.TryElse && stage == 0:
			out.elsePart = p
			stage = 1
		case p.Kind == ast.TryFinally && stage < 2:
			out.finally = p
			stage = 2
		default:
			return out, false
		}
	}
	return out, true
}

func (i *Interpreter) interpretTryStatement(n *ast.TryStatement) *runtime.DataObject {
	parts, ok := splitTryParts(n.Parts)
	if !ok {
		return i.raise(runtime.ErrorInvalidASTNode, n.Span(), "try statements are: try|softtry|nontry, catch..., else, finally")
	}
	st := &i.state
	frame := &tryFrame{bodyDepth: i.depth()}
	switch parts.body.Kind {
	case ast.TrySoftTry:
		frame.kind = frameSoftTry
	case ast.TryNonTry:
		frame.kind = frameNonTry
	default:
		frame.kind = frameTry
	}

	st.pushTryFrame(frame)
	result := i.interpretList(parts.body.Body)
	st.popTryFrame()

	errored := st.stop && st.fatal == nil && st.caught == frame
	if errored {
		catch, interrupted := i.findCatch(parts.catches)
		switch {
		case interrupted:
		case catch != nil:
			st.clearSignal()
			i.GetAndClearError()
			result = i.interpretList(catch.Body)
		default:
			// Unhandled here: offer it to the frames further out, or let it
			// unwind to the function boundary as a thrown error.
			st.caught = st.intercept(st.raiseDepth)
			st.thrown = true
		}
	} else if !st.stop && parts.elsePart != nil {
		result = i.interpretList(parts.elsePart.Body)
	}

	if parts.finally != nil && st.fatal == nil {
		saved := st.save()
		st.clearSignal()
		i.interpretList(parts.finally.Body)
		if !st.stop {
			st.restore(saved)
		}
	}
	return result
}

// findCatch returns the first catch part accepting the pending error. Filter
// expressions are evaluated with the pending signal put aside; interrupted is
// set if a filter stopped execution itself, its signal replacing the error.
func (i *Interpreter) findCatch(catches []*ast.TryPart) (catch *ast.TryPart, interrupted bool) {
	st := &i.state
	kind := st.pending.ErrorObject().Kind
	for _, c := range catches {
		if c.Errors == nil {
			return c, false
		}
		saved := st.save()
		st.clearSignal()
		matched := false
		for _, node := range c.Errors {
			if _, sep := node.(*ast.ArgumentSeparator); sep {
				continue
			}
			value := i.interpretNode(node)
			if st.stop {
				break
			}
			if value != nil && value.Type() == runtime.TypeError && value.ErrorObject().Kind == kind {
				matched = true
				break
			}
		}
		if st.stop {
			return nil, true
		}
		st.restore(saved)
		if matched {
			return c, false
		}
	}
	return nil, false
}
