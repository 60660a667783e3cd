package gmlfront

import "fmt"

// parseTry parses "try body [catch (name) body] [finally body]".
//
// The try context slot on the parse context is replaced here and never put
// back. Code after a nested try statement therefore sees the nested
// statement's break/continue variables. See TryStatementContext.
func (pc *ParseContext) parseTry() Node {
	tryTok := pc.Advance()
	if !pc.Flags.UsingGMLv2 {
		pc.PushError("try statements are not supported in this GML version", tryTok)
		return nil
	}

	pc.Try = &TryStatementContext{
		BreakVariableName:               fmt.Sprintf("__yy_breakEx%d", pc.tryCounter),
		ContinueVariableName:            fmt.Sprintf("__yy_continueEx%d", pc.tryCounter),
		ShouldGenerateBreakContinueCode: true,
	}
	pc.tryCounter++
	pc.compile.logger.TraceCat(CatTry, "try context %s", pc.Try.BreakVariableName)

	node := &TryCatchNode{nodeBase: nodeBase{tryTok}}
	node.Try = pc.parseBody()

	if pc.IsCurrentKeyword(KeywordCatch) {
		pc.Advance()
		if !pc.EnsureSeparator(SeparatorGroupOpen) {
			return nil
		}
		nameTok := pc.Peek()
		name, ok := tokenName(nameTok)
		if !ok {
			pc.PushError(fmt.Sprintf("expected catch variable name, got %s", pc.describeCurrent()), nameTok)
			return nil
		}
		pc.Advance()
		if !pc.EnsureSeparator(SeparatorGroupClose) {
			return nil
		}
		pc.CurrentScope.Locals[name] = true
		node.CatchVariable = name
		node.Catch = pc.parseBody()
	}

	if finallyTok, ok := pc.currentKeyword(KeywordFinally); ok {
		pc.Advance()
		if pc.Try != nil {
			pc.Try.HasFinally = true
			pc.Try.ThrowFinallyGeneration = true
		}

		before := pc.flowCounters
		node.Finally = pc.parseBody()
		after := pc.flowCounters
		if after.BreakCount != before.BreakCount || after.ContinueCount != before.ContinueCount ||
			after.ExitCount != before.ExitCount || after.ReturnCount != before.ReturnCount {
			pc.PushError("cannot use break, continue, exit or return inside a finally block", finallyTok)
		}

		if pc.Try != nil {
			pc.Try.ThrowFinallyGeneration = false
		}
	}

	if node.Catch == nil && node.Finally == nil {
		pc.PushError(fmt.Sprintf("expected 'catch' or 'finally', got %s", pc.describeCurrent()), pc.Peek())
		return nil
	}

	if pc.Try != nil {
		node.BreakVariableName = pc.Try.BreakVariableName
		node.ContinueVariableName = pc.Try.ContinueVariableName
		node.HasBreakContinueVariable = pc.Try.HasBreakContinueVariable
		pc.Try.HasBreakContinueVariable = false
	}
	return node
}

func (pc *ParseContext) parseBreak() Node {
	tok := pc.Advance()
	pc.BreakCount++
	node := &BreakNode{nodeBase: nodeBase{tok}}
	if pc.Try != nil && pc.Try.ShouldGenerateBreakContinueCode {
		node.TryVariable = pc.Try.BreakVariableName
		pc.Try.HasBreakContinueVariable = true
	}
	return node
}

func (pc *ParseContext) parseContinue() Node {
	tok := pc.Advance()
	pc.ContinueCount++
	node := &ContinueNode{nodeBase: nodeBase{tok}}
	if pc.Try != nil && pc.Try.ShouldGenerateBreakContinueCode {
		node.TryVariable = pc.Try.ContinueVariableName
		pc.Try.HasBreakContinueVariable = true
	}
	return node
}

func (pc *ParseContext) parseThrow() Node {
	tok := pc.Advance()
	if !pc.Flags.UsingGMLv2 {
		pc.PushError("throw is not supported in this GML version", tok)
		return nil
	}
	value := pc.ParseExpression()
	if value == nil {
		return nil
	}
	pc.ThrowCount++
	node := &ThrowNode{nodeBase: nodeBase{tok}, Value: value}
	if pc.Try != nil {
		node.FinallyGeneration = pc.Try.ThrowFinallyGeneration
	}
	return node
}
