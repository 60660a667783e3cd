package gmlfront

import "fmt"

// ParseRoot parses every statement of the code entry into a root block.
// Statements that fail to parse are dropped after their diagnostic; the
// cursor is moved forward at least one token per failed statement so a
// single pass reports every independent error.
func (pc *ParseContext) ParseRoot() *BlockNode {
	root := &BlockNode{nodeBase: nodeBase{pc.Peek()}}
	pc.parseStatementList(root, func() bool { return false })
	return root
}

// parseStatementList appends statements to block until stop reports true or
// the code ends. It warns once about statements following an unconditional
// exit from the block.
func (pc *ParseContext) parseStatementList(block *BlockNode, stop func() bool) {
	warned := false
	exited := false
	for !pc.EndOfCode() && !stop() {
		start := pc.position
		first := pc.Peek()
		stmt := pc.parseStatement()
		if stmt == nil {
			pc.skipFailed(start, stop)
			continue
		}
		if _, empty := stmt.(*EmptyNode); empty {
			continue
		}
		if exited && !warned {
			pc.PushWarning("unreachable code", first)
			warned = true
		}
		switch stmt.(type) {
		case *ExitNode, *ReturnNode, *BreakNode, *ContinueNode, *ThrowNode:
			exited = true
		}
		block.Children = append(block.Children, stmt)
	}
}

// parseBlock parses "{ statements }"
func (pc *ParseContext) parseBlock() *BlockNode {
	open, ok := pc.currentSeparator(SeparatorBlockOpen)
	if !ok {
		pc.EnsureSeparator(SeparatorBlockOpen)
		return nil
	}
	pc.Advance()

	block := &BlockNode{nodeBase: nodeBase{open}, Children: []Node{}}
	pc.parseStatementList(block, func() bool { return pc.IsCurrentSeparator(SeparatorBlockClose) })
	if !pc.EnsureSeparator(SeparatorBlockClose) {
		return nil
	}
	return block
}

// parseBody parses a statement that is the body of a construct, substituting
// an empty statement when it fails
func (pc *ParseContext) parseBody() Node {
	start := pc.position
	if stmt := pc.parseStatement(); stmt != nil {
		return stmt
	}
	pc.skipFailed(start, func() bool { return pc.IsCurrentSeparator(SeparatorBlockClose) })
	return &EmptyNode{nodeBase{pc.Peek()}}
}

// parseStatement dispatches on the leading token
func (pc *ParseContext) parseStatement() Node {
	tok := pc.Peek()
	switch t := tok.(type) {
	case *TokenSeparator:
		switch t.Kind {
		case SeparatorBlockOpen:
			if block := pc.parseBlock(); block != nil {
				return block
			}
			return nil
		case SeparatorSemicolon:
			pc.Advance()
			return &EmptyNode{nodeBase{tok}}
		}

	case *TokenKeyword:
		switch t.Kind {
		case KeywordIf:
			return pc.parseIf()
		case KeywordSwitch:
			return pc.parseSwitch()
		case KeywordTry:
			return pc.parseTry()
		case KeywordWhile:
			return pc.parseWhile()
		case KeywordFor:
			return pc.parseFor()
		case KeywordRepeat:
			return pc.parseRepeat()
		case KeywordDo:
			return pc.parseDoUntil()
		case KeywordWith:
			return pc.parseWith()
		case KeywordEnum:
			return pc.parseEnum()
		case KeywordStatic:
			return pc.terminated(pc.parseStatic())
		case KeywordExit:
			pc.Advance()
			pc.ExitCount++
			return pc.terminated(&ExitNode{nodeBase{tok}})
		case KeywordReturn:
			return pc.terminated(pc.parseReturn())
		case KeywordBreak:
			return pc.terminated(pc.parseBreak())
		case KeywordContinue:
			return pc.terminated(pc.parseContinue())
		case KeywordThrow:
			return pc.terminated(pc.parseThrow())
		case KeywordDelete:
			return pc.terminated(pc.parseDelete())
		case KeywordFunction:
			if fn := pc.parseFunction(); fn != nil {
				return fn
			}
			return nil
		case KeywordCase, KeywordDefault, KeywordCatch, KeywordFinally, KeywordUntil, KeywordThen, KeywordElse:
			pc.PushError(fmt.Sprintf("unexpected '%s'", t.Kind), tok)
			return nil
		}
	}

	return pc.terminated(pc.parseSimpleStatement())
}

// terminated consumes an optional ';' after a statement that parsed
func (pc *ParseContext) terminated(stmt Node) Node {
	if stmt != nil {
		pc.optionalSemicolon()
	}
	return stmt
}

// parseSimpleStatement parses variable declarations, assignments and
// expression statements, without the terminating ';'
func (pc *ParseContext) parseSimpleStatement() Node {
	switch {
	case pc.IsCurrentKeyword(KeywordVar):
		return pc.parseLocalVarDecl()
	case pc.IsCurrentKeyword(KeywordGlobalVar):
		return pc.parseGlobalVarDecl()
	}
	return pc.parseAssignOrExpression()
}

var assignmentOperators = map[OperatorKind]bool{
	OperatorAssign:                  true,
	OperatorAssign2:                 true,
	OperatorCompoundPlus:            true,
	OperatorCompoundMinus:           true,
	OperatorCompoundTimes:           true,
	OperatorCompoundDivide:          true,
	OperatorCompoundMod:             true,
	OperatorCompoundBitwiseAnd:      true,
	OperatorCompoundBitwiseOr:       true,
	OperatorCompoundBitwiseXor:      true,
	OperatorCompoundNullishCoalesce: true,
}

func (pc *ParseContext) parseAssignOrExpression() Node {
	expr := pc.parseChainExpression(true)
	if expr == nil {
		return nil
	}

	op, ok := pc.Peek().(*TokenOperator)
	if !ok || !assignmentOperators[op.Kind] {
		if markStatement(expr) {
			return expr
		}
		pc.PushError("expression floating outside any statement", expr.NearbyToken())
		return nil
	}

	if !isAssignable(expr) {
		pc.PushError("cannot assign to this expression", op)
		return nil
	}
	// Reported, but the assignment is still built
	if builtin := assignedBuiltin(expr); builtin != nil && !builtin.CanSet {
		pc.PushError(fmt.Sprintf("cannot assign to read-only builtin variable \"%s\"", builtin.Name), expr.NearbyToken())
	}
	pc.Advance()

	value := pc.ParseExpression()
	if value == nil {
		return nil
	}
	kind := op.Kind
	if kind == OperatorAssign2 {
		kind = OperatorAssign
	}
	return &AssignNode{nodeBase{op}, kind, expr, value}
}

// assignedBuiltin returns the builtin variable an assignment writes to, if any
func assignedBuiltin(n Node) *BuiltinVariable {
	switch n := n.(type) {
	case *SimpleVariableNode:
		return n.Builtin
	case *DotVariableNode:
		return n.Builtin
	case *AccessorNode:
		return assignedBuiltin(n.Expression)
	}
	return nil
}

func (pc *ParseContext) parseLocalVarDecl() Node {
	varTok := pc.Advance()
	node := &LocalVarDeclNode{nodeBase: nodeBase{varTok}}
	for {
		nameTok := pc.Peek()
		name, ok := tokenName(nameTok)
		if !ok {
			pc.PushError(fmt.Sprintf("expected variable name, got %s", pc.describeCurrent()), nameTok)
			return nil
		}
		pc.Advance()

		if pc.declaresOverBuiltin(nameTok) {
			pc.PushError(fmt.Sprintf("cannot declare local variable \"%s\": name is a builtin", name), nameTok)
		}
		pc.CurrentScope.Locals[name] = true

		var value Node
		if pc.IsCurrentOperator(OperatorAssign) || pc.IsCurrentOperator(OperatorAssign2) {
			pc.Advance()
			if value = pc.ParseExpression(); value == nil {
				return nil
			}
		}
		node.Names = append(node.Names, name)
		node.Values = append(node.Values, value)

		if !pc.IsCurrentSeparator(SeparatorComma) {
			return node
		}
		pc.Advance()
	}
}

func (pc *ParseContext) declaresOverBuiltin(tok Token) bool {
	switch t := tok.(type) {
	case *TokenVariable:
		return t.Builtin != nil
	case *TokenNumber:
		return t.IsConstant
	case *TokenFunction:
		return t.Builtin != nil
	}
	return false
}

func (pc *ParseContext) parseGlobalVarDecl() Node {
	globalTok := pc.Advance()
	node := &GlobalVarDeclNode{nodeBase: nodeBase{globalTok}}
	for {
		nameTok := pc.Peek()
		name, ok := tokenName(nameTok)
		if !ok {
			pc.PushError(fmt.Sprintf("expected variable name, got %s", pc.describeCurrent()), nameTok)
			return nil
		}
		pc.Advance()
		if pc.declaresOverBuiltin(nameTok) {
			pc.PushError(fmt.Sprintf("cannot declare global variable \"%s\": name is a builtin", name), nameTok)
		}
		pc.globals[name] = true
		node.Names = append(node.Names, name)

		if !pc.IsCurrentSeparator(SeparatorComma) {
			return node
		}
		pc.Advance()
	}
}

func (pc *ParseContext) parseIf() Node {
	ifTok := pc.Advance()
	condition := pc.ParseExpression()
	if condition == nil {
		return nil
	}
	if pc.IsCurrentKeyword(KeywordThen) {
		pc.Advance()
	}
	node := &IfNode{nodeBase: nodeBase{ifTok}, Condition: condition, True: pc.parseBody()}
	if pc.IsCurrentKeyword(KeywordElse) {
		pc.Advance()
		node.False = pc.parseBody()
	}
	return node
}

// parseLoopBody parses the body of a loop or switch. Break (and continue, for
// loops) inside it belong to the construct, not to an enclosing try statement.
func (pc *ParseContext) parseLoopBody(parse func() Node, isSwitch bool) Node {
	saved := pc.flowCounters

	generate := false
	if pc.Try != nil {
		generate = pc.Try.ShouldGenerateBreakContinueCode
		pc.Try.ShouldGenerateBreakContinueCode = false
	}
	body := parse()
	// Whatever try context is current now gets the flag back, even if the
	// body replaced it.
	if pc.Try != nil {
		pc.Try.ShouldGenerateBreakContinueCode = generate
	}

	pc.BreakCount = saved.BreakCount
	if !isSwitch {
		pc.ContinueCount = saved.ContinueCount
	}
	return body
}

func (pc *ParseContext) parseWhile() Node {
	whileTok := pc.Advance()
	condition := pc.ParseExpression()
	if condition == nil {
		return nil
	}
	body := pc.parseLoopBody(pc.parseBody, false)
	return &WhileLoopNode{nodeBase{whileTok}, condition, body}
}

func (pc *ParseContext) parseRepeat() Node {
	repeatTok := pc.Advance()
	times := pc.ParseExpression()
	if times == nil {
		return nil
	}
	body := pc.parseLoopBody(pc.parseBody, false)
	return &RepeatLoopNode{nodeBase{repeatTok}, times, body}
}

func (pc *ParseContext) parseWith() Node {
	withTok := pc.Advance()
	target := pc.ParseExpression()
	if target == nil {
		return nil
	}
	body := pc.parseLoopBody(pc.parseBody, false)
	return &WithLoopNode{nodeBase{withTok}, target, body}
}

func (pc *ParseContext) parseDoUntil() Node {
	doTok := pc.Advance()
	body := pc.parseLoopBody(pc.parseBody, false)
	if !pc.IsCurrentKeyword(KeywordUntil) {
		pc.PushError(fmt.Sprintf("expected 'until', got %s", pc.describeCurrent()), pc.Peek())
		return nil
	}
	pc.Advance()
	condition := pc.ParseExpression()
	if condition == nil {
		return nil
	}
	pc.optionalSemicolon()
	return &DoUntilLoopNode{nodeBase{doTok}, body, condition}
}

// parseFor parses "for (init; condition; increment) body". Each clause may
// be empty.
func (pc *ParseContext) parseFor() Node {
	forTok := pc.Advance()
	if !pc.EnsureSeparator(SeparatorGroupOpen) {
		return nil
	}
	node := &ForLoopNode{nodeBase: nodeBase{forTok}}

	if semi, ok := pc.currentSeparator(SeparatorSemicolon); ok {
		node.Initializer = &EmptyNode{nodeBase{semi}}
	} else if node.Initializer = pc.parseSimpleStatement(); node.Initializer == nil {
		return nil
	}
	if !pc.EnsureSeparator(SeparatorSemicolon) {
		return nil
	}

	if !pc.IsCurrentSeparator(SeparatorSemicolon) {
		if node.Condition = pc.ParseExpression(); node.Condition == nil {
			return nil
		}
	}
	if !pc.EnsureSeparator(SeparatorSemicolon) {
		return nil
	}

	if closeTok, ok := pc.currentSeparator(SeparatorGroupClose); ok {
		node.Incrementor = &EmptyNode{nodeBase{closeTok}}
	} else if node.Incrementor = pc.parseSimpleStatement(); node.Incrementor == nil {
		return nil
	}
	if !pc.EnsureSeparator(SeparatorGroupClose) {
		return nil
	}

	node.Body = pc.parseLoopBody(pc.parseBody, false)
	return node
}

// parseSwitch parses a switch block. Case labels are kept in line with the
// statements they precede.
func (pc *ParseContext) parseSwitch() Node {
	switchTok := pc.Advance()
	expr := pc.ParseExpression()
	if expr == nil {
		return nil
	}
	if !pc.EnsureSeparator(SeparatorBlockOpen) {
		return nil
	}
	node := &SwitchNode{nodeBase: nodeBase{switchTok}, Expression: expr, Children: []Node{}}

	pc.parseLoopBody(func() Node {
		for !pc.EndOfCode() && !pc.IsCurrentSeparator(SeparatorBlockClose) {
			start := pc.position
			if label := pc.parseCaseLabel(); label != nil {
				node.Children = append(node.Children, label)
				continue
			}
			if pc.position != start {
				continue
			}
			stmt := pc.parseStatement()
			if stmt == nil {
				pc.skipFailed(start, func() bool { return pc.IsCurrentSeparator(SeparatorBlockClose) })
				continue
			}
			if _, empty := stmt.(*EmptyNode); !empty {
				node.Children = append(node.Children, stmt)
			}
		}
		return nil
	}, true)
	if !pc.EnsureSeparator(SeparatorBlockClose) {
		return nil
	}
	return node
}

// parseCaseLabel parses "case expr:" or "default:". It returns nil without
// consuming anything when the current token starts neither.
func (pc *ParseContext) parseCaseLabel() Node {
	tok := pc.Peek()
	switch {
	case pc.IsCurrentKeyword(KeywordCase):
		pc.Advance()
		value := pc.ParseExpression()
		if value == nil || !pc.EnsureSeparator(SeparatorColon) {
			return nil
		}
		return &SwitchCaseNode{nodeBase{tok}, value}
	case pc.IsCurrentKeyword(KeywordDefault):
		pc.Advance()
		if !pc.EnsureSeparator(SeparatorColon) {
			return nil
		}
		return &SwitchCaseNode{nodeBase: nodeBase{tok}}
	}
	return nil
}

func (pc *ParseContext) parseReturn() Node {
	returnTok := pc.Advance()
	pc.ReturnCount++
	node := &ReturnNode{nodeBase: nodeBase{returnTok}}
	if pc.returnHasValue() {
		if node.Value = pc.ParseExpression(); node.Value == nil {
			return nil
		}
	}
	return node
}

// returnHasValue reports whether the tokens after "return" start a value
func (pc *ParseContext) returnHasValue() bool {
	switch t := pc.Peek().(type) {
	case nil:
		return false
	case *TokenSeparator:
		return t.Kind != SeparatorSemicolon && t.Kind != SeparatorBlockClose
	case *TokenKeyword:
		return t.Kind == KeywordFunction || t.Kind == KeywordNew
	}
	return true
}

func (pc *ParseContext) parseDelete() Node {
	deleteTok := pc.Advance()
	target := pc.parseChainExpression(true)
	if target == nil {
		return nil
	}
	if !isAssignable(target) {
		pc.PushError("invalid target for delete", deleteTok)
		return nil
	}
	undefined := &SimpleVariableNode{
		nodeBase: nodeBase{deleteTok},
		Name:     "undefined",
		Builtin:  pc.compile.game.LookupBuiltinVariable("undefined"),
	}
	return &AssignNode{nodeBase{deleteTok}, OperatorAssign, target, undefined}
}
