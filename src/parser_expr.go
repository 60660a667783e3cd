package gmlfront

import "fmt"

// Every parse function returns nil after reporting exactly one diagnostic at
// the point of failure. Callers decide how to recover.

// ParseExpression parses a full expression starting at the current token
func (pc *ParseContext) ParseExpression() Node {
	return pc.parseConditional()
}

func (pc *ParseContext) parseConditional() Node {
	condition := pc.parseNullish()
	if condition == nil {
		return nil
	}
	tok, ok := pc.currentOperator(OperatorConditional)
	if !ok {
		return condition
	}
	pc.Advance()

	whenTrue := pc.ParseExpression()
	if whenTrue == nil {
		return nil
	}
	if !pc.EnsureSeparator(SeparatorColon) {
		return nil
	}
	whenFalse := pc.ParseExpression()
	if whenFalse == nil {
		return nil
	}
	return &ConditionalNode{nodeBase{tok}, condition, whenTrue, whenFalse}
}

func (pc *ParseContext) parseNullish() Node {
	left := pc.parseBinaryLevel(0)
	for left != nil {
		tok, ok := pc.currentOperator(OperatorNullishCoalesce)
		if !ok {
			break
		}
		pc.Advance()
		right := pc.parseBinaryLevel(0)
		if right == nil {
			return nil
		}
		left = &NullishCoalesceNode{nodeBase{tok}, left, right}
	}
	return left
}

// binaryLevels lists operators from loosest to tightest binding. The
// operators of one level are collected into a single chain node.
var binaryLevels = [][]OperatorKind{
	{OperatorLogicalOr},
	{OperatorLogicalAnd},
	{OperatorLogicalXor},
	{
		OperatorCompareEqual, OperatorAssign, OperatorAssign2, OperatorCompareNotEqual,
		OperatorCompareGreater, OperatorCompareGreaterEqual,
		OperatorCompareLesser, OperatorCompareLesserEqual,
	},
	{OperatorBitwiseAnd, OperatorBitwiseOr, OperatorBitwiseXor},
	{OperatorBitwiseShiftLeft, OperatorBitwiseShiftRight},
	{OperatorPlus, OperatorMinus},
	{OperatorTimes, OperatorDivide, OperatorMod, OperatorDiv},
}

func (pc *ParseContext) currentOperatorIn(kinds []OperatorKind) (*TokenOperator, bool) {
	o, ok := pc.Peek().(*TokenOperator)
	if !ok {
		return nil, false
	}
	for _, kind := range kinds {
		if o.Kind == kind {
			return o, true
		}
	}
	return nil, false
}

func (pc *ParseContext) parseBinaryLevel(level int) Node {
	if level == len(binaryLevels) {
		return pc.parseChainExpression(true)
	}

	first := pc.parseBinaryLevel(level + 1)
	if first == nil {
		return nil
	}

	var chain *BinaryChainNode
	for {
		tok, ok := pc.currentOperatorIn(binaryLevels[level])
		if !ok {
			break
		}
		pc.Advance()

		next := pc.parseBinaryLevel(level + 1)
		if next == nil {
			return nil
		}

		kind := tok.Kind
		if kind == OperatorAssign || kind == OperatorAssign2 {
			// Inside an expression '=' compares
			kind = OperatorCompareEqual
		}
		if chain == nil {
			chain = &BinaryChainNode{nodeBase: nodeBase{tok}, Arguments: []Node{first}}
		}
		chain.Arguments = append(chain.Arguments, next)
		chain.Operations = append(chain.Operations, kind)
	}

	if chain == nil {
		return first
	}
	return chain
}

// parseChainExpression parses a primary followed by any run of accessors,
// calls and member accesses, then an optional postfix ++ or --. With
// allowCalls false, a trailing call is left for the caller (used by "new").
func (pc *ParseContext) parseChainExpression(allowCalls bool) Node {
	left := pc.parseLeftmost()
	if left == nil {
		return nil
	}

	for {
		s, ok := pc.Peek().(*TokenSeparator)
		if !ok {
			break
		}
		if kind, isAccessor := accessorOpen[s.Kind]; isAccessor {
			left = pc.parseAccessor(left, s, kind)
		} else if s.Kind == SeparatorGroupOpen && allowCalls {
			args, ok := pc.parseCallArguments()
			if !ok {
				return nil
			}
			left = &FunctionCallNode{nodeBase: nodeBase{s}, Expression: left, Arguments: args}
		} else if s.Kind == SeparatorDot {
			left = pc.parseDot(left, s, allowCalls)
		} else {
			break
		}
		if left == nil {
			return nil
		}
	}

	left = pc.wrapAutomaticArray(left)

	if tok, ok := pc.Peek().(*TokenOperator); ok && (tok.Kind == OperatorIncrement || tok.Kind == OperatorDecrement) && isAssignable(left) {
		pc.Advance()
		left = &PostfixNode{nodeBase: nodeBase{tok}, Operator: tok.Kind, Expression: left}
	}
	return left
}

func (pc *ParseContext) parseAccessor(left Node, open *TokenSeparator, kind AccessorKind) Node {
	pc.Advance()
	index := pc.ParseExpression()
	if index == nil {
		return nil
	}

	node := &AccessorNode{nodeBase: nodeBase{open}, Expression: left, Kind: kind, Accessor: index}

	if comma, ok := pc.currentSeparator(SeparatorComma); ok {
		switch {
		case kind == AccessorGrid:
			pc.Advance()
			if node.Accessor2 = pc.ParseExpression(); node.Accessor2 == nil {
				return nil
			}
		case kind == AccessorArray || kind == AccessorDirect:
			if !pc.Flags.UsingGMLv2 {
				pc.PushError("two-dimensional array access is not supported in this GML version", comma)
				return nil
			}
			pc.Advance()
			index2 := pc.ParseExpression()
			if index2 == nil {
				return nil
			}
			node = &AccessorNode{nodeBase: nodeBase{comma}, Expression: node, Kind: kind, Accessor: index2}
		}
	} else if kind == AccessorGrid {
		pc.EnsureSeparator(SeparatorComma)
		return nil
	}

	if !pc.EnsureSeparator(SeparatorArrayClose) {
		return nil
	}
	return node
}

func (pc *ParseContext) parseDot(left Node, dot *TokenSeparator, allowCalls bool) Node {
	pc.Advance()
	tok := pc.Peek()
	name, ok := tokenName(tok)
	if !ok {
		pc.PushError(fmt.Sprintf("expected member name after '.', got %s", pc.describeCurrent()), tok)
		return nil
	}
	pc.Advance()

	node := &DotVariableNode{nodeBase: nodeBase{tok}, Left: left, Name: name}
	switch t := tok.(type) {
	case *TokenVariable:
		node.Builtin = t.Builtin
	case *TokenFunction:
		if !allowCalls {
			return node
		}
		args, ok := pc.parseCallArguments()
		if !ok {
			return nil
		}
		return &FunctionCallNode{nodeBase: nodeBase{dot}, Expression: node, Arguments: args}
	default:
		node.Builtin = pc.compile.game.LookupBuiltinVariable(name)
	}
	return node
}

// wrapAutomaticArray gives bare references to builtin array variables such as
// "alarm" an implicit [0] index
func (pc *ParseContext) wrapAutomaticArray(n Node) Node {
	v, ok := n.(*SimpleVariableNode)
	if !ok || v.Builtin == nil || !v.Builtin.IsAutomaticArray {
		return n
	}
	zero := &NumberNode{nodeBase: v.nodeBase, Value: 0}
	return &AccessorNode{nodeBase: v.nodeBase, Expression: v, Kind: AccessorArray, Accessor: zero}
}

// parseCallArguments parses "(a, b, ...)" starting at the opening parenthesis
func (pc *ParseContext) parseCallArguments() ([]Node, bool) {
	if !pc.EnsureSeparator(SeparatorGroupOpen) {
		return nil, false
	}
	args := []Node{}
	if pc.IsCurrentSeparator(SeparatorGroupClose) {
		pc.Advance()
		return args, true
	}
	for {
		arg := pc.ParseExpression()
		if arg == nil {
			return nil, false
		}
		args = append(args, arg)
		if pc.IsCurrentSeparator(SeparatorComma) {
			pc.Advance()
			continue
		}
		if !pc.EnsureSeparator(SeparatorGroupClose) {
			return nil, false
		}
		return args, true
	}
}

func (pc *ParseContext) parseLeftmost() Node {
	tok := pc.Peek()
	if tok == nil {
		pc.PushError("unexpected end of code, expected an expression", nil)
		return nil
	}
	base := nodeBase{tok}

	switch t := tok.(type) {
	case *TokenNumber:
		pc.Advance()
		node := &NumberNode{nodeBase: base, Value: t.Value}
		if t.IsConstant {
			node.Name = t.Text
		}
		return node
	case *TokenInt64:
		pc.Advance()
		return &Int64Node{base, t.Value}
	case *TokenBoolean:
		pc.Advance()
		return &BooleanNode{base, t.Value}
	case *TokenString:
		pc.Advance()
		return &StringNode{base, t.Value}
	case *TokenAssetReference:
		pc.Advance()
		return &AssetReferenceNode{base, t.Text, t.AssetID, t.IsRoomInstance}
	case *TokenVariable:
		pc.Advance()
		return &SimpleVariableNode{base, t.Text, t.Builtin, pc.storageOf(t.Text)}
	case *TokenIdentifier:
		pc.Advance()
		return &SimpleVariableNode{nodeBase: base, Name: t.Text, Storage: pc.storageOf(t.Text)}
	case *TokenFunction:
		pc.Advance()
		args, ok := pc.parseCallArguments()
		if !ok {
			return nil
		}
		return &SimpleFunctionCallNode{nodeBase: base, Name: t.Text, Builtin: t.Builtin, Arguments: args}

	case *TokenSeparator:
		switch t.Kind {
		case SeparatorGroupOpen:
			pc.Advance()
			inner := pc.ParseExpression()
			if inner == nil || !pc.EnsureSeparator(SeparatorGroupClose) {
				return nil
			}
			return inner
		case SeparatorArrayOpen:
			if !pc.Flags.UsingGMS2OrLater {
				pc.PushError("array literals are not supported in this GML version", tok)
				return nil
			}
			return pc.parseArrayLiteral()
		case SeparatorBlockOpen:
			if !pc.Flags.UsingGMLv2 {
				pc.PushError("struct literals are not supported in this GML version", tok)
				return nil
			}
			return pc.parseStructLiteral()
		}

	case *TokenOperator:
		switch t.Kind {
		case OperatorIncrement, OperatorDecrement:
			pc.Advance()
			operand := pc.parseChainExpression(true)
			if operand == nil {
				return nil
			}
			if !isAssignable(operand) {
				pc.PushError(fmt.Sprintf("invalid operand for prefix '%s'", t.Kind), tok)
				return nil
			}
			return &PrefixNode{nodeBase: base, Operator: t.Kind, Expression: operand}
		case OperatorNot, OperatorBitwiseNegate, OperatorPlus, OperatorMinus:
			pc.Advance()
			operand := pc.parseChainExpression(true)
			if operand == nil {
				return nil
			}
			return &UnaryNode{base, t.Kind, operand}
		}

	case *TokenKeyword:
		switch t.Kind {
		case KeywordFunction:
			if !pc.Flags.UsingGMLv2 {
				pc.PushError("function expressions are not supported in this GML version", tok)
				return nil
			}
			fn := pc.parseFunction()
			if fn == nil {
				return nil
			}
			return fn
		case KeywordNew:
			if !pc.Flags.UsingGMLv2 {
				pc.PushError("'new' is not supported in this GML version", tok)
				return nil
			}
			return pc.parseNew()
		}
	}

	pc.PushError(fmt.Sprintf("unexpected %s, expected an expression", pc.describeCurrent()), tok)
	return nil
}

func (pc *ParseContext) parseArrayLiteral() Node {
	open := pc.Advance()
	node := &ArrayInitNode{nodeBase: nodeBase{open}, Elements: []Node{}}
	for !pc.IsCurrentSeparator(SeparatorArrayClose) {
		elem := pc.ParseExpression()
		if elem == nil {
			return nil
		}
		node.Elements = append(node.Elements, elem)
		if !pc.IsCurrentSeparator(SeparatorComma) {
			break
		}
		pc.Advance()
	}
	if !pc.EnsureSeparator(SeparatorArrayClose) {
		return nil
	}
	return node
}

func (pc *ParseContext) parseStructLiteral() Node {
	open := pc.Advance()
	node := &StructNode{nodeBase: nodeBase{open}}
	for !pc.IsCurrentSeparator(SeparatorBlockClose) {
		keyTok := pc.Peek()
		var key string
		switch t := keyTok.(type) {
		case *TokenString:
			key = t.Value
		case *TokenKeyword:
			key = t.Kind.String()
		default:
			name, ok := tokenName(keyTok)
			if !ok {
				pc.PushError(fmt.Sprintf("expected struct key, got %s", pc.describeCurrent()), keyTok)
				return nil
			}
			key = name
		}
		pc.Advance()
		if !pc.EnsureSeparator(SeparatorColon) {
			return nil
		}
		value := pc.ParseExpression()
		if value == nil {
			return nil
		}
		node.Keys = append(node.Keys, key)
		node.Values = append(node.Values, value)
		if !pc.IsCurrentSeparator(SeparatorComma) {
			break
		}
		pc.Advance()
	}
	if !pc.EnsureSeparator(SeparatorBlockClose) {
		return nil
	}
	return node
}

// parseNew parses "new Constructor(args)"
func (pc *ParseContext) parseNew() Node {
	newTok := pc.Advance()
	var ctor Node
	if fn, ok := pc.Peek().(*TokenFunction); ok {
		pc.Advance()
		ctor = &SimpleVariableNode{nodeBase: nodeBase{fn}, Name: fn.Text, Storage: pc.storageOf(fn.Text)}
	} else {
		ctor = pc.parseChainExpression(false)
		if ctor == nil {
			return nil
		}
	}
	args, ok := pc.parseCallArguments()
	if !ok {
		return nil
	}
	return &NewObjectNode{nodeBase: nodeBase{newTok}, Constructor: ctor, Arguments: args}
}

// parseFunction parses a function declaration or expression:
//
//	function [name](a, b = 1) [: Parent(args)] [constructor] { ... }
func (pc *ParseContext) parseFunction() *FunctionDeclNode {
	fnTok := pc.Advance()
	node := &FunctionDeclNode{nodeBase: nodeBase{fnTok}}

	if nameTok, ok := pc.Peek().(*TokenFunction); ok {
		node.Name = nameTok.Text
		pc.Advance()
	}

	scope, leave := pc.enterFunction()
	defer leave()
	node.Scope = scope

	if !pc.EnsureSeparator(SeparatorGroupOpen) {
		return nil
	}
	for !pc.IsCurrentSeparator(SeparatorGroupClose) {
		argTok := pc.Peek()
		name, ok := tokenName(argTok)
		if !ok {
			pc.PushError(fmt.Sprintf("expected argument name, got %s", pc.describeCurrent()), argTok)
			return nil
		}
		pc.Advance()

		var def Node
		if pc.IsCurrentOperator(OperatorAssign) {
			pc.Advance()
			if def = pc.ParseExpression(); def == nil {
				return nil
			}
		}
		node.Arguments = append(node.Arguments, name)
		node.Defaults = append(node.Defaults, def)
		scope.Arguments = append(scope.Arguments, name)
		scope.Locals[name] = true

		if !pc.IsCurrentSeparator(SeparatorComma) {
			break
		}
		pc.Advance()
	}
	if !pc.EnsureSeparator(SeparatorGroupClose) {
		return nil
	}

	if pc.IsCurrentSeparator(SeparatorColon) {
		pc.Advance()
		if _, ok := pc.Peek().(*TokenFunction); !ok {
			pc.PushError(fmt.Sprintf("expected parent constructor call, got %s", pc.describeCurrent()), pc.Peek())
			return nil
		}
		if node.Inherits = pc.parseLeftmost(); node.Inherits == nil {
			return nil
		}
	}

	if name, ok := tokenName(pc.Peek()); ok && name == "constructor" {
		pc.Advance()
		node.IsConstructor = true
	}
	if node.Inherits != nil && !node.IsConstructor {
		pc.PushError("only constructors can inherit", fnTok)
		return nil
	}

	body := pc.parseBlock()
	if body == nil {
		return nil
	}
	node.Body = body
	if scope.StaticInitBlock != nil {
		node.Statics = scope.StaticInitBlock
	}
	return node
}
