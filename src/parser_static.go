package gmlfront

import "fmt"

// parseStatic parses "static a = expr, b = expr". Nothing is added to the
// statement list: each pair becomes an assignment in the enclosing function's
// static initializer block, which is created on first use.
func (pc *ParseContext) parseStatic() Node {
	staticTok := pc.Advance()
	scope := pc.CurrentScope
	if !scope.IsFunction {
		pc.PushError("static variables can only be declared inside a function", staticTok)
	}

	for {
		nameTok := pc.Peek()
		name, ok := tokenName(nameTok)
		if !ok {
			pc.PushError(fmt.Sprintf("expected static variable name, got %s", pc.describeCurrent()), nameTok)
			return nil
		}
		pc.Advance()
		if pc.declaresOverBuiltin(nameTok) {
			pc.PushError(fmt.Sprintf("cannot declare static variable \"%s\": name is a builtin", name), nameTok)
		}

		assignTok, ok := pc.Peek().(*TokenOperator)
		if !ok || (assignTok.Kind != OperatorAssign && assignTok.Kind != OperatorAssign2) {
			pc.PushError(fmt.Sprintf("static variable \"%s\" must be initialized", name), nameTok)
		} else {
			pc.Advance()
			value := pc.ParseExpression()
			if value == nil {
				return nil
			}
			if scope.IsFunction {
				pc.declareStatic(scope, name, nameTok, assignTok, value)
			}
		}

		if !pc.IsCurrentSeparator(SeparatorComma) {
			break
		}
		pc.Advance()
	}
	return &EmptyNode{nodeBase{staticTok}}
}

func (pc *ParseContext) declareStatic(scope *FunctionScope, name string, nameTok Token, assignTok *TokenOperator, value Node) {
	if scope.StaticInitBlock == nil {
		scope.StaticInitBlock = &BlockNode{nodeBase: nodeBase{nameTok}, Children: []Node{}}
	}
	scope.Statics[name] = true

	target := &SimpleVariableNode{nodeBase: nodeBase{nameTok}, Name: name, Storage: StorageStatic}
	if v, ok := nameTok.(*TokenVariable); ok {
		target.Builtin = v.Builtin
	}
	scope.StaticInitBlock.Children = append(scope.StaticInitBlock.Children,
		&AssignNode{nodeBase{assignTok}, OperatorAssign, target, value})

	pc.compile.logger.TraceCat(CatStatic, "static %s declared (%d in scope)", name, len(scope.Statics))
}
