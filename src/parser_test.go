package gmlfront

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileWith(t *testing.T, flags LanguageFlags, src string) (*CompileResult, *CompileContext) {
	t.Helper()
	cc := newTestContext(flags)
	return cc.CompileEntry("test", src), cc
}

func compile(t *testing.T, src string) (*CompileResult, *CompileContext) {
	t.Helper()
	return compileWith(t, ModernFlags(), src)
}

func rootChildren(t *testing.T, result *CompileResult) []Node {
	t.Helper()
	block, ok := result.Root.(*BlockNode)
	require.True(t, ok, "root should be a block, got %T", result.Root)
	return block.Children
}

func TestBinaryChainIsFlat(t *testing.T) {
	result, cc := compile(t, "a = 1 + 2 - 3 + 4;")
	require.Empty(t, cc.Errors())

	children := rootChildren(t, result)
	require.Len(t, children, 1)
	assign := children[0].(*AssignNode)

	chain, ok := assign.Expression.(*BinaryChainNode)
	require.True(t, ok, "expected a chain, got %T", assign.Expression)
	assert.Len(t, chain.Arguments, 4)
	assert.Equal(t, []OperatorKind{OperatorPlus, OperatorMinus, OperatorPlus}, chain.Operations)
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"a = 1 + 2 * 3;", "{ (= a (chain 1 + (chain 2 * 3))) }"},
		{"a = b || c && d;", "{ (= a (chain b || (chain c && d))) }"},
		{"a = b == c;", "{ (= a (chain b == c)) }"},
		{"a = b = c;", "{ (= a (chain b == c)) }"},
		{"a = b ? c : d;", "{ (= a (? b c d)) }"},
		{"a = b ?? c ?? d;", "{ (= a (?? (?? b c) d)) }"},
		{"a = -b + !c;", "{ (= a (chain (- b) + (! c))) }"},
		{"a = (1 + 2) * 3;", "{ (= a (chain (chain 1 + 2) * 3)) }"},
		{"a = b << 2 | 1;", "{ (= a (chain (chain b << 2) | 1)) }"},
		{"a := 1;", "{ (= a 1) }"},
		{"a += 1;", "{ (+= a 1) }"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			result, cc := compile(t, tt.src)
			require.Empty(t, cc.Errors())
			assert.Equal(t, tt.want, FormatNode(result.Root))
		})
	}
}

func TestChainExpressions(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"a.b.c = 1;", "{ (= (. (. a b) c) 1) }"},
		{"a[0] = 1;", "{ (= ([ a 0) 1) }"},
		{"a[1, 2] = 3;", "{ (= ([ ([ a 1) 2) 3) }"},
		{"l[| 0] = 1;", "{ (= ([| l 0) 1) }"},
		{"g[# 1, 2] = 1;", "{ (= ([# g 1 2) 1) }"},
		{"a.f(1);", "{ (call (. a f) 1) }"},
		{"f(1)(2);", "{ (call (call f 1) 2) }"},
		{"i++;", "{ (post++ i) }"},
		{"--i;", "{ (pre-- i) }"},
		{"alarm = 5;", "{ (= ([ alarm 0) 5) }"},
		{"alarm[2] = 5;", "{ (= ([ alarm 2) 5) }"},
		{"s = new Vec2(1, 2);", "{ (= s (new Vec2 1 2)) }"},
		{"a = [1, 2];", "{ (= a (array 1 2)) }"},
		{"a = {x: 1, \"y\": 2};", "{ (= a (struct x:1 y:2)) }"},
		{"delete a;", "{ (= a undefined) }"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			result, cc := compile(t, tt.src)
			require.Empty(t, cc.Errors())
			assert.Equal(t, tt.want, FormatNode(result.Root))
		})
	}
}

func TestStatements(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"if a then b = 1 else b = 2", "{ (if a (= b 1) (= b 2)) }"},
		{"while (a) { a--; }", "{ (while a { (post-- a) }) }"},
		{"repeat 3 x++;", "{ (repeat 3 (post++ x)) }"},
		{"do { i++; } until i > 3;", "{ (do { (post++ i) } (chain i > 3)) }"},
		{"with (other) instance_destroy();", "{ (with -2 (call instance_destroy)) }"},
		{"for (;;) {}", "{ (for (empty) nil (empty) { }) }"},
		{"for (var i = 0; i < 3; i++) {}", "{ (for (var i=0) (chain local.i < 3) (post++ local.i) { }) }"},
		{"switch a { case 1: b = 1; break; default: exit; }", "{ (switch a case 1: (= b 1) (break) default: (exit)) }"},
		{"var a = 1, b;", "{ (var a=1 b) }"},
		{"globalvar score; score = 1;", "{ (globalvar score) (= global.score 1) }"},
		{"return;", "{ (return) }"},
		{"return 1;", "{ (return 1) }"},
		{";;", "{ }"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			result, cc := compile(t, tt.src)
			require.Empty(t, cc.Errors())
			assert.Equal(t, tt.want, FormatNode(result.Root))
		})
	}
}

func TestLocalScope(t *testing.T) {
	result, cc := compile(t, "var a; a = 1; b = a;")
	require.Empty(t, cc.Errors())

	assert.True(t, result.Scope.Locals["a"])
	assert.Equal(t, "{ (var a) (= local.a 1) (= b local.a) }", FormatNode(result.Root))
}

func TestFunctionDeclaration(t *testing.T) {
	result, cc := compile(t, "function Vec2(x_, y_ = 0) constructor { self.x_ = x_; }")
	require.Empty(t, cc.Errors())

	children := rootChildren(t, result)
	require.Len(t, children, 1)
	fn := children[0].(*FunctionDeclNode)
	assert.Equal(t, "Vec2", fn.Name)
	assert.Equal(t, []string{"x_", "y_"}, fn.Arguments)
	assert.Nil(t, fn.Defaults[0])
	assert.NotNil(t, fn.Defaults[1])
	assert.True(t, fn.IsConstructor)
	assert.True(t, fn.Scope.Locals["x_"])
	assert.False(t, result.Scope.Locals["x_"], "arguments must not leak into the enclosing scope")
}

func TestInheritanceRequiresConstructor(t *testing.T) {
	_, cc := compile(t, "function B() : A() { }")
	assert.Contains(t, errorMessages(cc), "only constructors can inherit")
}

func TestStaticDeclarations(t *testing.T) {
	result, cc := compile(t, "function f() { static count = 0, step = 2; count += step; }")
	require.Empty(t, cc.Errors())

	fn := rootChildren(t, result)[0].(*FunctionDeclNode)
	require.NotNil(t, fn.Statics)
	statics := fn.Statics.(*BlockNode)
	require.Len(t, statics.Children, 2)
	assert.Equal(t, "(= static.count 0)", FormatNode(statics.Children[0]))
	assert.Equal(t, "(= static.step 2)", FormatNode(statics.Children[1]))

	// The static statement itself leaves nothing in the body
	assert.Equal(t, "{ (+= static.count static.step) }", FormatNode(fn.Body))
}

func TestStaticOutsideFunction(t *testing.T) {
	result, cc := compile(t, "static a = 1;")

	assert.Equal(t, []string{"static variables can only be declared inside a function"}, errorMessages(cc))
	assert.Nil(t, result.Scope.StaticInitBlock)
	assert.Empty(t, rootChildren(t, result))
}

func TestStaticWithoutInitializer(t *testing.T) {
	_, cc := compile(t, "function f() { static a; }")
	assert.Equal(t, []string{`static variable "a" must be initialized`}, errorMessages(cc))
}

func TestStaticOverBuiltin(t *testing.T) {
	_, cc := compile(t, "function f() { static x = 1; }")
	assert.Equal(t, []string{`cannot declare static variable "x": name is a builtin`}, errorMessages(cc))
}

func TestEnumResolution(t *testing.T) {
	result, cc := compile(t, "enum E { A, B = A + 5, C }\nx = E.C;")
	require.Empty(t, cc.Errors())

	enum := cc.Enum("E")
	require.NotNil(t, enum)
	assert.Equal(t, []EnumValue{{"A", 0}, {"B", 5}, {"C", 6}}, enum.Values)

	children := rootChildren(t, result)
	require.Len(t, children, 1)
	value := children[0].(*AssignNode).Expression
	number, ok := value.(*NumberNode)
	require.True(t, ok, "enum reference should become a literal, got %T", value)
	assert.Equal(t, 6.0, number.Value)
	assert.Equal(t, "E.C", number.Name)
}

func TestEnumForwardReference(t *testing.T) {
	_, cc := compile(t, "enum First { A = Second.X * 2, B }\nenum Second { X = 3 }")
	require.Empty(t, cc.Errors())

	assert.Equal(t, []EnumValue{{"A", 6}, {"B", 7}}, cc.Enum("First").Values)
	assert.Equal(t, []EnumValue{{"X", 3}}, cc.Enum("Second").Values)
}

func TestEnumUnresolvable(t *testing.T) {
	_, cc := compile(t, "enum E { A = foo, B }")

	assert.Equal(t, []string{"cannot resolve value of enum member E.A"}, errorMessages(cc))
	assert.Equal(t, []EnumValue{{"A", 0}, {"B", 1}}, cc.Enum("E").Values)
}

func TestEnumDiagnostics(t *testing.T) {
	_, cc := compile(t, "enum E { A, A }\nenum E { B }\nx = E.Z;")
	assert.Equal(t, []string{
		`duplicate enum value name "A" in enum "E"`,
		`duplicate enum name "E"`,
		`enum "E" has no member "Z"`,
	}, errorMessages(cc))
}

func TestEnumInt64Value(t *testing.T) {
	result, cc := compile(t, "enum Big { A = 1 << 40 }\nx = Big.A;")
	require.Empty(t, cc.Errors())

	value := rootChildren(t, result)[0].(*AssignNode).Expression
	require.IsType(t, &Int64Node{}, value)
	assert.Equal(t, int64(1)<<40, value.(*Int64Node).Value)
}

func TestEnumMemberIsNotAssignable(t *testing.T) {
	for _, stmt := range []string{"E.A = 3;", "E.A += 1;", "E.A++;"} {
		t.Run(stmt, func(t *testing.T) {
			result, cc := compile(t, "enum E { A }\n"+stmt)
			assert.Equal(t, []string{"cannot assign to enum member E.A"}, errorMessages(cc))

			var dot *DotVariableNode
			Inspect(result.Root, func(n Node) bool {
				if d, ok := n.(*DotVariableNode); ok {
					dot = d
				}
				return true
			})
			require.NotNil(t, dot, "the target is left as a member reference")
			assert.Equal(t, "A", dot.Name)
		})
	}
}

func TestNestedTryOverwritesContext(t *testing.T) {
	src := `while (true) {
	try {
		try { } catch (e) { }
		break;
	} catch (e) { }
}`
	result, cc := compile(t, src)
	require.Empty(t, cc.Errors())

	loop := rootChildren(t, result)[0].(*WhileLoopNode)
	outer := loop.Body.(*BlockNode).Children[0].(*TryCatchNode)
	inner := outer.Try.(*BlockNode).Children[0].(*TryCatchNode)
	brk := outer.Try.(*BlockNode).Children[1].(*BreakNode)

	assert.Equal(t, "__yy_breakEx1", inner.BreakVariableName)
	assert.False(t, inner.HasBreakContinueVariable)

	// The break after the inner statement uses the inner statement's
	// variable, and the outer statement reports it as its own.
	assert.Equal(t, "__yy_breakEx1", brk.TryVariable)
	assert.Equal(t, "__yy_breakEx1", outer.BreakVariableName)
	assert.Equal(t, "__yy_continueEx1", outer.ContinueVariableName)
	assert.True(t, outer.HasBreakContinueVariable)
}

func TestBreakInsideLoopInsideTry(t *testing.T) {
	result, cc := compile(t, "try { while (a) { break; } continue; } catch (e) { }")
	require.Empty(t, cc.Errors())

	try := rootChildren(t, result)[0].(*TryCatchNode)
	body := try.Try.(*BlockNode).Children
	loop := body[0].(*WhileLoopNode)
	brk := loop.Body.(*BlockNode).Children[0].(*BreakNode)
	cont := body[1].(*ContinueNode)

	assert.Empty(t, brk.TryVariable, "break belongs to the loop")
	assert.Equal(t, "__yy_continueEx0", cont.TryVariable)
	assert.True(t, try.HasBreakContinueVariable)
}

func TestFinallyRejectsFlowControl(t *testing.T) {
	_, cc := compile(t, "while (true) { try { } finally { break; } }")
	assert.Equal(t, []string{"cannot use break, continue, exit or return inside a finally block"}, errorMessages(cc))
}

func TestThrowInsideFinally(t *testing.T) {
	result, cc := compile(t, "try { throw 1; } finally { throw 2; }")
	require.Empty(t, cc.Errors())

	try := rootChildren(t, result)[0].(*TryCatchNode)
	first := try.Try.(*BlockNode).Children[0].(*ThrowNode)
	second := try.Finally.(*BlockNode).Children[0].(*ThrowNode)
	assert.False(t, first.FinallyGeneration)
	assert.True(t, second.FinallyGeneration)
}

func TestTryWithoutHandler(t *testing.T) {
	_, cc := compile(t, "try { }")
	assert.Equal(t, []string{"expected 'catch' or 'finally', got end of code"}, errorMessages(cc))
}

func TestLegacyRejectsModernSyntax(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"a = {x: 1};", "struct literals are not supported in this GML version"},
		{"a = [1];", "array literals are not supported in this GML version"},
		{"a[1, 2] = 3;", "two-dimensional array access is not supported in this GML version"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, cc := compileWith(t, LegacyFlags(), tt.src)
			assert.Contains(t, errorMessages(cc), tt.want)
		})
	}

	// try and new are plain names before GMLv2
	_, cc := compileWith(t, LegacyFlags(), "try { } catch (e) { }")
	assert.NotEmpty(t, cc.Errors())
	_, cc = compileWith(t, LegacyFlags(), "new Foo();")
	assert.NotEmpty(t, cc.Errors())
}

func TestFloatingExpression(t *testing.T) {
	for _, src := range []string{"a;", "a[0];", "a.b;"} {
		t.Run(src, func(t *testing.T) {
			_, cc := compile(t, src)
			assert.Equal(t, []string{"expression floating outside any statement"}, errorMessages(cc))
		})
	}
}

func TestReadOnlyBuiltin(t *testing.T) {
	_, cc := compile(t, "id = 5;")
	assert.Equal(t, []string{`cannot assign to read-only builtin variable "id"`}, errorMessages(cc))
}

func TestLocalOverBuiltin(t *testing.T) {
	_, cc := compile(t, "var x = 1;")
	assert.Equal(t, []string{`cannot declare local variable "x": name is a builtin`}, errorMessages(cc))
}

func TestUnreachableCode(t *testing.T) {
	result, cc := compile(t, "exit; a = 1; b = 2;")
	require.Empty(t, cc.Errors())

	warnings := cc.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "unreachable code", warnings[0].Message)
	assert.Equal(t, 1, warnings[0].Position.Line)
	assert.Equal(t, 7, warnings[0].Position.Column)
	assert.Len(t, rootChildren(t, result), 3)
}

func TestErrorRecovery(t *testing.T) {
	result, cc := compile(t, "a = ;\nb = 2;\nc = ;\nd = 4;")

	assert.Len(t, cc.Errors(), 2)
	assert.Equal(t, "{ (= b 2) (= d 4) }", FormatNode(result.Root))
}

func TestOneErrorPerBadToken(t *testing.T) {
	for _, src := range []string{
		"a = ];",
		"{ a = ]; }",
		"{ a = }",
		"if (a) b = ];",
		"switch (a) { case 1: b = ]; }",
	} {
		t.Run(src, func(t *testing.T) {
			_, cc := compile(t, src)
			assert.Len(t, cc.Errors(), 1, "errors: %v", errorMessages(cc))
		})
	}
}

func TestStructKeywordKeys(t *testing.T) {
	result, cc := compile(t, "a = {default: 1, case: 2};")
	require.Empty(t, cc.Errors())
	assert.Equal(t, "{ (= a (struct default:1 case:2)) }", FormatNode(result.Root))
}

func TestInspectAndTransform(t *testing.T) {
	result, cc := compile(t, "a = 1 + 2; if a { b = 3; }")
	require.Empty(t, cc.Errors())

	numbers := 0
	Inspect(result.Root, func(n Node) bool {
		if _, ok := n.(*NumberNode); ok {
			numbers++
		}
		return true
	})
	assert.Equal(t, 3, numbers)

	doubled := Transform(result.Root, func(n Node) Node {
		if num, ok := n.(*NumberNode); ok {
			return &NumberNode{nodeBase: num.nodeBase, Value: num.Value * 2}
		}
		return n
	})
	assert.Equal(t, "{ (= a (chain 2 + 4)) (if a { (= b 6) }) }", FormatNode(doubled))
	assert.Same(t, result.Root, doubled, "the root block is kept")
	assert.Equal(t, FormatNode(doubled), FormatNode(result.Root), "children are replaced in place")
}
