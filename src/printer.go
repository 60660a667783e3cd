package gmlfront

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatNode renders a tree as a compact S-expression, for dumps and tests.
// A nil node renders as "nil".
func FormatNode(n Node) string {
	var sb strings.Builder
	writeNode(&sb, n)
	return sb.String()
}

func writeNodes(sb *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		sb.WriteByte(' ')
		writeNode(sb, n)
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeNode(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case nil:
		sb.WriteString("nil")
	case *NumberNode:
		sb.WriteString(formatNumber(n.Value))
	case *Int64Node:
		fmt.Fprintf(sb, "%dL", n.Value)
	case *BooleanNode:
		sb.WriteString(strconv.FormatBool(n.Value))
	case *StringNode:
		sb.WriteString(strconv.Quote(n.Value))
	case *AssetReferenceNode:
		fmt.Fprintf(sb, "(asset %s %d)", n.Name, n.AssetID)
	case *SimpleVariableNode:
		if n.Storage != StorageDefault {
			fmt.Fprintf(sb, "%s.%s", n.Storage, n.Name)
		} else {
			sb.WriteString(n.Name)
		}

	case *UnaryNode:
		fmt.Fprintf(sb, "(%s ", n.Operator)
		writeNode(sb, n.Expression)
		sb.WriteByte(')')
	case *PrefixNode:
		fmt.Fprintf(sb, "(pre%s ", n.Operator)
		writeNode(sb, n.Expression)
		sb.WriteByte(')')
	case *PostfixNode:
		fmt.Fprintf(sb, "(post%s ", n.Operator)
		writeNode(sb, n.Expression)
		sb.WriteByte(')')
	case *BinaryChainNode:
		sb.WriteString("(chain ")
		for i, arg := range n.Arguments {
			if i > 0 {
				fmt.Fprintf(sb, " %s ", n.Operations[i-1])
			}
			writeNode(sb, arg)
		}
		sb.WriteByte(')')
	case *ConditionalNode:
		sb.WriteString("(?")
		writeNodes(sb, []Node{n.Condition, n.True, n.False})
		sb.WriteByte(')')
	case *NullishCoalesceNode:
		sb.WriteString("(??")
		writeNodes(sb, []Node{n.Left, n.Right})
		sb.WriteByte(')')

	case *AccessorNode:
		fmt.Fprintf(sb, "(%s ", n.Kind)
		writeNode(sb, n.Expression)
		sb.WriteByte(' ')
		writeNode(sb, n.Accessor)
		if n.Accessor2 != nil {
			sb.WriteByte(' ')
			writeNode(sb, n.Accessor2)
		}
		sb.WriteByte(')')
	case *DotVariableNode:
		sb.WriteString("(. ")
		writeNode(sb, n.Left)
		fmt.Fprintf(sb, " %s)", n.Name)
	case *SimpleFunctionCallNode:
		fmt.Fprintf(sb, "(call %s", n.Name)
		writeNodes(sb, n.Arguments)
		sb.WriteByte(')')
	case *FunctionCallNode:
		sb.WriteString("(call ")
		writeNode(sb, n.Expression)
		writeNodes(sb, n.Arguments)
		sb.WriteByte(')')
	case *NewObjectNode:
		sb.WriteString("(new ")
		writeNode(sb, n.Constructor)
		writeNodes(sb, n.Arguments)
		sb.WriteByte(')')
	case *ArrayInitNode:
		sb.WriteString("(array")
		writeNodes(sb, n.Elements)
		sb.WriteByte(')')
	case *StructNode:
		sb.WriteString("(struct")
		for i, key := range n.Keys {
			fmt.Fprintf(sb, " %s:", key)
			writeNode(sb, n.Values[i])
		}
		sb.WriteByte(')')
	case *FunctionDeclNode:
		sb.WriteString("(function")
		if n.Name != "" {
			sb.WriteString(" " + n.Name)
		}
		sb.WriteString(" (")
		for i, arg := range n.Arguments {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(arg)
			if n.Defaults[i] != nil {
				sb.WriteByte('=')
				writeNode(sb, n.Defaults[i])
			}
		}
		sb.WriteByte(')')
		if n.Inherits != nil {
			sb.WriteString(" :")
			writeNode(sb, n.Inherits)
		}
		if n.IsConstructor {
			sb.WriteString(" constructor")
		}
		if n.Statics != nil {
			sb.WriteString(" (static ")
			writeNode(sb, n.Statics)
			sb.WriteByte(')')
		}
		sb.WriteByte(' ')
		writeNode(sb, n.Body)
		sb.WriteByte(')')

	case *AssignNode:
		fmt.Fprintf(sb, "(%s ", n.Operator)
		writeNode(sb, n.Destination)
		sb.WriteByte(' ')
		writeNode(sb, n.Expression)
		sb.WriteByte(')')
	case *BlockNode:
		sb.WriteString("{")
		writeNodes(sb, n.Children)
		sb.WriteString(" }")
	case *EmptyNode:
		sb.WriteString("(empty)")
	case *IfNode:
		sb.WriteString("(if")
		writeNodes(sb, []Node{n.Condition, n.True})
		if n.False != nil {
			writeNodes(sb, []Node{n.False})
		}
		sb.WriteByte(')')
	case *SwitchNode:
		sb.WriteString("(switch ")
		writeNode(sb, n.Expression)
		writeNodes(sb, n.Children)
		sb.WriteByte(')')
	case *SwitchCaseNode:
		if n.Expression == nil {
			sb.WriteString("default:")
		} else {
			sb.WriteString("case ")
			writeNode(sb, n.Expression)
			sb.WriteByte(':')
		}
	case *WhileLoopNode:
		sb.WriteString("(while")
		writeNodes(sb, []Node{n.Condition, n.Body})
		sb.WriteByte(')')
	case *ForLoopNode:
		sb.WriteString("(for")
		writeNodes(sb, []Node{n.Initializer, n.Condition, n.Incrementor, n.Body})
		sb.WriteByte(')')
	case *RepeatLoopNode:
		sb.WriteString("(repeat")
		writeNodes(sb, []Node{n.Times, n.Body})
		sb.WriteByte(')')
	case *DoUntilLoopNode:
		sb.WriteString("(do")
		writeNodes(sb, []Node{n.Body, n.Condition})
		sb.WriteByte(')')
	case *WithLoopNode:
		sb.WriteString("(with")
		writeNodes(sb, []Node{n.Target, n.Body})
		sb.WriteByte(')')
	case *TryCatchNode:
		fmt.Fprintf(sb, "(try[%s,%s] ", n.BreakVariableName, n.ContinueVariableName)
		writeNode(sb, n.Try)
		if n.Catch != nil {
			fmt.Fprintf(sb, " (catch %s ", n.CatchVariable)
			writeNode(sb, n.Catch)
			sb.WriteByte(')')
		}
		if n.Finally != nil {
			sb.WriteString(" (finally ")
			writeNode(sb, n.Finally)
			sb.WriteByte(')')
		}
		sb.WriteByte(')')
	case *ExitNode:
		sb.WriteString("(exit)")
	case *ReturnNode:
		sb.WriteString("(return")
		if n.Value != nil {
			writeNodes(sb, []Node{n.Value})
		}
		sb.WriteByte(')')
	case *BreakNode:
		writeJump(sb, "break", n.TryVariable)
	case *ContinueNode:
		writeJump(sb, "continue", n.TryVariable)
	case *ThrowNode:
		sb.WriteString("(throw ")
		writeNode(sb, n.Value)
		sb.WriteByte(')')
	case *LocalVarDeclNode:
		sb.WriteString("(var")
		for i, name := range n.Names {
			sb.WriteByte(' ')
			sb.WriteString(name)
			if n.Values[i] != nil {
				sb.WriteByte('=')
				writeNode(sb, n.Values[i])
			}
		}
		sb.WriteByte(')')
	case *GlobalVarDeclNode:
		sb.WriteString("(globalvar " + strings.Join(n.Names, " ") + ")")
	default:
		fmt.Fprintf(sb, "<%T>", n)
	}
}

func writeJump(sb *strings.Builder, keyword, tryVariable string) {
	if tryVariable == "" {
		fmt.Fprintf(sb, "(%s)", keyword)
		return
	}
	fmt.Fprintf(sb, "(%s try:%s)", keyword, tryVariable)
}

// FormatTokens renders a token sequence one token per line with its kind and
// position, for the CLI token dump
func FormatTokens(tokens []Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		line, column := tok.Context().GetLineAndColumnFromPos(tok.Pos())
		where := fmt.Sprintf("%d:%d", line, column)
		if name := tok.Context().MacroName; name != "" {
			where += " in " + name
		}
		fmt.Fprintf(&sb, "%-12s %-14s %s\n", where, tokenKind(tok), tok)
	}
	return sb.String()
}

func tokenKind(tok Token) string {
	switch t := tok.(type) {
	case *TokenSeparator:
		return "separator"
	case *TokenOperator:
		return "operator"
	case *TokenKeyword:
		return "keyword"
	case *TokenIdentifier:
		return "identifier"
	case *TokenNumber:
		if t.IsConstant {
			return "constant"
		}
		return "number"
	case *TokenInt64:
		return "int64"
	case *TokenBoolean:
		return "boolean"
	case *TokenString:
		return "string"
	case *TokenFunction:
		if t.Builtin != nil {
			return "builtin-func"
		}
		return "function"
	case *TokenVariable:
		if t.Builtin != nil {
			return "builtin-var"
		}
		return "variable"
	case *TokenAssetReference:
		return "asset"
	}
	return "?"
}
