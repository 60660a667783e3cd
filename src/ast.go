package gmlfront

// Node is an AST node. The set of implementations is closed; switch on the
// concrete type. A node owns its children; NearbyToken is the token the node
// was built from and is only used for diagnostics.
type Node interface {
	NearbyToken() Token
	node()
}

type nodeBase struct {
	token Token
}

func (n nodeBase) NearbyToken() Token { return n.token }
func (nodeBase) node() {}

// StorageKind is the variable storage class a name resolves to
type StorageKind uint8

const (
	StorageDefault StorageKind = iota
	StorageLocal
	StorageStatic
	StorageGlobal
)

func (s StorageKind) String() string {
	switch s {
	case StorageLocal:
		return "local"
	case StorageStatic:
		return "static"
	case StorageGlobal:
		return "global"
	}
	return "self"
}

// AccessorKind is the sigil an array accessor was written with
type AccessorKind uint8

const (
	AccessorArray AccessorKind = iota
	AccessorList
	AccessorMap
	AccessorGrid
	AccessorDirect
	AccessorStruct
)

var accessorOpen = map[SeparatorKind]AccessorKind{
	SeparatorArrayOpen:       AccessorArray,
	SeparatorArrayListOpen:   AccessorList,
	SeparatorArrayMapOpen:    AccessorMap,
	SeparatorArrayGridOpen:   AccessorGrid,
	SeparatorArrayDirectOpen: AccessorDirect,
	SeparatorArrayStructOpen: AccessorStruct,
}

func (k AccessorKind) String() string {
	return [...]string{"[", "[|", "[?", "[#", "[@", "[$"}[k]
}

// Leaf literals

type NumberNode struct {
	nodeBase
	Value float64
	// Name is set when the value came from a named constant or enum member
	Name string
}

type Int64Node struct {
	nodeBase
	Value int64
}

type BooleanNode struct {
	nodeBase
	Value bool
}

type StringNode struct {
	nodeBase
	Value string
}

type AssetReferenceNode struct {
	nodeBase
	Name           string
	AssetID        int32
	IsRoomInstance bool
}

type SimpleVariableNode struct {
	nodeBase
	Name    string
	Builtin *BuiltinVariable
	Storage StorageKind
}

// Operators

type UnaryNode struct {
	nodeBase
	Operator   OperatorKind
	Expression Node
}

type PrefixNode struct {
	nodeBase
	Operator    OperatorKind
	Expression  Node
	IsStatement bool
}

type PostfixNode struct {
	nodeBase
	Operator    OperatorKind
	Expression  Node
	IsStatement bool
}

// BinaryChainNode is a run of same-precedence binary operators kept flat:
// len(Arguments) == len(Operations)+1, both in source order.
type BinaryChainNode struct {
	nodeBase
	Arguments  []Node
	Operations []OperatorKind
}

type ConditionalNode struct {
	nodeBase
	Condition Node
	True      Node
	False     Node
}

type NullishCoalesceNode struct {
	nodeBase
	Left  Node
	Right Node
}

// Access and calls

type AccessorNode struct {
	nodeBase
	Expression Node
	Kind       AccessorKind
	Accessor   Node
	// Accessor2 is the second index of a grid accessor
	Accessor2 Node
}

type DotVariableNode struct {
	nodeBase
	Left    Node
	Name    string
	Builtin *BuiltinVariable
}

type SimpleFunctionCallNode struct {
	nodeBase
	Name        string
	Builtin     *BuiltinFunction
	Arguments   []Node
	IsStatement bool
}

// FunctionCallNode calls the result of an arbitrary expression
type FunctionCallNode struct {
	nodeBase
	Expression  Node
	Arguments   []Node
	IsStatement bool
}

type NewObjectNode struct {
	nodeBase
	Constructor Node
	Arguments   []Node
	IsStatement bool
}

// Literals with children

type ArrayInitNode struct {
	nodeBase
	Elements []Node
}

type StructNode struct {
	nodeBase
	Keys   []string
	Values []Node
}

type FunctionDeclNode struct {
	nodeBase
	Name          string
	Arguments     []string
	Defaults      []Node // parallel to Arguments; nil entries have no default
	IsConstructor bool
	Inherits      Node
	Body          Node
	// Statics is the static initializer block, if the body declared any
	Statics Node
	Scope   *FunctionScope
}

// Statements

type AssignNode struct {
	nodeBase
	Operator    OperatorKind
	Destination Node
	Expression  Node
}

type BlockNode struct {
	nodeBase
	Children []Node
}

type EmptyNode struct {
	nodeBase
}

type IfNode struct {
	nodeBase
	Condition Node
	True      Node
	False     Node
}

// SwitchNode holds case labels interleaved with the statements they guard
type SwitchNode struct {
	nodeBase
	Expression Node
	Children   []Node
}

// SwitchCaseNode is a case label; a nil Expression is the default label
type SwitchCaseNode struct {
	nodeBase
	Expression Node
}

type WhileLoopNode struct {
	nodeBase
	Condition Node
	Body      Node
}

type ForLoopNode struct {
	nodeBase
	Initializer Node
	Condition   Node
	Incrementor Node
	Body        Node
}

type RepeatLoopNode struct {
	nodeBase
	Times Node
	Body  Node
}

type DoUntilLoopNode struct {
	nodeBase
	Body      Node
	Condition Node
}

type WithLoopNode struct {
	nodeBase
	Target Node
	Body   Node
}

type TryCatchNode struct {
	nodeBase
	Try           Node
	CatchVariable string
	Catch         Node
	Finally       Node

	BreakVariableName        string
	ContinueVariableName     string
	HasBreakContinueVariable bool
}

type ExitNode struct {
	nodeBase
}

type ReturnNode struct {
	nodeBase
	Value Node
}

type BreakNode struct {
	nodeBase
	// TryVariable is set when the break must leave an enclosing try statement
	TryVariable string
}

type ContinueNode struct {
	nodeBase
	TryVariable string
}

type ThrowNode struct {
	nodeBase
	Value             Node
	FinallyGeneration bool
}

type LocalVarDeclNode struct {
	nodeBase
	Names  []string
	Values []Node // parallel to Names; nil entries are declared without a value
}

type GlobalVarDeclNode struct {
	nodeBase
	Names []string
}

// isAssignable reports whether n may appear on the left of an assignment
// or under ++/--
func isAssignable(n Node) bool {
	switch n.(type) {
	case *SimpleVariableNode, *AccessorNode, *DotVariableNode:
		return true
	}
	return false
}

// markStatement flags a node as a bare expression statement. It reports
// false for nodes that cannot stand alone.
func markStatement(n Node) bool {
	switch n := n.(type) {
	case *SimpleFunctionCallNode:
		n.IsStatement = true
	case *FunctionCallNode:
		n.IsStatement = true
	case *NewObjectNode:
		n.IsStatement = true
	case *PrefixNode:
		n.IsStatement = true
	case *PostfixNode:
		n.IsStatement = true
	default:
		return false
	}
	return true
}

// forEachChild calls fn with a pointer to every child slot of n, so that
// callers can replace children in place
func forEachChild(n Node, fn func(*Node)) {
	each := func(nodes []Node) {
		for i := range nodes {
			fn(&nodes[i])
		}
	}
	switch n := n.(type) {
	case *UnaryNode:
		fn(&n.Expression)
	case *PrefixNode:
		fn(&n.Expression)
	case *PostfixNode:
		fn(&n.Expression)
	case *BinaryChainNode:
		each(n.Arguments)
	case *ConditionalNode:
		fn(&n.Condition)
		fn(&n.True)
		fn(&n.False)
	case *NullishCoalesceNode:
		fn(&n.Left)
		fn(&n.Right)
	case *AccessorNode:
		fn(&n.Expression)
		fn(&n.Accessor)
		fn(&n.Accessor2)
	case *DotVariableNode:
		fn(&n.Left)
	case *SimpleFunctionCallNode:
		each(n.Arguments)
	case *FunctionCallNode:
		fn(&n.Expression)
		each(n.Arguments)
	case *NewObjectNode:
		fn(&n.Constructor)
		each(n.Arguments)
	case *ArrayInitNode:
		each(n.Elements)
	case *StructNode:
		each(n.Values)
	case *FunctionDeclNode:
		each(n.Defaults)
		fn(&n.Inherits)
		fn(&n.Statics)
		fn(&n.Body)
	case *AssignNode:
		fn(&n.Destination)
		fn(&n.Expression)
	case *BlockNode:
		each(n.Children)
	case *IfNode:
		fn(&n.Condition)
		fn(&n.True)
		fn(&n.False)
	case *SwitchNode:
		fn(&n.Expression)
		each(n.Children)
	case *SwitchCaseNode:
		fn(&n.Expression)
	case *WhileLoopNode:
		fn(&n.Condition)
		fn(&n.Body)
	case *ForLoopNode:
		fn(&n.Initializer)
		fn(&n.Condition)
		fn(&n.Incrementor)
		fn(&n.Body)
	case *RepeatLoopNode:
		fn(&n.Times)
		fn(&n.Body)
	case *DoUntilLoopNode:
		fn(&n.Body)
		fn(&n.Condition)
	case *WithLoopNode:
		fn(&n.Target)
		fn(&n.Body)
	case *TryCatchNode:
		fn(&n.Try)
		fn(&n.Catch)
		fn(&n.Finally)
	case *ReturnNode:
		fn(&n.Value)
	case *ThrowNode:
		fn(&n.Value)
	case *LocalVarDeclNode:
		each(n.Values)
	}
}

// Inspect traverses the tree depth-first, calling fn for each non-nil node.
// Children are skipped when fn returns false.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	forEachChild(n, func(child *Node) {
		Inspect(*child, fn)
	})
}

// Transform rewrites the tree bottom-up, replacing each node with fn's result.
// Replacements are stored into the child fields of n, so the input tree is
// modified in place; the returned node is its new root.
func Transform(n Node, fn func(Node) Node) Node {
	if n == nil {
		return nil
	}
	forEachChild(n, func(child *Node) {
		if *child != nil {
			*child = Transform(*child, fn)
		}
	})
	return fn(n)
}
