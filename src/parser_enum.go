package gmlfront

import "fmt"

// EnumDeclaration is an enum as parsed, before its values are resolved
type EnumDeclaration struct {
	Name         string
	Token        Token
	Values       []string
	ValueTokens  map[string]Token
	Initializers map[string]Node
	Resolved     map[string]int64
}

// EnumValue is one resolved enum member
type EnumValue struct {
	Name  string
	Value int64
}

// Enum is a resolved enum, immutable once defined on a compile context
type Enum struct {
	Name   string
	Values []EnumValue
}

// Lookup returns the value of a member
func (e *Enum) Lookup(name string) (int64, bool) {
	for _, v := range e.Values {
		if v.Name == name {
			return v.Value, true
		}
	}
	return 0, false
}

// parseEnum parses "enum Name { A, B = expr, ... }" into a pending
// declaration. The statement itself produces an empty node.
func (pc *ParseContext) parseEnum() Node {
	enumTok := pc.Advance()
	nameTok := pc.Peek()
	name, ok := tokenName(nameTok)
	if !ok {
		pc.PushError(fmt.Sprintf("expected enum name, got %s", pc.describeCurrent()), nameTok)
		return nil
	}
	pc.Advance()
	if !pc.EnsureSeparator(SeparatorBlockOpen) {
		return nil
	}

	decl := &EnumDeclaration{
		Name:         name,
		Token:        nameTok,
		ValueTokens:  make(map[string]Token),
		Initializers: make(map[string]Node),
		Resolved:     make(map[string]int64),
	}

	for !pc.IsCurrentSeparator(SeparatorBlockClose) {
		valueTok := pc.Peek()
		valueName, ok := tokenName(valueTok)
		if !ok {
			pc.PushError(fmt.Sprintf("expected enum value name, got %s", pc.describeCurrent()), valueTok)
			return nil
		}
		pc.Advance()

		var init Node
		if pc.IsCurrentOperator(OperatorAssign) || pc.IsCurrentOperator(OperatorAssign2) {
			pc.Advance()
			if init = pc.ParseExpression(); init == nil {
				return nil
			}
		}

		if _, dup := decl.ValueTokens[valueName]; dup {
			pc.PushError(fmt.Sprintf("duplicate enum value name \"%s\" in enum \"%s\"", valueName, name), valueTok)
		} else {
			decl.Values = append(decl.Values, valueName)
			decl.ValueTokens[valueName] = valueTok
			if init != nil {
				decl.Initializers[valueName] = init
			}
		}

		if !pc.IsCurrentSeparator(SeparatorComma) {
			break
		}
		pc.Advance()
	}
	if !pc.EnsureSeparator(SeparatorBlockClose) {
		return nil
	}

	if _, dup := pc.enumDeclarations[name]; dup || pc.compile.Enum(name) != nil {
		pc.PushError(fmt.Sprintf("duplicate enum name \"%s\"", name), nameTok)
		return &EmptyNode{nodeBase{enumTok}}
	}
	pc.enumDeclarations[name] = decl
	pc.enumOrder = append(pc.enumOrder, name)
	return &EmptyNode{nodeBase{enumTok}}
}

func (pc *ParseContext) enumResolver(current *EnumDeclaration) constResolver {
	return constResolver{
		bare: func(name string) (int64, bool) {
			v, ok := current.Resolved[name]
			return v, ok
		},
		member: func(enum, name string) (int64, bool) {
			if decl, ok := pc.enumDeclarations[enum]; ok {
				v, ok := decl.Resolved[name]
				return v, ok
			}
			if e := pc.compile.Enum(enum); e != nil {
				return e.Lookup(name)
			}
			return 0, false
		},
	}
}

func (pc *ParseContext) foldEnumInitializer(decl *EnumDeclaration, init Node) (int64, bool) {
	v, ok := foldConstant(init, pc.enumResolver(decl))
	if !ok {
		return 0, false
	}
	return v.integer()
}

// ResolveEnums assigns values to every enum declared in the code entry and
// defines the results on the compile context.
//
// The first pass walks each enum in order, resolving members whose
// initializer folds and counting up from the last resolved value; an
// initializer that does not fold stops the count until the next one that
// does. The second pass retries the members left over, which picks up
// references to members resolved later in the first pass. Members that still
// do not fold are reported and take the running counter as a placeholder.
func (pc *ParseContext) ResolveEnums() {
	logger := pc.compile.logger

	for _, name := range pc.enumOrder {
		decl := pc.enumDeclarations[name]
		counter := int64(0)
		counting := true
		for _, valueName := range decl.Values {
			if init, ok := decl.Initializers[valueName]; ok {
				v, folded := pc.foldEnumInitializer(decl, init)
				counting = folded
				if !folded {
					continue
				}
				counter = v
			} else if !counting {
				continue
			}
			decl.Resolved[valueName] = counter
			counter++
		}
	}

	for _, name := range pc.enumOrder {
		decl := pc.enumDeclarations[name]
		counter := int64(0)
		for _, valueName := range decl.Values {
			if v, ok := decl.Resolved[valueName]; ok {
				counter = v + 1
				continue
			}
			if init, ok := decl.Initializers[valueName]; ok {
				if v, folded := pc.foldEnumInitializer(decl, init); folded {
					counter = v
				} else {
					pc.PushError(fmt.Sprintf("cannot resolve value of enum member %s.%s", name, valueName), decl.ValueTokens[valueName])
				}
			}
			decl.Resolved[valueName] = counter
			counter++
		}
	}

	for _, name := range pc.enumOrder {
		decl := pc.enumDeclarations[name]
		enum := &Enum{Name: name, Values: make([]EnumValue, 0, len(decl.Values))}
		for _, valueName := range decl.Values {
			enum.Values = append(enum.Values, EnumValue{valueName, decl.Resolved[valueName]})
		}
		if !pc.compile.defineEnum(enum) {
			pc.PushError(fmt.Sprintf("duplicate enum name \"%s\"", name), decl.Token)
			continue
		}
		logger.DebugCat(CatEnum, "Resolved enum %s (%d values)", name, len(enum.Values))
	}

	pc.enumDeclarations = make(map[string]*EnumDeclaration)
	pc.enumOrder = nil
}

// PostProcessTree replaces references to resolved enum members with literal
// nodes and returns the rewritten tree. A member used as the target of an
// assignment or increment is reported and left in place.
func (pc *ParseContext) PostProcessTree(root Node) Node {
	targets := make(map[*DotVariableNode]bool)
	Inspect(root, func(n Node) bool {
		var dest Node
		switch n := n.(type) {
		case *AssignNode:
			dest = n.Destination
		case *PrefixNode:
			dest = n.Expression
		case *PostfixNode:
			dest = n.Expression
		}
		if dot, ok := dest.(*DotVariableNode); ok {
			targets[dot] = true
		}
		return true
	})

	return Transform(root, func(n Node) Node {
		dot, ok := n.(*DotVariableNode)
		if !ok {
			return n
		}
		left, ok := dot.Left.(*SimpleVariableNode)
		if !ok || left.Storage != StorageDefault {
			return n
		}
		enum := pc.compile.Enum(left.Name)
		if enum == nil {
			return n
		}
		v, ok := enum.Lookup(dot.Name)
		if !ok {
			pc.PushError(fmt.Sprintf("enum \"%s\" has no member \"%s\"", enum.Name, dot.Name), dot.NearbyToken())
			return n
		}
		if targets[dot] {
			pc.PushError(fmt.Sprintf("cannot assign to enum member %s.%s", enum.Name, dot.Name), dot.NearbyToken())
			return n
		}
		return constantNode(dot.nodeBase, enum.Name+"."+dot.Name, v)
	})
}
