package gmlfront

import "errors"

// PostProcess expands macros and reclassifies identifier tokens using the
// macro table and the game context. The raw token slice is replaced by a new
// one; individual tokens are never modified.
//
// A runaway macro expansion aborts post-processing: the diagnostic is reported
// and the context is left with no tokens.
func (lc *LexContext) PostProcess() {
	budget := lc.compile.config.MaxMacroExpansions
	expanded, err := lc.expandMacros(lc.Tokens, budget)
	if err != nil {
		var expErr *MacroExpansionError
		if errors.As(err, &expErr) {
			expErr.Token.ctx.pushError(err.Error(), expErr.Token.pos)
		} else {
			lc.pushError(err.Error(), 0)
		}
		lc.Tokens = nil
		return
	}
	lc.Tokens = lc.classify(expanded)
}

// expandMacros splices macro bodies in place of identifiers naming a macro.
// Spliced tokens are expanded again, each level of nesting spending one unit
// of budget.
func (lc *LexContext) expandMacros(tokens []Token, budget int) ([]Token, error) {
	macros := lc.compile.macros
	if macros.Len() == 0 {
		return tokens, nil
	}

	out := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		id, ok := tok.(*TokenIdentifier)
		if !ok {
			out = append(out, tok)
			continue
		}
		macro := macros.Lookup(id.Text)
		if macro == nil {
			out = append(out, tok)
			continue
		}
		if budget <= 0 {
			return nil, &MacroExpansionError{Token: id}
		}
		spliced, err := lc.expandMacros(macro.Tokens(), budget-1)
		if err != nil {
			return nil, err
		}
		out = append(out, spliced...)
	}
	return out, nil
}

// classify rewrites each identifier token into a function, asset, boolean,
// constant or variable token
func (lc *LexContext) classify(tokens []Token) []Token {
	game := lc.compile.game
	out := make([]Token, len(tokens))

	for i, tok := range tokens {
		id, ok := tok.(*TokenIdentifier)
		if !ok {
			out[i] = tok
			continue
		}
		name := id.Text

		if i+1 < len(tokens) {
			if s, ok := tokens[i+1].(*TokenSeparator); ok && s.Kind == SeparatorGroupOpen {
				out[i] = &TokenFunction{id.tokenBase, name, game.LookupBuiltinFunction(name)}
				continue
			}
		}

		if assetID, ok := game.GetAssetID(name); ok && !game.IsScriptName(name) {
			out[i] = &TokenAssetReference{id.tokenBase, name, assetID, false}
			continue
		}
		if assetID, ok := game.GetRoomInstanceAssetID(name); ok {
			out[i] = &TokenAssetReference{id.tokenBase, name, assetID, true}
			continue
		}

		if name == "true" || name == "false" {
			out[i] = &TokenBoolean{id.tokenBase, name == "true"}
			continue
		}

		if value, ok := game.LookupConstant(name); ok {
			out[i] = &TokenNumber{id.tokenBase, name, value, true}
			continue
		}

		out[i] = &TokenVariable{id.tokenBase, name, game.LookupBuiltinVariable(name)}
		game.OnParseNameIdentifier(name)
	}
	return out
}
