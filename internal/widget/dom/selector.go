package dom

import "strings"

// The selector dialect covers what storefront themes actually need: tag
// names, class shorthand, attribute presence, exact and substring attribute
// matches, descendant chains, and comma-separated alternatives.

type attrOp int

const (
	attrPresent attrOp = iota
	attrEquals
	attrContains
)

type attrMatch struct {
	name  string
	op    attrOp
	value string
}

type simpleSelector struct {
	tag     string
	classes []string
	attrs   []attrMatch
}

// compoundSelector is a descendant chain, outermost first.
type compoundSelector []simpleSelector

func compileSelectorList(s string) []compoundSelector {
	var list []compoundSelector
	for _, alt := range strings.Split(s, ",") {
		alt = strings.TrimSpace(alt)
		if alt == "" {
			continue
		}
		var chain compoundSelector
		valid := true
		for _, token := range strings.Fields(alt) {
			simple, ok := parseSimple(token)
			if !ok {
				valid = false
				break
			}
			chain = append(chain, simple)
		}
		if valid && len(chain) > 0 {
			list = append(list, chain)
		}
	}
	return list
}

func parseSimple(token string) (simpleSelector, bool) {
	var sel simpleSelector
	i := 0
	for i < len(token) && token[i] != '.' && token[i] != '[' {
		i++
	}
	sel.tag = strings.ToLower(token[:i])

	for i < len(token) {
		switch token[i] {
		case '.':
			j := i + 1
			for j < len(token) && token[j] != '.' && token[j] != '[' {
				j++
			}
			if j == i+1 {
				return simpleSelector{}, false
			}
			sel.classes = append(sel.classes, token[i+1:j])
			i = j
		case '[':
			end := strings.IndexByte(token[i:], ']')
			if end < 0 {
				return simpleSelector{}, false
			}
			match, ok := parseAttrMatch(token[i+1 : i+end])
			if !ok {
				return simpleSelector{}, false
			}
			sel.attrs = append(sel.attrs, match)
			i += end + 1
		default:
			return simpleSelector{}, false
		}
	}
	return sel, true
}

func parseAttrMatch(body string) (attrMatch, bool) {
	if body == "" {
		return attrMatch{}, false
	}
	if name, value, ok := strings.Cut(body, "*="); ok {
		return attrMatch{name: strings.ToLower(name), op: attrContains, value: unquote(value)}, name != ""
	}
	if name, value, ok := strings.Cut(body, "="); ok {
		return attrMatch{name: strings.ToLower(name), op: attrEquals, value: unquote(value)}, name != ""
	}
	return attrMatch{name: strings.ToLower(body), op: attrPresent}, true
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func (e *Element) matchesAny(selectors []compoundSelector) bool {
	for _, chain := range selectors {
		if e.matchesChain(chain) {
			return true
		}
	}
	return false
}

func (e *Element) matchesChain(chain compoundSelector) bool {
	if len(chain) == 0 {
		return false
	}
	if !e.matchesSimple(chain[len(chain)-1]) {
		return false
	}
	remaining := chain[:len(chain)-1]
	ancestor := e.Parent()
	for len(remaining) > 0 {
		if ancestor == nil {
			return false
		}
		if ancestor.matchesSimple(remaining[len(remaining)-1]) {
			remaining = remaining[:len(remaining)-1]
		}
		ancestor = ancestor.Parent()
	}
	return true
}

func (e *Element) matchesSimple(sel simpleSelector) bool {
	if e == nil || e.node == nil {
		return false
	}
	if sel.tag != "" && sel.tag != e.Tag() {
		return false
	}
	for _, class := range sel.classes {
		if !e.HasClass(class) {
			return false
		}
	}
	for _, match := range sel.attrs {
		value := e.Attr(match.name)
		switch match.op {
		case attrPresent:
			if !e.HasAttr(match.name) {
				return false
			}
		case attrEquals:
			if value != match.value {
				return false
			}
		case attrContains:
			if match.value == "" || !strings.Contains(value, match.value) {
				return false
			}
		}
	}
	return true
}
