package api

// operationDef is one top-level operation of a GraphQL document.
type operationDef struct {
	kind string
	name string
}

// operationDefs lists the operations of query in document order. Fragments
// are skipped and a bare selection set counts as an anonymous query.
func operationDefs(query string) []operationDef {
	var (
		ops        []operationDef
		pending    *operationDef
		expectName bool
		depth      int
	)
	for i := 0; i < len(query); {
		ch := query[i]
		switch {
		case ch == '#':
			for i < len(query) && query[i] != '\n' {
				i++
			}
			continue
		case ch == '"':
			i = skipString(query, i)
			continue
		case ch == '{':
			if depth == 0 {
				switch {
				case pending == nil:
					ops = append(ops, operationDef{kind: "query"})
				case pending.kind != "fragment":
					ops = append(ops, *pending)
				}
				pending, expectName = nil, false
			}
			depth++
		case ch == '}':
			if depth > 0 {
				depth--
			}
		case ch == '(' || ch == '@':
			expectName = false
		case isNameStart(ch):
			j := i + 1
			for j < len(query) && isNameContinue(query[j]) {
				j++
			}
			word := query[i:j]
			if depth == 0 {
				switch {
				case pending == nil && isDefinitionKeyword(word):
					pending, expectName = &operationDef{kind: word}, true
				case expectName:
					pending.name, expectName = word, false
				}
			}
			i = j
			continue
		}
		i++
	}
	return ops
}

// isMutation reports whether the operation selected by operationName is a
// mutation. An empty name selects the only operation of the document.
func isMutation(query, operationName string) bool {
	ops := operationDefs(query)
	for _, op := range ops {
		if (operationName == "" && len(ops) == 1) || (operationName != "" && op.name == operationName) {
			return op.kind == "mutation"
		}
	}
	return false
}

func skipString(s string, i int) int {
	if len(s) >= i+3 && s[i:i+3] == `"""` {
		for j := i + 3; j+3 <= len(s); j++ {
			if s[j] == '\\' {
				j++
				continue
			}
			if s[j:j+3] == `"""` {
				return j + 3
			}
		}
		return len(s)
	}
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '"', '\n':
			return j + 1
		}
	}
	return len(s)
}

func isDefinitionKeyword(word string) bool {
	switch word {
	case "query", "mutation", "subscription", "fragment":
		return true
	}
	return false
}

func isNameStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isNameContinue(ch byte) bool {
	return isNameStart(ch) || (ch >= '0' && ch <= '9')
}
