package compiler

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// AnnotationText returns the written type of a declaration's "type" field
// without the leading colon, or "" when there is none.
func (f *File) AnnotationText(n *sitter.Node) string {
	return f.annotation(n.ChildByFieldName("type"))
}

func (f *File) annotation(ann *sitter.Node) string {
	if ann == nil {
		return ""
	}
	text := f.Text(ann)
	if ann.Type() == KindTypeAnnotation {
		text = strings.TrimPrefix(strings.TrimSpace(text), ":")
	}
	return strings.TrimSpace(text)
}

// InitializerType infers the type of a declaration's initializer from its
// literal shape. It returns "" when the initializer is absent or not a
// literal the inference understands.
func (f *File) InitializerType(n *sitter.Node) string {
	v := n.ChildByFieldName("value")
	if v == nil {
		return ""
	}
	switch v.Type() {
	case "number":
		return "number"
	case "string", "template_string":
		return "string"
	case "true", "false":
		return "boolean"
	case "null":
		return "null"
	case "undefined":
		return "undefined"
	case "regex":
		return "RegExp"
	case "array":
		return "any[]"
	case "object":
		return "{}"
	case "arrow_function", "function_expression", "function":
		return f.SignatureText(v)
	case "new_expression":
		if c := v.ChildByFieldName("constructor"); c != nil {
			return f.Text(c)
		}
	}
	return ""
}

// SignatureText renders a callable declaration as a function type,
// e.g. "(a: number) => string". A missing return annotation renders as
// "any", or "Promise<any>" for async declarations.
func (f *File) SignatureText(n *sitter.Node) string {
	var b strings.Builder
	if tp := n.ChildByFieldName("type_parameters"); tp != nil {
		b.WriteString(f.Text(tp))
	}
	params := "()"
	if p := n.ChildByFieldName("parameters"); p != nil {
		params = f.Text(p)
	}
	b.WriteString(params)
	b.WriteString(" => ")
	ret := f.annotation(n.ChildByFieldName("return_type"))
	if ret == "" {
		ret = "any"
		if f.FirstModifier(n, KeywordAsync) != nil {
			ret = "Promise<any>"
		}
	}
	b.WriteString(ret)
	return b.String()
}

// TypeParametersText returns the written type parameter list, e.g. "<T>".
func (f *File) TypeParametersText(n *sitter.Node) string {
	if tp := n.ChildByFieldName("type_parameters"); tp != nil {
		return f.Text(tp)
	}
	return ""
}

// AliasedText returns the right-hand side of a type alias.
func (f *File) AliasedText(n *sitter.Node) string {
	return strings.TrimSpace(f.Text(n.ChildByFieldName("value")))
}

// NameText returns the text of a declaration's "name" field.
func (f *File) NameText(n *sitter.Node) string {
	return f.Text(n.ChildByFieldName("name"))
}
