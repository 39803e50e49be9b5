package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/dusk-indust/swiftgraph/internal/graph"
)

// GenerateMermaid produces a Mermaid classDiagram from a graph store.
// Entities become classes with their properties and method signatures;
// inheritance and conformance entries become arrows pointing at the named
// type, declared or not.
func GenerateMermaid(ctx context.Context, store graph.Store) (string, error) {
	entities, err := store.ListEntities(ctx)
	if err != nil {
		return "", fmt.Errorf("list entities: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("classDiagram\n")

	for _, e := range entities {
		sb.WriteString(fmt.Sprintf("  class %s {\n", mermaidID(e.Name)))
		sb.WriteString(fmt.Sprintf("    <<%s>>\n", e.Kind))
		for _, p := range e.Properties {
			sb.WriteString(fmt.Sprintf("    +%s %s\n", p.Type, p.Name))
		}
		for _, m := range e.Methods {
			sb.WriteString(fmt.Sprintf("    +%s\n", methodLabel(m)))
		}
		sb.WriteString("  }\n")
	}

	for _, e := range entities {
		for _, super := range e.InheritedTypes {
			sb.WriteString(fmt.Sprintf("  %s <|-- %s\n", mermaidID(super), mermaidID(e.Name)))
		}
		for _, proto := range e.ConformedProtocols {
			sb.WriteString(fmt.Sprintf("  %s <|.. %s\n", mermaidID(proto), mermaidID(e.Name)))
		}
	}

	return sb.String(), nil
}

// methodLabel renders a method as name(label name: Type, ...) ReturnType.
func methodLabel(m graph.Method) string {
	parts := make([]string, 0, len(m.Parameters))
	for _, p := range m.Parameters {
		s := p.InternalName
		if p.ExternalName != "" {
			s = p.ExternalName + " " + s
		}
		if p.Type != "" {
			s += ": " + p.Type
		}
		parts = append(parts, s)
	}
	label := fmt.Sprintf("%s(%s)", m.Name, strings.Join(parts, ", "))
	if m.ReturnType != "" {
		label += " " + m.ReturnType
	}
	return label
}

// mermaidID strips characters Mermaid cannot use in class identifiers.
func mermaidID(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
