/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package processor

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/suparena/entitymeta/annotation"
)

// File is the YAML document declaring the entities of one namespace.
type File struct {
	Namespace string            `yaml:"namespace"`
	Imports   map[string]string `yaml:"imports"`
	Entities  []EntityNode      `yaml:"entities"`
}

type EntityNode struct {
	Class string `yaml:"class"`
	// Extends names the classes this one embeds, outermost first.
	Extends     []string         `yaml:"extends"`
	Annotations []AnnotationNode `yaml:"annotations"`
	Properties  []PropertyNode   `yaml:"properties"`
	Line        int              `yaml:"-"`
}

type PropertyNode struct {
	Name        string           `yaml:"name"`
	Annotations []AnnotationNode `yaml:"annotations"`
	Line        int              `yaml:"-"`
}

// AnnotationNode is one annotation occurrence. It is written either as a
// bare kind ("- notNull") or as a single-key mapping from the kind to its
// properties ("- column: {name: email}").
type AnnotationNode struct {
	Kind       string
	Properties annotation.Properties
	Line       int
}

// UnmarshalYAML implements custom YAML unmarshaling for AnnotationNode.
func (a *AnnotationNode) UnmarshalYAML(node *yaml.Node) error {
	a.Line = node.Line
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&a.Kind)

	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return fmt.Errorf("line %d: an annotation maps exactly one kind to its properties", node.Line)
		}
		if err := node.Content[0].Decode(&a.Kind); err != nil {
			return err
		}
		value := node.Content[1]
		if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
			return nil
		}
		if value.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: properties of %q must be a mapping", value.Line, a.Kind)
		}
		var props map[string]any
		if err := value.Decode(&props); err != nil {
			return err
		}
		a.Properties = props
		return nil

	default:
		return fmt.Errorf("line %d: expected an annotation kind or mapping, got %v", node.Line, node.Kind)
	}
}

// UnmarshalYAML records the line of the entity for error messages.
func (e *EntityNode) UnmarshalYAML(node *yaml.Node) error {
	type plain EntityNode
	if err := node.Decode((*plain)(e)); err != nil {
		return err
	}
	e.Line = node.Line
	return nil
}

// UnmarshalYAML records the line of the property for error messages.
func (p *PropertyNode) UnmarshalYAML(node *yaml.Node) error {
	type plain PropertyNode
	if err := node.Decode((*plain)(p)); err != nil {
		return err
	}
	p.Line = node.Line
	return nil
}
