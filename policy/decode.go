package policy

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Reserved chain and rule keys. All other rule keys are match criteria.
const (
	keyDefault           = "default"
	keyDefaultRuleAction = "default_rule_action"
	keyRules             = "rules"
	keyAction            = "action"
	keyActionOptions     = "action_options"
)

// Parse decodes a YAML policy document. Empty input yields an empty Document.
func Parse(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed parsing policy: %w", err)
	}

	doc := &Document{}
	if root.Kind == 0 {
		return doc, nil
	}
	if err := doc.UnmarshalYAML(&root); err != nil {
		return nil, err
	}

	return doc, nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface. It walks the node
// tree directly, since decoding into Go maps would lose the authored order.
func (d *Document) UnmarshalYAML(node *yaml.Node) error {
	node = resolve(node)
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil
		}
		node = resolve(node.Content[0])
	}
	if isNull(node) {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return malformedDoc("", "", "policy must be a mapping of tables (line %d)", node.Line)
	}

	tables := make([]*Table, 0, len(node.Content)/2)
	seen := make(map[string]struct{})
	for i := 0; i < len(node.Content); i += 2 {
		name := node.Content[i].Value
		if err := CheckName(name); err != nil {
			return malformedDoc(name, "", "invalid table (line %d): %s", node.Content[i].Line, err)
		}
		if _, ok := seen[name]; ok {
			return malformedDoc(name, "", "table declared more than once (line %d)", node.Content[i].Line)
		}
		seen[name] = struct{}{}

		t, err := decodeTable(name, resolve(node.Content[i+1]))
		if err != nil {
			return err
		}
		tables = append(tables, t)
	}
	d.Tables = tables

	return nil
}

func decodeTable(name string, node *yaml.Node) (*Table, error) {
	t := &Table{Name: name}
	if isNull(node) {
		return t, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, malformedDoc(name, "", "table must be a mapping of chains (line %d)", node.Line)
	}

	seen := make(map[string]string)
	for i := 0; i < len(node.Content); i += 2 {
		chainName := node.Content[i].Value
		if err := checkChainName(chainName); err != nil {
			return nil, malformedDoc(name, chainName, "invalid chain (line %d): %s", node.Content[i].Line, err)
		}
		if prev, ok := seen[ChainName(chainName)]; ok {
			return nil, &Error{
				Kind: KindDuplicateChain, Table: name, Chain: chainName,
				Msg: fmt.Sprintf("chain '%s' conflicts with chain '%s'", chainName, prev),
			}
		}
		seen[ChainName(chainName)] = chainName

		c, err := decodeChain(name, chainName, resolve(node.Content[i+1]))
		if err != nil {
			return nil, err
		}
		t.Chains = append(t.Chains, c)
	}

	return t, nil
}

func decodeChain(table, name string, node *yaml.Node) (*Chain, error) {
	c := &Chain{Name: name}
	if isNull(node) {
		return c, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, malformedDoc(table, name, "chain must be a mapping (line %d)", node.Line)
	}

	for i := 0; i < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, resolve(node.Content[i+1])
		switch key {
		case keyDefault, keyDefaultRuleAction:
			if val.Kind != yaml.ScalarNode || isNull(val) {
				return nil, malformedDoc(table, name, "'%s' must be a verdict (line %d)", key, val.Line)
			}
			if err := CheckName(val.Value); err != nil {
				return nil, malformedDoc(table, name, "invalid '%s' (line %d): %s", key, val.Line, err)
			}
			if key == keyDefault {
				c.Default = val.Value
			} else {
				c.DefaultRuleAction = val.Value
			}
		case keyRules:
			if isNull(val) {
				continue
			}
			if val.Kind != yaml.SequenceNode {
				return nil, malformedDoc(table, name, "'rules' must be a sequence (line %d)", val.Line)
			}
			for j, rn := range val.Content {
				r, err := decodeRule(resolve(rn))
				if err != nil {
					return nil, malformedRule(table, name, j+1, "%s", err)
				}
				c.Rules = append(c.Rules, r)
			}
		default:
			return nil, malformedDoc(table, name, "unknown chain field '%s' (line %d)", key, node.Content[i].Line)
		}
	}

	return c, nil
}

func decodeRule(node *yaml.Node) (*Rule, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("rule must be a mapping (line %d)", node.Line)
	}

	r := &Rule{}
	for i := 0; i < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, resolve(node.Content[i+1])
		switch key {
		case keyAction:
			if val.Kind != yaml.ScalarNode || isNull(val) || CheckName(val.Value) != nil {
				return nil, fmt.Errorf("'action' must be a verdict or chain name (line %d)", val.Line)
			}
			r.Action = val.Value
		case keyActionOptions:
			if isNull(val) {
				continue
			}
			if val.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("'action_options' must be a mapping (line %d)", val.Line)
			}
			for j := 0; j < len(val.Content); j += 2 {
				p, err := decodeParam(val.Content[j].Value, resolve(val.Content[j+1]))
				if err != nil {
					return nil, fmt.Errorf("invalid action option: %w", err)
				}
				r.ActionOptions = append(r.ActionOptions, p)
			}
		default:
			p, err := decodeParam(key, val)
			if err != nil {
				return nil, fmt.Errorf("invalid match: %w", err)
			}
			r.Match = append(r.Match, p)
		}
	}

	return r, nil
}

// decodeParam converts a rule entry into a Param. Scalars are used as is,
// sequences of scalars are joined with commas, and null or empty values yield
// a bare flag.
func decodeParam(key string, val *yaml.Node) (Param, error) {
	if err := CheckName(key); err != nil {
		return Param{}, fmt.Errorf("invalid key (line %d): %w", val.Line, err)
	}

	switch val.Kind {
	case yaml.ScalarNode:
		if isNull(val) || val.Value == "" {
			return Flag(key), nil
		}
		if err := CheckValue(val.Value); err != nil {
			return Param{}, fmt.Errorf("invalid '%s' (line %d): %w", key, val.Line, err)
		}
		return P(key, val.Value), nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(val.Content))
		for _, item := range val.Content {
			item = resolve(item)
			if item.Kind != yaml.ScalarNode {
				return Param{}, fmt.Errorf("'%s' must be a scalar or a list of scalars (line %d)", key, item.Line)
			}
			if err := CheckValue(item.Value); err != nil {
				return Param{}, fmt.Errorf("invalid '%s' (line %d): %w", key, item.Line, err)
			}
			items = append(items, item.Value)
		}
		if len(items) == 0 {
			return Flag(key), nil
		}
		return P(key, strings.Join(items, ",")), nil
	}

	return Param{}, fmt.Errorf("'%s' must be a scalar or a list of scalars (line %d)", key, val.Line)
}

func resolve(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}
