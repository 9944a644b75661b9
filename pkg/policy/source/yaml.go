package source

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"arbiter-hq/gavel/pkg/policy"
)

// yamlDoc is the top-level shape of a rule file. Rules stay as raw nodes
// so each definition keeps its line number for diagnostics.
type yamlDoc struct {
	Rules []yaml.Node `yaml:"rules"`
}

// yamlRule is the intermediate form of one rule definition. Conditions
// stay as a raw node and are walked key by key: the operator set is
// closed, and keys outside it are preserved as unknown rather than
// decoded or rejected.
type yamlRule struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Severity    string    `yaml:"severity"`
	Conditions  yaml.Node `yaml:"conditions"`
}

// parseRules parses one YAML rule file into policies. Semantic validation
// (field requirements, ID uniqueness) is the registry's job; this layer
// only enforces document structure.
func parseRules(data []byte, filePath string) ([]*policy.Policy, error) {
	var doc yamlDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, NewLoadError(filePath, "invalid YAML", err)
	}
	if len(doc.Rules) == 0 {
		return nil, NewLoadError(filePath, "no rule definitions (missing or empty rules list)", nil)
	}

	policies := make([]*policy.Policy, 0, len(doc.Rules))
	for i := range doc.Rules {
		node := &doc.Rules[i]

		var def yamlRule
		if err := node.Decode(&def); err != nil {
			return nil, &LoadError{
				FilePath: filePath,
				Line:     node.Line,
				Message:  fmt.Sprintf("malformed rule definition %d", i+1),
				Cause:    err,
			}
		}

		conditions, err := parseConditions(&def.Conditions, filePath)
		if err != nil {
			return nil, err
		}

		policies = append(policies, &policy.Policy{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Severity:    policy.Severity(def.Severity),
			Conditions:  *conditions,
			SourceFile:  filePath,
			Line:        node.Line,
		})
	}

	return policies, nil
}

// parseConditions walks the conditions mapping and dispatches each key to
// its operator field. Unrecognized keys land in Unknown.
func parseConditions(node *yaml.Node, filePath string) (*policy.Conditions, error) {
	c := &policy.Conditions{}

	// Absent conditions parse to the empty set; the registry rejects it
	// during validation with a better message than a parse error gives.
	if node.Kind == 0 || node.Tag == "!!null" {
		return c, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, &LoadError{
			FilePath: filePath,
			Line:     node.Line,
			Message:  "conditions must be a mapping of operator keys",
		}
	}

	seen := make(map[string]bool)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		key := keyNode.Value

		if seen[key] {
			return nil, &LoadError{
				FilePath: filePath,
				Line:     keyNode.Line,
				Message:  fmt.Sprintf("condition key %q listed twice", key),
			}
		}
		seen[key] = true

		var err error
		switch key {
		case policy.KeyActionType:
			c.ActionType, err = decodeString(valNode)
		case policy.KeyActionTypePrefix:
			c.ActionTypePrefix, err = decodeString(valNode)
		case policy.KeyTarget:
			c.Target, err = decodeString(valNode)
		case policy.KeyTargetContains:
			c.TargetContains, err = decodeString(valNode)
		case policy.KeyTargetRegex:
			c.TargetRegex, err = decodeString(valNode)
		case policy.KeyMetadataPresent:
			c.MetadataPresent, err = decodeStringList(valNode)
		case policy.KeyMetadataEquals:
			err = valNode.Decode(&c.MetadataEquals)
		case policy.KeyMetadataGT:
			err = valNode.Decode(&c.MetadataGT)
		case policy.KeyMetadataIn:
			err = valNode.Decode(&c.MetadataIn)
		case policy.KeyMetadataNotIn:
			err = valNode.Decode(&c.MetadataNotIn)
		case policy.KeyAlways:
			var b bool
			if err = valNode.Decode(&b); err == nil && !b {
				err = fmt.Errorf("always must be true when listed; omit the key instead")
			}
			c.Always = b
		default:
			c.Unknown = append(c.Unknown, key)
		}

		if err != nil {
			return nil, &LoadError{
				FilePath: filePath,
				Line:     valNode.Line,
				Message:  fmt.Sprintf("invalid value for condition %q", key),
				Cause:    err,
			}
		}
	}

	return c, nil
}

func decodeString(node *yaml.Node) (*string, error) {
	var s string
	if err := node.Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// decodeStringList accepts either a single scalar or a sequence.
func decodeStringList(node *yaml.Node) ([]string, error) {
	if node.Kind == yaml.ScalarNode {
		var s string
		if err := node.Decode(&s); err != nil {
			return nil, err
		}
		return []string{s}, nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return nil, err
	}
	return list, nil
}
