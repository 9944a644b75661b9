package decision

import (
	"encoding/json"
	"fmt"
	"time"
)

// Contract is the serialization projection of a Decision: the form handed
// across process boundaries and written to audit records. Every field
// round-trips losslessly through JSON.
type Contract struct {
	DecisionID     string            `json:"decision_id"`
	ActionID       string            `json:"action_id"`
	ActionType     string            `json:"action_type"`
	ActionTarget   string            `json:"action_target"`
	ActionMetadata map[string]string `json:"action_metadata,omitempty"`
	PolicyID       string            `json:"policy_id"`
	Result         Result            `json:"result"`
	Reason         string            `json:"reason"`
	Suggestion     string            `json:"suggestion,omitempty"`
	Alternative    map[string]string `json:"alternative,omitempty"`
	Severity       Severity          `json:"severity"`
	Timestamp      time.Time         `json:"timestamp"`
}

// ToContract projects the decision into its boundary form. Maps are
// copied; the returned contract shares nothing mutable with the decision.
func (d *Decision) ToContract() *Contract {
	c := &Contract{
		DecisionID:   d.DecisionID,
		ActionID:     d.ActionID,
		ActionType:   d.ActionType,
		ActionTarget: d.ActionTarget,
		PolicyID:     d.PolicyID,
		Result:       d.Result,
		Reason:       d.Reason,
		Suggestion:   d.Suggestion,
		Severity:     d.Severity,
		Timestamp:    d.Timestamp,
	}
	if len(d.ActionMetadata) > 0 {
		c.ActionMetadata = make(map[string]string, len(d.ActionMetadata))
		for k, v := range d.ActionMetadata {
			c.ActionMetadata[k] = v
		}
	}
	if len(d.Alternative) > 0 {
		c.Alternative = make(map[string]string, len(d.Alternative))
		for k, v := range d.Alternative {
			c.Alternative[k] = v
		}
	}
	return c
}

// Marshal renders the contract as its JSON wire form.
func (c *Contract) Marshal() ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal decision contract %s: %w", c.DecisionID, err)
	}
	return data, nil
}

// ParseContract parses a wire-form contract produced by Marshal.
func ParseContract(data []byte) (*Contract, error) {
	var c Contract
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse decision contract: %w", err)
	}
	return &c, nil
}
