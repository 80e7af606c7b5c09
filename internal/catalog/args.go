package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Args is a validated, typed set of tool arguments. Each tool has exactly
// one Args variant.
type Args interface {
	Tool() Name
}

// GetAlertsArgs are the arguments of get_alerts.
type GetAlertsArgs struct {
	Severity  string `json:"severity,omitempty"`
	Limit     int    `json:"limit"`
	Timeframe string `json:"timeframe,omitempty"`
}

// GetAlertDetailsArgs are the arguments of get_alert_details.
type GetAlertDetailsArgs struct {
	Identifier string `json:"identifier"`
}

// SecuritySummaryArgs are the (empty) arguments of get_security_summary.
type SecuritySummaryArgs struct{}

// AnalyzeThreatsArgs are the arguments of analyze_threats.
type AnalyzeThreatsArgs struct {
	IP         string `json:"ip,omitempty"`
	ThreatType string `json:"threat_type,omitempty"`
}

func (GetAlertsArgs) Tool() Name       { return GetAlerts }
func (GetAlertDetailsArgs) Tool() Name { return GetAlertDetails }
func (SecuritySummaryArgs) Tool() Name { return GetSecuritySummary }
func (AnalyzeThreatsArgs) Tool() Name  { return AnalyzeThreats }

// ValidationError reports an argument that does not satisfy its schema.
type ValidationError struct {
	Tool   Name
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, e.Reason)
	}
	return fmt.Sprintf("invalid argument %q for %s: %s", e.Param, e.Tool, e.Reason)
}

// Parse validates raw engine arguments for the named tool against its
// declared schema and returns the matching Args variant.
func Parse(name string, raw json.RawMessage) (Args, error) {
	spec, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTool, name)
	}

	values, err := decodeArguments(raw)
	if err != nil {
		return nil, &ValidationError{Tool: spec.Name, Reason: err.Error()}
	}

	checked, err := spec.validate(values)
	if err != nil {
		return nil, err
	}

	switch spec.Name {
	case GetAlerts:
		return GetAlertsArgs{
			Severity:  stringValue(checked, "severity"),
			Limit:     intValue(checked, "limit"),
			Timeframe: strings.ToLower(stringValue(checked, "timeframe")),
		}, nil
	case GetAlertDetails:
		return GetAlertDetailsArgs{Identifier: stringValue(checked, "identifier")}, nil
	case GetSecuritySummary:
		return SecuritySummaryArgs{}, nil
	case AnalyzeThreats:
		return AnalyzeThreatsArgs{
			IP:         stringValue(checked, "ip"),
			ThreatType: stringValue(checked, "threat_type"),
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedTool, name)
}

// decodeArguments accepts an object, a JSON string containing an object,
// null, or nothing at all.
func decodeArguments(raw json.RawMessage) (map[string]interface{}, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return map[string]interface{}{}, nil
	}

	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("arguments are not valid JSON: %v", err)
		}
		return decodeArguments(json.RawMessage(inner))
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var values map[string]interface{}
	if err := dec.Decode(&values); err != nil {
		return nil, fmt.Errorf("arguments must be a JSON object: %v", err)
	}
	if values == nil {
		values = map[string]interface{}{}
	}
	return values, nil
}

// validate checks values against the schema and returns the normalized
// values: strings are trimmed, enums canonicalized, integers converted and
// defaults applied. Parameters not in the schema are dropped.
func (s ToolSpec) validate(values map[string]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(s.Params))

	for name, p := range s.Params {
		v, present := values[name]
		if present && v != nil {
			normalized, err := p.normalize(v)
			if err != nil {
				return nil, &ValidationError{Tool: s.Name, Param: name, Reason: err.Error()}
			}
			if normalized != nil {
				out[name] = normalized
				continue
			}
		}

		if p.Required {
			return nil, &ValidationError{Tool: s.Name, Param: name, Reason: "is required"}
		}
		if p.Default != nil {
			out[name] = p.Default
		}
	}

	return out, nil
}

// normalize returns nil for blank optional strings.
func (p ParamSpec) normalize(v interface{}) (interface{}, error) {
	switch p.Type {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("must be a string")
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		if len(p.Enum) > 0 {
			for _, allowed := range p.Enum {
				if strings.EqualFold(s, allowed) {
					return allowed, nil
				}
			}
			return nil, fmt.Errorf("must be one of %s", strings.Join(p.Enum, ", "))
		}
		return s, nil

	case TypeInteger:
		n, err := toInt(v)
		if err != nil {
			return nil, err
		}
		if n < 1 {
			return nil, fmt.Errorf("must be a positive integer")
		}
		return n, nil
	}
	return nil, fmt.Errorf("unsupported parameter type %q", p.Type)
}

func toInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), nil
		}
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) {
			return 0, fmt.Errorf("must be an integer")
		}
		return int(f), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("must be an integer")
		}
		return int(n), nil
	case int:
		return n, nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("must be an integer")
		}
		return i, nil
	}
	return 0, fmt.Errorf("must be an integer")
}

func stringValue(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func intValue(m map[string]interface{}, key string) int {
	n, _ := m[key].(int)
	return n
}
