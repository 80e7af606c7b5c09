// Package catalog declares the fixed set of data-retrieval tools the
// reasoning engine may call, their argument schemas, and the typed argument
// variants produced after validation.
package catalog

import (
	"encoding/json"
	"errors"
	"sort"
)

// Name identifies a tool.
type Name string

// The four tools offered to the reasoning engine.
const (
	GetAlerts          Name = "get_alerts"
	GetAlertDetails    Name = "get_alert_details"
	GetSecuritySummary Name = "get_security_summary"
	AnalyzeThreats     Name = "analyze_threats"
)

// DefaultLimit is the number of alerts returned by get_alerts when the
// engine does not ask for a specific limit.
const DefaultLimit = 10

// Timeframe keywords understood by get_alerts.
const (
	TimeframeToday = "today"
	TimeframeWeek  = "week"
	TimeframeMonth = "month"
)

// ErrUnsupportedTool is returned for tool names outside the catalog.
var ErrUnsupportedTool = errors.New("unsupported tool")

// ParamType is the JSON Schema type of a tool parameter.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
)

// ParamSpec describes one tool parameter.
type ParamSpec struct {
	Type        ParamType
	Description string
	Enum        []string
	Required    bool
	Default     interface{}
}

// ToolSpec describes a callable tool.
type ToolSpec struct {
	Name        Name
	Description string
	Params      map[string]ParamSpec
}

var tools = []ToolSpec{
	{
		Name:        GetAlerts,
		Description: "List recent security alerts, newest first. Optionally filter by severity and timeframe.",
		Params: map[string]ParamSpec{
			"severity": {
				Type:        TypeString,
				Description: "Only return alerts with this severity.",
				Enum:        []string{"low", "medium", "high", "critical"},
			},
			"limit": {
				Type:        TypeInteger,
				Description: "Maximum number of alerts to return.",
				Default:     DefaultLimit,
			},
			"timeframe": {
				Type:        TypeString,
				Description: "Time window: today, week, month, or a specific date (YYYY-MM-DD).",
			},
		},
	},
	{
		Name:        GetAlertDetails,
		Description: "Look up a single alert by its name or source IP address. Partial matches are allowed.",
		Params: map[string]ParamSpec{
			"identifier": {
				Type:        TypeString,
				Description: "Alert name or IP address, exact or partial.",
				Required:    true,
			},
		},
	},
	{
		Name:        GetSecuritySummary,
		Description: "Summarize alert volume over the last 24 hours with an overall risk level.",
		Params:      map[string]ParamSpec{},
	},
	{
		Name:        AnalyzeThreats,
		Description: "Analyze the highest-risk alerts, optionally for one IP address or threat type, and recommend actions.",
		Params: map[string]ParamSpec{
			"ip": {
				Type:        TypeString,
				Description: "Restrict the analysis to this source IP address.",
			},
			"threat_type": {
				Type:        TypeString,
				Description: "Restrict the analysis to threat categories containing this text.",
			},
		},
	},
}

// List returns the catalog in declaration order.
func List() []ToolSpec {
	out := make([]ToolSpec, len(tools))
	copy(out, tools)
	return out
}

// Names returns every tool name in declaration order.
func Names() []Name {
	names := make([]Name, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Name)
	}
	return names
}

// Lookup finds a tool by name.
func Lookup(name string) (ToolSpec, bool) {
	for _, t := range tools {
		if string(t.Name) == name {
			return t, true
		}
	}
	return ToolSpec{}, false
}

// Definition is the function-calling wire shape of a tool.
type Definition struct {
	Type     string      `json:"type"`
	Function FunctionDef `json:"function"`
}

// FunctionDef holds the function name, description and parameter schema.
type FunctionDef struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  Schema `json:"parameters"`
}

// Schema is the JSON Schema object describing a function's parameters.
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// Property is a single JSON Schema property.
type Property struct {
	Type        string      `json:"type"`
	Description string      `json:"description,omitempty"`
	Enum        []string    `json:"enum,omitempty"`
	Default     interface{} `json:"default,omitempty"`
}

// Definition converts the tool to its function-calling shape.
func (s ToolSpec) Definition() Definition {
	props := make(map[string]Property, len(s.Params))
	var required []string
	for name, p := range s.Params {
		props[name] = Property{
			Type:        string(p.Type),
			Description: p.Description,
			Enum:        p.Enum,
			Default:     p.Default,
		}
		if p.Required {
			required = append(required, name)
		}
	}
	sort.Strings(required)

	return Definition{
		Type: "function",
		Function: FunctionDef{
			Name:        string(s.Name),
			Description: s.Description,
			Parameters: Schema{
				Type:       "object",
				Properties: props,
				Required:   required,
			},
		},
	}
}

// Definitions returns the function-calling definitions for the whole catalog.
func Definitions() []Definition {
	defs := make([]Definition, 0, len(tools))
	for _, t := range tools {
		defs = append(defs, t.Definition())
	}
	return defs
}

// JSON serializes Definitions. The orchestrator embeds this exact text in
// the engine's system instructions.
func JSON() string {
	raw, err := json.MarshalIndent(Definitions(), "", "  ")
	if err != nil {
		// Definitions contains only strings, slices and ints.
		panic("catalog: marshal definitions: " + err.Error())
	}
	return string(raw)
}
