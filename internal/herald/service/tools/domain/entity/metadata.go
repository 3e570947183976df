package entity

// Category groups tools for discovery and follow-up suggestions.
type Category string

const (
	CategoryCalendar     Category = "calendar"
	CategoryEmail        Category = "email"
	CategoryProductivity Category = "productivity"
	CategoryWeb          Category = "web"
	CategorySearch       Category = "search"
	CategoryFiles        Category = "files"
	CategoryDrive        Category = "drive"
	CategoryDocuments    Category = "documents"
	CategorySocial       Category = "social"
	CategoryCustom       Category = "custom"
	CategorySystem       Category = "system"
	CategoryExternal     Category = "external"
)

var categories = []Category{
	CategoryCalendar, CategoryEmail, CategoryProductivity, CategoryWeb,
	CategorySearch, CategoryFiles, CategoryDrive, CategoryDocuments,
	CategorySocial, CategoryCustom, CategorySystem, CategoryExternal,
}

// Categories returns the closed category set in declaration order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func (c Category) Valid() bool {
	for _, v := range categories {
		if v == c {
			return true
		}
	}
	return false
}

// ParamType is the declared JSON type of a tool parameter.
type ParamType string

const (
	ParamString  ParamType = "string"
	ParamNumber  ParamType = "number"
	ParamBoolean ParamType = "boolean"
	ParamObject  ParamType = "object"
	ParamArray   ParamType = "array"
)

// TimeContext hints how a tool relates to time, used to disambiguate
// temporal queries during selection.
type TimeContext string

const (
	TimeCurrent  TimeContext = "current"
	TimeFuture   TimeContext = "future"
	TimePast     TimeContext = "past"
	TimeAny      TimeContext = "any"
	TimeRecent   TimeContext = "recent"
	TimeRealtime TimeContext = "realtime"
)

// DataAccess classifies whether a tool reads, writes, or both.
type DataAccess string

const (
	AccessRead  DataAccess = "read"
	AccessWrite DataAccess = "write"
	AccessBoth  DataAccess = "both"
)

type ParameterSpec struct {
	Name        string    `json:"name"        yaml:"name"`
	Type        ParamType `json:"type"        yaml:"type"`
	Description string    `json:"description" yaml:"description"`
	Required    bool      `json:"required"    yaml:"required"`
	Examples    []string  `json:"examples,omitempty" yaml:"examples,omitempty"`
}

type ToolExample struct {
	Query          string         `json:"query"`
	ExpectedParams map[string]any `json:"expectedParams,omitempty"`
	Description    string         `json:"description,omitempty"`
}

// ToolMetadata describes a callable tool for selection and discovery.
type ToolMetadata struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    Category        `json:"category"`
	Parameters  []ParameterSpec `json:"parameters"`
	Examples    []ToolExample   `json:"examples,omitempty"`
	TimeContext TimeContext     `json:"timeContext,omitempty"`
	DataAccess  DataAccess      `json:"dataAccess"`
}

// Parameter returns the declared parameter with the given name.
func (m *ToolMetadata) Parameter(name string) (ParameterSpec, bool) {
	for _, p := range m.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return ParameterSpec{}, false
}

// Clone returns a deep-enough copy for callers that must not mutate the
// registered metadata.
func (m *ToolMetadata) Clone() *ToolMetadata {
	if m == nil {
		return nil
	}
	cp := *m
	cp.Parameters = append([]ParameterSpec(nil), m.Parameters...)
	cp.Examples = append([]ToolExample(nil), m.Examples...)
	return &cp
}
