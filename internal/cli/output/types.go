package output

// TargetInfo describes one parsed target.
type TargetInfo struct {
	Name       string   `json:"name" yaml:"name"`
	Rule       string   `json:"rule" yaml:"rule"`
	Line       int      `json:"line,omitempty" yaml:"line,omitempty"`
	HeaderOnly bool     `json:"header_only,omitempty" yaml:"header_only,omitempty"`
	Headers    []string `json:"hdrs,omitempty" yaml:"hdrs,omitempty"`
	Sources    []string `json:"srcs,omitempty" yaml:"srcs,omitempty"`
	Deps       []string `json:"deps,omitempty" yaml:"deps,omitempty"`
	Visibility []string `json:"visibility,omitempty" yaml:"visibility,omitempty"`
	Data       []string `json:"data,omitempty" yaml:"data,omitempty"`
}

// Reference is a dependency label that could not be turned into a link.
type Reference struct {
	Target string `json:"target" yaml:"target"`
	Label  string `json:"label" yaml:"label"`
}

// InspectOutput is the structured form of the inspect command.
type InspectOutput struct {
	File       string       `json:"file" yaml:"file"`
	Targets    []TargetInfo `json:"targets" yaml:"targets"`
	Unresolved []Reference  `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
	Missing    []Reference  `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// ConvertOutput is the structured form of the convert command.
type ConvertOutput struct {
	BuildFile  string       `json:"build_file" yaml:"build_file"`
	Output     string       `json:"output,omitempty" yaml:"output,omitempty"`
	DryRun     bool         `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	Targets    []TargetInfo `json:"targets" yaml:"targets"`
	Unresolved []Reference  `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
	Missing    []Reference  `json:"missing,omitempty" yaml:"missing,omitempty"`
	Script     string       `json:"script,omitempty" yaml:"script,omitempty"`
}

// GraphNode is a target with its local edges.
type GraphNode struct {
	Name      string   `json:"name" yaml:"name"`
	Rule      string   `json:"rule,omitempty" yaml:"rule,omitempty"`
	DependsOn []string `json:"depends_on" yaml:"depends_on"`
	UsedBy    []string `json:"used_by" yaml:"used_by"`
}

// GraphLevel groups targets at the same dependency depth.
type GraphLevel struct {
	Level   int         `json:"level" yaml:"level"`
	Targets []GraphNode `json:"targets" yaml:"targets"`
}

// GraphOutput is the structured form of the graph command.
type GraphOutput struct {
	Levels       []GraphLevel `json:"levels" yaml:"levels"`
	TotalTargets int          `json:"total_targets" yaml:"total_targets"`
	TotalEdges   int          `json:"total_edges" yaml:"total_edges"`
	Missing      []Reference  `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// PackageInfo is one package converted by the batch command.
type PackageInfo struct {
	Package    string      `json:"package" yaml:"package"`
	BuildFile  string      `json:"build_file" yaml:"build_file"`
	Output     string      `json:"output,omitempty" yaml:"output,omitempty"`
	Skipped    bool        `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Targets    int         `json:"targets" yaml:"targets"`
	Unresolved []Reference `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
	Missing    []Reference `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// BatchOutput is the structured form of the batch command.
type BatchOutput struct {
	Root     string        `json:"root" yaml:"root"`
	DryRun   bool          `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	Packages []PackageInfo `json:"packages" yaml:"packages"`
}
