package domain

// ProjectConfig is the planner configuration loaded from plank.yaml.
type ProjectConfig struct {
	// Targets names the workspaces to plan, by declared package name or
	// member path. Empty means every declared workspace.
	Targets []string

	// IncludeDev includes dev-only lockfile entries for root and
	// workspace records.
	IncludeDev bool

	// Method is the default materialization method for artifacts.
	Method MaterializeMethod

	// OutDir is the directory plan documents are written to.
	OutDir string

	// Overrides is the compiled substitution set.
	Overrides OverrideSet
}
