package domain

import (
	"encoding/json"
	"time"
)

// InstructionOp is the kind of a single materializer step.
type InstructionOp string

const (
	// OpDir creates a plain directory.
	OpDir InstructionOp = "dir"
	// OpLink places an artifact by linking.
	OpLink InstructionOp = "link"
	// OpCopy places an artifact by copying.
	OpCopy InstructionOp = "copy"
)

// Instruction is one step of the replayable materialization sequence.
// Steps are ordered: a base artifact always precedes the nested overlays
// injected beneath it.
type Instruction struct {
	Op InstructionOp `json:"op"`

	// Target is the destination path relative to the output root.
	Target string `json:"target"`

	// Source locates the artifact content for link/copy steps.
	Source SourceLocator `json:"source,omitzero"`

	// ArtifactPath is the hierarchy path the step originates from,
	// kept for provenance and diagnostics.
	ArtifactPath HierarchyPath `json:"artifactPath,omitzero"`
}

// Flatten converts a module tree into the ordered link/copy instruction
// list consumed by the external materializer. Child order is preserved;
// for overlay nodes the base artifact is emitted before its nested
// children.
func Flatten(root *ModuleTreeNode) []Instruction {
	var out []Instruction
	flatten(root, "", &out)
	return out
}

func flatten(n *ModuleTreeNode, target string, out *[]Instruction) {
	if n.Artifact != nil {
		op := OpLink
		if n.Artifact.Method == MethodCopy {
			op = OpCopy
		}
		*out = append(*out, Instruction{
			Op:           op,
			Target:       target,
			Source:       n.Artifact.Source,
			ArtifactPath: n.Artifact.Path,
		})
	} else if target != "" {
		*out = append(*out, Instruction{Op: OpDir, Target: target})
	}

	for _, c := range n.Children {
		childTarget := c.Name
		if target != "" {
			childTarget = target + "/" + c.Name
		}
		flatten(c.Node, childTarget, out)
	}
}

// Plan is the complete, immutable planning result for one target. Plans
// for different targets share only immutable package records. Encoding a
// plan is deterministic: identical inputs produce byte-identical output.
type Plan struct {
	// LockfileDigest is the content hash of the source lockfile.
	LockfileDigest string `json:"lockfileDigest"`

	// Target is the workspace path the plan was computed for; empty for
	// the project root.
	Target HierarchyPath `json:"target,omitzero"`

	// OverrideDigest fingerprints the override set applied to the plan.
	OverrideDigest string `json:"overrideDigest,omitzero"`

	// Packages is the filtered artifact set, each tagged with its source
	// locator for the out-of-band fetch, in lockfile insertion order.
	Packages []Artifact `json:"packages"`

	// Root is the nested overlay plan.
	Root *ModuleTreeNode `json:"root"`

	// Instructions is Root flattened into materializer steps.
	Instructions []Instruction `json:"instructions"`

	// Bins is the aggregated executable-entrypoint manifest,
	// name -> path relative to the output root. Last-wins by lockfile
	// insertion order on collisions.
	Bins map[string]string `json:"bins,omitempty"`

	// Collisions lists the merge collisions resolved while assembling,
	// in occurrence order.
	Collisions []MergeCollision `json:"collisions,omitempty"`

	// WorkspaceOrder lists the workspace members the target depends on,
	// dependencies before dependents, the target last. Empty when the
	// project declares no workspaces.
	WorkspaceOrder []HierarchyPath `json:"workspaceOrder,omitempty"`
}

// Encode returns the canonical JSON encoding of the plan. Map keys are
// sorted by the encoder, child lists keep insertion order, so identical
// plans encode byte-identically.
func (p *Plan) Encode() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// PlanInfo is the memoization record for one computed plan, keyed by
// (lockfile digest, target, override fingerprint).
type PlanInfo struct {
	Key            string    `json:"key,omitzero"`
	Target         string    `json:"target,omitzero"`
	LockfileDigest string    `json:"lockfile_digest,omitzero"`
	OverrideDigest string    `json:"override_digest,omitzero"`
	PlanDigest     string    `json:"plan_digest,omitzero"`
	Timestamp      time.Time `json:"timestamp,omitzero"`
}
