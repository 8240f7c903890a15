package bugzilla

import (
	"slices"
	"strings"

	"robin/internal/config"
	"robin/internal/database"
)

const (
	ProductRHEL8                  = "Red Hat Enterprise Linux 8"
	ProductRHEL9                  = "Red Hat Enterprise Linux 9"
	ProductAdvancedVirtualization = "Red Hat Enterprise Linux Advanced Virtualization"

	MarkerAcceptance = "acceptance"
	MarkerNotDesired = "not_desired"

	ResolutionValid   = "VALID"
	ResolutionInvalid = "INVALID"
	StatusFixed       = "FIXED"
)

var (
	highPriorities     = []string{"high", "urgent"}
	invalidResolutions = []string{"NOTABUG", "DUPLICATE", "INSUFFICIENT_DATA", "CANTFIX", "NEXTRELEASE", "WORKSFORME", "WONTFIX"}
	fixedResolutions   = []string{"CURRENTRELEASE", "ERRATA"}
	fixedStatuses      = []string{"MODIFIED", "VERIFIED"}
)

// InvalidResolutions returns the resolutions folded into INVALID
func InvalidResolutions() []string {
	return slices.Clone(invalidResolutions)
}

// Normalizer turns REST bugs into snapshot rows
type Normalizer struct {
	arches *config.ArchitectureTable
}

// NewNormalizer creates a normalizer using the architecture table for multi-arch rows
func NewNormalizer(arches *config.ArchitectureTable) *Normalizer {
	return &Normalizer{arches: arches}
}

// Normalize maps a bug onto a snapshot row. Multi-arch rows carry their hardware scope and are
// marked not_desired when the whiteboard has none of the scope's desired terms.
func (n *Normalizer) Normalize(b Bug, multiArch bool) *database.ProductBug {
	row := &database.ProductBug{
		BugID:      b.ID,
		Reporter:   localPart(b.Creator),
		QAContact:  localPart(b.QAContact),
		Product:    b.Product,
		Component:  b.Component,
		Priority:   b.Priority,
		Status:     b.Status,
		Resolution: b.Resolution,
		CreatedAt:  b.CreationTime,
	}

	if strings.Contains(b.Whiteboard, MarkerAcceptance) {
		row.Whiteboard = MarkerAcceptance
	}

	if row.Product == ProductAdvancedVirtualization {
		row.Product = ProductRHEL8
	}

	if slices.Contains(highPriorities, b.Severity) && !slices.Contains(highPriorities, b.Priority) {
		row.Priority = b.Severity
	}

	if slices.Contains(invalidResolutions, b.Resolution) {
		row.Resolution = ResolutionInvalid
	} else {
		if slices.Contains(fixedResolutions, b.Resolution) || slices.Contains(fixedStatuses, b.Status) {
			row.Status = StatusFixed
		}
		row.Resolution = ResolutionValid
	}

	if multiArch {
		row.Hardware = b.Platform
		if arch, ok := n.arches.Match(b.Platform); ok {
			row.Hardware = arch.Name
			if len(arch.WhiteboardTerms) > 0 && !containsAny(b.Whiteboard, arch.WhiteboardTerms) {
				row.Whiteboard = MarkerNotDesired
			}
		}
	}

	return row
}

// NormalizeAll maps every bug
func (n *Normalizer) NormalizeAll(bugs []Bug, multiArch bool) []*database.ProductBug {
	rows := make([]*database.ProductBug, 0, len(bugs))
	for _, b := range bugs {
		rows = append(rows, n.Normalize(b, multiArch))
	}
	return rows
}

func localPart(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
