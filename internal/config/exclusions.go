package config

// BugzillaExclusions contains the keywords a tracked bug must not carry. Bugs with
// any of them are maintenance or process work rather than defects found by the team.
var BugzillaExclusions = ExclusionConfig{
	Keywords: []string{
		"ABIAssurance",
		"TechPreview",
		"ReleaseNotes",
		"Tracking",
		"Task",
		"HardwareEnablement",
		"SecurityTracking",
		"TestOnly",
		"Improvement",
		"FutureFeature",
		"Rebase",
		"FeatureBackport",
		"Documentation",
		"OtherQA",
		"RFE",
	},
}

// TrackedComponents lists the Bugzilla components counted by the bug reports
var TrackedComponents = []string{
	"qemu-kvm",
	"kernel",
	"virtio-win",
	"seabios",
	"edk2",
	"slof",
	"qemu-guest-agent",
	"dtc",
	"kernel-rt",
	"ovmf",
	"libtpms",
	"virglrenderer",
	"qemu-kvm-rhev",
	"qemu-kvm-ma",
	"kernel-alt",
}

// ExclusionConfig holds keyword exclusion values
type ExclusionConfig struct {
	Keywords []string `json:"keywords"`
}

// GetExcludedKeywords returns all keywords for the nowordssubstr search filter
func GetExcludedKeywords() []string {
	return BugzillaExclusions.Keywords
}
