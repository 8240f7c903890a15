package config

type ReportConfig struct {
	// OrgName labels the whole-organization row of the default bug report
	OrgName string
	// AcceptanceExemptTeam is the team code whose bug counts keep acceptance bugs
	AcceptanceExemptTeam string
	// FallbackQAContact is the shared QA identity accepted by the reporter cross-check
	FallbackQAContact string
	// ArchitecturesFile optionally overrides the embedded architecture table
	ArchitecturesFile string
}

func loadReportConfig() ReportConfig {
	return ReportConfig{
		OrgName:              getEnv("REPORT_ORG_NAME", "KVM_QE_ALL"),
		AcceptanceExemptTeam: getEnv("ACCEPTANCE_EXEMPT_TEAM", "qzhang"),
		FallbackQAContact:    getEnv("FALLBACK_QA_CONTACT", "virt-bugs"),
		ArchitecturesFile:    getEnv("ARCHITECTURES_FILE", ""),
	}
}
