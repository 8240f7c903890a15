package config

import "time"

type BugzillaConfig struct {
	// SearchURL is the buglist.cgi endpoint, including the column list, that deep links point to
	SearchURL string
	// RESTURL is the REST bug search endpoint used by the snapshot refresh
	RESTURL         string
	APIKey          string
	ReporterListID  string
	QAContactListID string
	Components      []string
	Timeout         time.Duration
}

func loadBugzillaConfig() BugzillaConfig {
	return BugzillaConfig{
		SearchURL: getEnv("BUGZILLA_SEARCH_URL", "https://bugzilla.redhat.com/buglist.cgi?columnlist=product"+
			"%2Ccomponent%2Cassigned_to%2Cbug_status%2Cresolution%2Cshort_desc%2Cflagtypes.name"+
			"%2Cqa_contact%2Creporter%2Ckeywords%2Cpriority%2Cbug_severity%2Ccf_qa_whiteboard%2Cversion"),
		RESTURL:         getEnv("BUGZILLA_REST_URL", "https://bugzilla.redhat.com/rest/bug"),
		APIKey:          getEnv("BUGZILLA_API_KEY", ""),
		ReporterListID:  getEnv("BUGZILLA_REPORTER_LIST_ID", "11627322"),
		QAContactListID: getEnv("BUGZILLA_QA_CONTACT_LIST_ID", "11627320"),
		Components:      getEnvList("BUGZILLA_COMPONENTS", TrackedComponents),
		Timeout:         getEnvDuration("BUGZILLA_TIMEOUT", 2*time.Minute),
	}
}
