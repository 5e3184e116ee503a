package services

import "strings"

// Intent labels attached to user messages so the UI can suggest the matching
// search surface.
const (
	IntentJobSearch    = "job_search"
	IntentMentorSearch = "mentor_search"
	IntentEventSearch  = "event_search"
	IntentGeneral      = "general"
)

const defaultReply = "I'm here to help!"

// keywordRule maps a substring of the lowercased prompt to a canned reply and
// an intent label. Rules are checked in order; "remote" precedes "job" so
// "I need a remote job" gets the remote-specific prompt.
type keywordRule struct {
	keyword string
	reply   string
	intent  string
}

var keywordRules = []keywordRule{
	{"remote", "Are you looking for remote jobs?", IntentJobSearch},
	{"job", "What type of job are you looking for?", IntentJobSearch},
	{"internship", "Are you looking for internships in a particular field?", IntentJobSearch},
	{"mentor", "I can help you find a mentor. What field are you interested in?", IntentMentorSearch},
	{"event", "Would you like me to look up upcoming career events?", IntentEventSearch},
	{"resume", "You can upload your resume here and I'll keep it with our conversation.", IntentGeneral},
}

// Reply computes the canned bot response and intent for a user prompt.
// Matching is case-insensitive substring containment; unmatched prompts get a
// generic acknowledgement with the general intent.
func Reply(prompt string) (reply, intent string) {
	lower := strings.ToLower(prompt)
	for _, r := range keywordRules {
		if strings.Contains(lower, r.keyword) {
			return r.reply, r.intent
		}
	}
	return defaultReply, IntentGeneral
}
