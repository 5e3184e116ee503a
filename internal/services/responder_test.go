package services

import "testing"

func TestReply(t *testing.T) {
	tests := []struct {
		name       string
		prompt     string
		wantReply  string
		wantIntent string
	}{
		{"job keyword", "I want a job in data science", "What type of job are you looking for?", IntentJobSearch},
		{"remote beats job", "I need a remote job", "Are you looking for remote jobs?", IntentJobSearch},
		{"remote alone", "any REMOTE openings?", "Are you looking for remote jobs?", IntentJobSearch},
		{"mentor keyword", "can you find me a mentor", "I can help you find a mentor. What field are you interested in?", IntentMentorSearch},
		{"event keyword", "any events nearby?", "Would you like me to look up upcoming career events?", IntentEventSearch},
		{"case-insensitive", "JOB hunting tips", "What type of job are you looking for?", IntentJobSearch},
		{"no keyword", "hello there", defaultReply, IntentGeneral},
		{"empty prompt", "", defaultReply, IntentGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, intent := Reply(tt.prompt)
			if reply != tt.wantReply {
				t.Fatalf("reply = %q, want %q", reply, tt.wantReply)
			}
			if intent != tt.wantIntent {
				t.Fatalf("intent = %q, want %q", intent, tt.wantIntent)
			}
		})
	}
}
