// Package voice implements the avatar voice pipeline: a persona LLM turns the
// user's message into up to three expressive replies, each reply is
// synthesized to speech, run through lip-sync extraction, and returned with
// the audio inlined as base64 so the frontend can animate the avatar without
// a second round trip.
package voice

// Message is one spoken reply of the avatar. Audio is base64-encoded WAV;
// Lipsync carries the mouth-cue track aligned to it.
type Message struct {
	Text             string  `json:"text"`
	FacialExpression string  `json:"facialExpression"`
	Animation        string  `json:"animation"`
	Audio            string  `json:"audio"`
	Lipsync          Lipsync `json:"lipsync"`
}

// Lipsync is the cue track produced by the phonetic recognizer.
type Lipsync struct {
	MouthCues []MouthCue `json:"mouthCues"`
}

// MouthCue maps a time window (seconds) to a mouth shape label.
type MouthCue struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Value string  `json:"value"`
}

// emptyLipsync is the degradation value used whenever cue extraction fails:
// the avatar still speaks, just without mouth animation.
func emptyLipsync() Lipsync {
	return Lipsync{MouthCues: []MouthCue{}}
}
