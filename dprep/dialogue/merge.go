package dialogue

import "strings"

// MergeTurns collapses consecutive utterances by the same participant into one line.
// Utterances are trimmed first; runs are joined with a single space and empty lines are dropped.
func MergeTurns(utts []Utterance) []string {
	turns := make([]string, 0, len(utts))
	var (
		speaker string
		line    string
		started bool
	)
	for _, u := range utts {
		text := strings.TrimSpace(u.Text)
		if started && u.ParticipantID == speaker {
			line += " " + text
			continue
		}
		if line != "" {
			turns = append(turns, line)
		}
		line = text
		speaker = u.ParticipantID
		started = true
	}
	if line != "" {
		turns = append(turns, line)
	}
	return turns
}
