package dialogue

// Utterance is one speaker's line of dialogue.
type Utterance struct {
	ParticipantID string
	Text          string
}

// Dialogue is a loaded record with its utterances already merged into turns.
type Dialogue struct {
	ID         string
	Topic      string
	Turns      []string
	Summary    string
	HasSummary bool
	Source     string
	Index      int
}

// Example is the flattened text pair handed to the tokenizer.
type Example struct {
	ID         string
	Topic      string
	Text       string
	Summary    string
	HasSummary bool
	Source     string
	Index      int
}

// corpusFile mirrors the on-disk JSON layout.
type corpusFile struct {
	Data []rawRecord `json:"data"`
}

type rawRecord struct {
	Header struct {
		DialogueInfo struct {
			DialogueID string `json:"dialogueID"`
			Topic      string `json:"topic"`
		} `json:"dialogueInfo"`
	} `json:"header"`
	Body struct {
		Dialogue []struct {
			ParticipantID string `json:"participantID"`
			Utterance     string `json:"utterance"`
		} `json:"dialogue"`
		Summary *string `json:"summary"`
	} `json:"body"`
}

func (r *rawRecord) utterances() []Utterance {
	out := make([]Utterance, len(r.Body.Dialogue))
	for i, u := range r.Body.Dialogue {
		out[i] = Utterance{ParticipantID: u.ParticipantID, Text: u.Utterance}
	}
	return out
}
