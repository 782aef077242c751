package domain

import "time"

// Participant is one of the two players in a session. It only exists inside
// its session; the secret word and ready flag are changed by Session alone.
type Participant struct {
	ID       string
	JoinedAt time.Time
	word     string
	ready    bool
}

// newParticipant creates a participant with the given connection ID
func newParticipant(id string) *Participant {
	return &Participant{
		ID:       id,
		JoinedAt: time.Now(),
	}
}

// IsReady returns true once the participant has committed a word
func (p *Participant) IsReady() bool {
	return p.ready
}

// commit stores the secret word; callers check IsReady first
func (p *Participant) commit(word string) {
	p.word = word
	p.ready = true
}

// ParticipantInfo is a safe view of a participant (never carries the word)
type ParticipantInfo struct {
	ID    string `json:"id"`
	Ready bool   `json:"ready"`
}

// ToInfo converts a Participant to ParticipantInfo
func (p *Participant) ToInfo() ParticipantInfo {
	return ParticipantInfo{
		ID:    p.ID,
		Ready: p.ready,
	}
}
