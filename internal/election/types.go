package election

import (
	"fmt"
	"math/big"
)

// Candidate identifies a candidate by the value the contract uses
type Candidate uint8

const (
	Unknown Candidate = iota
	CandidateA
	CandidateB
)

// Valid reports whether c is one of the contract's candidate values
func (c Candidate) Valid() bool {
	return c <= CandidateB
}

// Other returns the opposing candidate. Unknown has no opponent.
func (c Candidate) Other() Candidate {
	switch c {
	case CandidateA:
		return CandidateB
	case CandidateB:
		return CandidateA
	default:
		return Unknown
	}
}

func (c Candidate) String() string {
	switch c {
	case Unknown:
		return "unknown"
	case CandidateA:
		return "candidate_a"
	case CandidateB:
		return "candidate_b"
	default:
		return fmt.Sprintf("candidate(%d)", uint8(c))
	}
}

// Names maps candidates to display names
type Names struct {
	A string
	B string
}

// DefaultNames returns the display names used by the deployed contract
func DefaultNames() Names {
	return Names{A: "Biden", B: "Trump"}
}

// Of returns the display name of c
func (n Names) Of(c Candidate) string {
	switch c {
	case CandidateA:
		return n.A
	case CandidateB:
		return n.B
	default:
		return "Unknown"
	}
}

// Status is whether results are still accepted
type Status int

const (
	InProgress Status = iota
	Ended
)

func (s Status) String() string {
	if s == Ended {
		return "ended"
	}
	return "in_progress"
}

// Phase is the Controller's position in the submission state machine
type Phase int

const (
	Idle Phase = iota
	SubmittingResult
	EndingElection
)

func (p Phase) String() string {
	switch p {
	case SubmittingResult:
		return "submitting_result"
	case EndingElection:
		return "ending_election"
	default:
		return "idle"
	}
}

// Snapshot is the last known on-chain state of the election
type Snapshot struct {
	Leader Candidate `json:"leader"`
	SeatsA uint64    `json:"seats_a"`
	SeatsB uint64    `json:"seats_b"`
	Status Status    `json:"status"`
}

// Seats returns the seat count of c
func (s Snapshot) Seats(c Candidate) uint64 {
	switch c {
	case CandidateA:
		return s.SeatsA
	case CandidateB:
		return s.SeatsB
	default:
		return 0
	}
}

// Draft holds the results form fields
type Draft struct {
	StateName string `json:"state"`
	VotesA    uint64 `json:"votes_a"`
	VotesB    uint64 `json:"votes_b"`
	Seats     uint64 `json:"seats"`
}

// IsZero reports whether every field is empty
func (d Draft) IsZero() bool {
	return d == Draft{}
}

// Validate checks the fields the contract cannot check for us
func (d Draft) Validate() error {
	if d.StateName == "" {
		return fmt.Errorf("%w: state name is required", ErrInvalidDraft)
	}
	if d.Seats == 0 {
		return fmt.Errorf("%w: state seats must be greater than 0", ErrInvalidDraft)
	}
	if d.Seats > 255 {
		return fmt.Errorf("%w: state seats must be at most 255", ErrInvalidDraft)
	}
	return nil
}

// StateResult converts the draft into the tuple sent to the contract
func (d Draft) StateResult() StateResult {
	return StateResult{
		Name:       d.StateName,
		VotesA:     new(big.Int).SetUint64(d.VotesA),
		VotesB:     new(big.Int).SetUint64(d.VotesB),
		StateSeats: d.Seats,
	}
}

// StateResult is the ordered tuple accepted by submitStateResult
type StateResult struct {
	Name       string
	VotesA     *big.Int
	VotesB     *big.Int
	StateSeats uint64
}

// Submission tracks the in-flight write
type Submission struct {
	Pending bool   `json:"pending"`
	TxRef   string `json:"tx_ref,omitempty"`
}

// EventRef identifies a delivered log. The zero value means unknown.
type EventRef struct {
	TxHash   string `json:"tx_hash,omitempty"`
	LogIndex uint   `json:"log_index"`
}

// IsZero reports whether the reference is unknown
func (r EventRef) IsZero() bool {
	return r.TxHash == ""
}

func (r EventRef) String() string {
	return fmt.Sprintf("%s#%d", r.TxHash, r.LogIndex)
}

// StateResultEvent is a decoded LogStateResult
type StateResultEvent struct {
	Winner Candidate `json:"winner"`
	Seats  uint64    `json:"seats"`
	State  string    `json:"state"`
	Ref    EventRef  `json:"ref"`
}

// ElectionEndedEvent is a decoded LogElectionEnded
type ElectionEndedEvent struct {
	Winner Candidate `json:"winner"`
	Ref    EventRef  `json:"ref"`
}

// View is an immutable copy of the Controller state for presentation
type View struct {
	Snapshot   Snapshot           `json:"snapshot"`
	Draft      Draft              `json:"draft"`
	Submission Submission         `json:"submission"`
	Phase      Phase              `json:"phase"`
	Recent     []StateResultEvent `json:"recent"`
	Mounted    bool               `json:"mounted"`
}

// Disabled reports whether inputs and actions must be disabled
func (v View) Disabled() bool {
	return v.Submission.Pending
}
