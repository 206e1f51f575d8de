package election

// ApplyStateResult returns s with a recorded state result applied. Only the
// winner's counter grows. The leader changes only when one side is strictly
// ahead, so a tie keeps whoever led before.
func ApplyStateResult(s Snapshot, ev StateResultEvent) Snapshot {
	switch ev.Winner {
	case CandidateA:
		s.SeatsA += ev.Seats
	case CandidateB:
		s.SeatsB += ev.Seats
	default:
		return s
	}

	switch {
	case s.SeatsA > s.SeatsB:
		s.Leader = CandidateA
	case s.SeatsB > s.SeatsA:
		s.Leader = CandidateB
	}
	return s
}

// ApplyElectionEnded returns s marked as ended
func ApplyElectionEnded(s Snapshot, _ ElectionEndedEvent) Snapshot {
	s.Status = Ended
	return s
}

// appendRecent keeps the newest limit events, newest first
func appendRecent(recent []StateResultEvent, ev StateResultEvent, limit int) []StateResultEvent {
	if limit <= 0 {
		return nil
	}
	out := make([]StateResultEvent, 0, min(len(recent)+1, limit))
	out = append(out, ev)
	for _, r := range recent {
		if len(out) == limit {
			break
		}
		out = append(out, r)
	}
	return out
}
