package domain

// MaxSnapshotSubjects is how many recent message subjects a poll cycle keeps.
const MaxSnapshotSubjects = 3

// NoSubjectPlaceholder stands in for a message without a Subject header.
const NoSubjectPlaceholder = "(no subject)"

// SubjectSnapshot is the ordered set of most recent mail subjects for one
// account, in API-provided recency order. It is replaced wholesale each poll.
type SubjectSnapshot struct {
	AccountID AccountID
	Subjects  []string
}

func (s SubjectSnapshot) Equal(other SubjectSnapshot) bool {
	if s.AccountID != other.AccountID {
		return false
	}
	if len(s.Subjects) != len(other.Subjects) {
		return false
	}
	for i := range s.Subjects {
		if s.Subjects[i] != other.Subjects[i] {
			return false
		}
	}
	return true
}
