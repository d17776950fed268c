package domain

type AccountID string

// Credential is the single process-wide bearer credential. It is replaced
// wholesale on account switch and never shared across accounts.
type Credential struct {
	Token     string
	AccountID AccountID
}

func (c Credential) Empty() bool {
	return c.Token == ""
}
