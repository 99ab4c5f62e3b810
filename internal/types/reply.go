package types

// RemoteReply is the decoded outcome of one remote call, extracted from the
// result fragment of the reply envelope. Fields are read independently; a tag
// missing from the fragment leaves its zero value here.
type RemoteReply struct {
	// OutcomeRaw is the outcome tag text exactly as received ("", "0", "7",
	// "OK", ...). OutcomeCode is its numeric form, 0 when absent or
	// non-numeric.
	OutcomeRaw  string
	OutcomeCode int

	Message         string
	FreightValue    *float64
	DeadlineDays    *int
	QuotationNumber string
	Token           string

	// CollectionProtocol is only present in collection-request replies.
	CollectionProtocol string
}
