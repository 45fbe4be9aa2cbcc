package types

// Event is the flattened form of a state change handed to subscribers such as
// indexers or the keeper's log.
type Event struct {
	Type       string            `json:"type"`
	Height     uint64            `json:"height"`
	Attributes map[string]string `json:"attributes"`
}
