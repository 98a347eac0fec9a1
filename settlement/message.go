package settlement

// SubmitPayload is the wire form of a transaction submission: the circuit
// kind, the ordered public-input vector, and the serialized Groth16 proof
// (base64 in JSON).
type SubmitPayload struct {
	Kind    string   `json:"kind"`
	Publics []string `json:"publics"`
	Proof   []byte   `json:"proof"`
	Sender  string   `json:"sender,omitempty"`
}

// SubmitResponse reports whether a submission was settled.
type SubmitResponse struct {
	Accepted bool   `json:"accepted"`
	Error    string `json:"error,omitempty"`
}

// NullifierStatus answers a spend query for a single nullifier.
type NullifierStatus struct {
	Nullifier string `json:"nullifier"`
	Spent     bool   `json:"spent"`
}
