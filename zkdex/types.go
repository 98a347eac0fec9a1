package zkdex

// Transaction kinds accepted by the ledger and the settlement node.
const (
	KindTransfer = "transfer"
	KindTrade    = "trade"
	KindLootBox  = "lootbox"
	KindDraw     = "draw"
)

// Record is one settled transaction: its kind, the ordered public-input
// vector of its proof, and the serialized proof itself.
type Record struct {
	Kind    string   `json:"kind"`
	Publics []string `json:"publics"`
	Proof   []byte   `json:"proof"`
}
