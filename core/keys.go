package core

// keys.go collects the well-known JSON field names used in JSON-RPC
// requests, in3 verification metadata, and the internal nodeList/whiteList
// RPCs. Keeping them as constants avoids typos scattered across the
// executor and verifier code.

const (
	keyID     = "id"
	keyMethod = "method"
	keyParams = "params"
	keyResult = "result"
	keyError  = "error"
	keyIn3    = "in3"

	keyLastBlockNumber     = "lastBlockNumber"
	keyLastNodeList        = "lastNodeList"
	keyLastWhiteList       = "lastWhiteList"
	keyLastValidatorChange = "lastValidatorChange"
	keyCurrentBlock        = "currentBlock"
	keyProof               = "proof"

	keyNodes        = "nodes"
	keyAddress      = "address"
	keyURL          = "url"
	keyCapacity     = "capacity"
	keyDeposit      = "deposit"
	keyProps        = "props"
	keyIndex        = "index"
	keyRegisterTime = "registerTime"
)

// Internal RPC method names issued by the engine to maintain its own
// nodelists and whitelists (spec.md §4.2-§4.3).
const (
	methodNodeList  = "in3_nodeList"
	methodWhiteList = "in3_whiteList"
)

// IN3ProtoVersion is the protocol version advertised in outgoing "in3"
// verification metadata (spec.md §4.7).
const IN3ProtoVersion = "2.1.0"
