package core

import (
	"math/rand"
	"sync"
	"time"
)

// Client is the engine's single mutable state bag (spec.md §3, §5). It is
// not safe for concurrent use from multiple goroutines; a host that wants
// parallel contexts must serialise access or partition clients, per spec.md
// §5.
type Client struct {
	chains []*Chain

	// Engine-wide configurable options (spec.md §4.8).
	autoUpdateList     bool
	chainID            uint64
	signatureCount     uint8
	finality           uint8
	includeCode        bool
	maxAttempts        int
	keepIn3            bool
	maxBlockCache      int
	maxCodeCache       int
	minDeposit         uint64
	nodeLimit          int
	proof              ProofMode
	replaceLatestBlock int
	requestCount       int
	useHTTP            bool
	useBinary          bool
	useFullProof       bool
	nodeProps          NodeProps

	transport Transport
	signer    Signer
	cache     Cache

	verifiers map[ChainType]Verifier

	rpcIDMu sync.Mutex
	rpcID   uint64

	rnd *rand.Rand
}

// defaults mirror client_init.c's in3_new: max_attempts 7 (the original's
// IN3_DEFAULT_MAX_ATTEMPTS; maxAttempts=1 means exactly one attempt, no
// retry), request_count 1, node_limit 0. NewClient also sets proof STANDARD.
const (
	defaultMaxAttempts  = 7
	defaultRequestCount = 1
	defaultNodeLimit    = 0
)

// NewClient constructs a client with the five bootstrap chains registered
// (spec.md §8 scenario 1) and the given chain selected as current. A
// chainID of 0 selects mainnet, matching client_init.c's in3_for_chain_auto
// default. An unknown chainID that isn't one of the five well-known ids
// yields a *Error with KindConfiguration ("IN3_ECONFIG" in the original).
func NewClient(chainID uint64) (*Client, *Error) {
	c := &Client{
		maxAttempts:  defaultMaxAttempts,
		requestCount: defaultRequestCount,
		nodeLimit:    defaultNodeLimit,
		proof:        ProofStandard,
		verifiers:    map[ChainType]Verifier{},
		rnd:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	for _, bc := range bootstrapChains {
		c.chains = append(c.chains, initBootstrapChain(bc))
	}

	if chainID == 0 {
		chainID = ChainIDMainnet
	}
	if c.FindChain(chainID) == nil {
		return nil, newError(KindConfiguration, "unknown chain id")
	}
	c.chainID = chainID

	RegisterVerifier(c, ChainEVM, &EVMVerifier{})
	RegisterVerifier(c, ChainIPFS, &IPFSVerifier{})

	return c, nil
}

// SetTransport installs the host transport. Tests and cmd/in3cli set this
// explicitly rather than relying on ambient process-wide state (spec.md §9
// DESIGN NOTES).
func (c *Client) SetTransport(t Transport) { c.transport = t }

// SetSigner installs the host signer.
func (c *Client) SetSigner(s Signer) { c.signer = s }

// SetCache installs the optional write-through cache.
func (c *Client) SetCache(ch Cache) { c.cache = ch }

// ChainID returns the client's currently selected chain.
func (c *Client) ChainID() uint64 { return c.chainID }

// nextRPCID returns the next value of the monotonic per-process id counter
// used for outgoing payloads that didn't specify one (spec.md §4.7,
// execute.c: ctx_create_payload's static rpc_id_counter). It starts at 1 and
// is shared by every Client in the process.
func (c *Client) nextRPCID() uint64 {
	rpcIDMu.Lock()
	defer rpcIDMu.Unlock()
	rpcID++
	return rpcID
}

var (
	rpcIDMu sync.Mutex
	rpcID   uint64
)

// RegisterVerifier installs or replaces the verifier bound to a chain type
// (spec.md §9 DESIGN NOTES: "an interface/variant abstraction fits better
// than dynamic dispatch across an open world").
func RegisterVerifier(c *Client, typ ChainType, v Verifier) {
	c.verifiers[typ] = v
}

func (c *Client) verifierFor(typ ChainType) Verifier {
	return c.verifiers[typ]
}
