package core

// NodeProps is the packed node-capability bitset from spec.md §3/§4.4.
// The low 32 bits are capability flags; bits 32-39 carry a packed
// minimum-block-height hint. Mirrors
// original_source/lib/in3-core/src/core/client/nodelist.c's
// in3_node_props_set/in3_node_props_match, with the FILTER_NODES compile
// guard removed — spec.md §4.4 step 3 makes the properties filter
// unconditional.
type NodeProps uint64

const (
	PropData       NodeProps = 1 << 0
	PropProof      NodeProps = 1 << 3
	PropHTTP       NodeProps = 1 << 6
	PropSigner     NodeProps = 1 << 12
	PropMultichain NodeProps = 1 << 13
)

const propsCapabilityMask NodeProps = 0xFFFFFFFF
const propsMinBlockHeightShift = 32

// WithMinBlockHeight returns props with the minimum-block-height hint
// packed into bits 32-39.
func (p NodeProps) WithMinBlockHeight(height uint8) NodeProps {
	return (p & propsCapabilityMask) | (NodeProps(height) << propsMinBlockHeightShift)
}

// MinBlockHeight extracts the packed minimum-block-height hint.
func (p NodeProps) MinBlockHeight() uint8 {
	return uint8((p >> propsMinBlockHeightShift) & 0xFF)
}

// Has reports whether every capability bit set in required is also set in p
// (low 32 bits only).
func (p NodeProps) Has(required NodeProps) bool {
	return (required & propsCapabilityMask & p) == (required & propsCapabilityMask)
}

// Matches implements the full node-property filter: p must carry every
// capability bit in required AND advertise a minimum block height no lower
// than required's.
func (p NodeProps) Matches(required NodeProps) bool {
	return p.Has(required) && p.MinBlockHeight() >= required.MinBlockHeight()
}
