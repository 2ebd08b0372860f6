package poi

import (
	"encoding/hex"
	"fmt"

	"github.com/streamingfast/stablehash"
	pbentity "github.com/streamingfast/substreams-sink-entity-changes/pb/sf/substreams/sink/entity/v1"
	"go.uber.org/zap"
)

type Version uint

const (
	// VersionLegacy is the pre-fast proof of indexing, not supported here.
	VersionLegacy Version = iota
	VersionFast
)

// ProofOfIndexing accumulates the entity change events of one block into a
// deterministic digest state, byte-compatible across independent indexers
// processing the same stream.
type ProofOfIndexing struct {
	blockNumber uint64
	stream      *BlockEventStream
}

func NewProofOfIndexing(blockNumber uint64, version Version) *ProofOfIndexing {
	if version == VersionLegacy {
		panic("legacy proof of indexing not supported")
	}

	return &ProofOfIndexing{
		blockNumber: blockNumber,
		stream: &BlockEventStream{
			vecLength:    0,
			handlerStart: 0,
			blockNumber:  blockNumber,
			hasher:       stablehash.NewFastHasher(),
		},
	}
}

func (p *ProofOfIndexing) Write(event ProofOfIndexingEvent) {
	p.stream.Write(event)
}

func (p *ProofOfIndexing) SetEntity(entity *pbentity.EntityChange) {
	// We could improve the hashing speed by avoiding the transformation to ProofOfIndexingSetEntity entirely
	p.stream.Write(NewProofOfIndexingSetEntity(entity))
}

func (p *ProofOfIndexing) RemoveEntity(entity *pbentity.EntityChange) {
	// We could improve the hashing speed by avoiding the transformation to ProofOfIndexingRemoveEntity entirely
	p.stream.Write(NewProofOfIndexingRemoveEntity(entity))
}

// Pause returns the current `poi` bytes up to now, folding in the state
// carried over from the previous block when there is one.
func (p *ProofOfIndexing) Pause(prev []byte) ([]byte, error) {
	p.stream.writeEventsLength()

	if len(prev) > 0 {
		if tracer.Enabled() {
			zlog.Debug("pausing PoI has previous value", zap.Uint64("block_num", p.blockNumber), zap.String("previous", hex.EncodeToString(prev)))
		}

		prevHasher, err := stablehash.NewFastHasherFromBytes(prev)
		if err != nil {
			return nil, fmt.Errorf("invalid previous value %q: %w", hex.EncodeToString(prev), err)
		}

		p.stream.hasher.Mixin(prevHasher)
	}

	out := p.stream.hasher.ToBytes()

	if tracer.Enabled() {
		zlog.Debug("paused PoI", zap.Uint64("block_num", p.blockNumber), zap.String("current", hex.EncodeToString(out)))
	}

	return out, nil
}

// DebugCurrent returns the current bytes value of the PoI, it's useful for
// debugging purposes and nothing else.
func (p *ProofOfIndexing) DebugCurrent() string {
	return hex.EncodeToString(p.stream.hasher.ToBytes())
}

// BlockEventStream writes each event at its position inside the logical
// value being hashed, the events vector of this block inside the causality
// region's blocks vector. Every event derives a fresh address from the root
// so that events can stream in without retaining addresses.
type BlockEventStream struct {
	vecLength    uint64
	handlerStart uint64
	blockNumber  uint64
	hasher       *stablehash.FastHasher
}

func (e *BlockEventStream) Write(event ProofOfIndexingEvent) {
	children := []uint64{
		1,             // kvp -> v
		0,             // PoICausalityRegion.blocks: Vec<Block>
		e.blockNumber, // Vec<Block> -> [i]
		0,             // Block.events -> Vec<ProofOfIndexingEvent>
		e.vecLength,
	}

	e.fastHasherWrite(event, children)
	e.vecLength += 1
}

// writeEventsLength closes the events vector by hashing its length at the
// vector's own address.
func (e *BlockEventStream) writeEventsLength() {
	e.fastHasherWrite(stablehash.U64(e.vecLength), []uint64{
		1, 0, e.blockNumber, 0,
	})
}

func (e *BlockEventStream) fastHasherWrite(hashable stablehash.Hashable, children []uint64) {
	addr := stablehash.NewFastAddress()
	for _, child := range children {
		addr.Skip(child)
		addr = addr.NextChild()
	}

	hashable.StableHash(addr, e.hasher)
}

func (e *BlockEventStream) StartHandler() {
	e.handlerStart = e.vecLength
}
