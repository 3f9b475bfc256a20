// =============================
// File: internal/dex/meteora.go
// =============================
package dex

import "encoding/binary"

const (
	MeteoraDLMMProgramID = "LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo"
	MeteoraDLMMName      = "Meteora DLMM"
)

// Instruction discriminators extracted from the DLMM IDL
var (
	addLiquidityDiscriminator           = []byte{181, 157, 89, 67, 143, 182, 52, 72}
	addLiquidityByStrategyDiscriminator = []byte{7, 3, 150, 127, 148, 40, 61, 200}
	addLiquidityByWeightDiscriminator   = []byte{28, 140, 238, 99, 231, 162, 21, 149}
	removeLiquidityDiscriminator        = []byte{80, 85, 209, 72, 24, 206, 177, 108}
	removeLiquidityByRangeDiscriminator = []byte{26, 82, 102, 152, 240, 74, 105, 26}
)

// RegisterMeteoraDLMM installs the Meteora DLMM liquidity decoders.
func RegisterMeteoraDLMM(r *Registry) {
	r.RegisterProgram(MeteoraDLMMProgramID, MeteoraDLMMName)

	for _, disc := range [][]byte{
		addLiquidityDiscriminator,
		addLiquidityByStrategyDiscriminator,
		addLiquidityByWeightDiscriminator,
	} {
		r.Register(MeteoraDLMMProgramID, disc, decodeMeteoraAddLiquidity)
	}
	for _, disc := range [][]byte{
		removeLiquidityDiscriminator,
		removeLiquidityByRangeDiscriminator,
	} {
		r.Register(MeteoraDLMMProgramID, disc, decodeMeteoraRemoveLiquidity)
	}
}

// decodeMeteoraAddLiquidity reads the two little-endian uint64 amounts
// that follow the discriminator in every DLMM add-liquidity variant.
func decodeMeteoraAddLiquidity(payload []byte) (PartialEvent, bool) {
	if len(payload) < DiscriminatorLen+16 {
		return PartialEvent{}, false
	}
	return PartialEvent{
		Kind:    KindAdd,
		AmountX: binary.LittleEndian.Uint64(payload[8:16]),
		AmountY: binary.LittleEndian.Uint64(payload[16:24]),
	}, true
}

// decodeMeteoraRemoveLiquidity recognizes removal instructions without
// decoding amounts; the payload carries bin ranges, not token amounts.
func decodeMeteoraRemoveLiquidity(payload []byte) (PartialEvent, bool) {
	return PartialEvent{Kind: KindRemove}, true
}
