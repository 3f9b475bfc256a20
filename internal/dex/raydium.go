// =============================
// File: internal/dex/raydium.go
// =============================
package dex

const (
	RaydiumAMMProgramID  = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
	RaydiumCPMMProgramID = "CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C"
	RaydiumName          = "Raydium"
)

// RegisterRaydium registers the Raydium programs so their logs are
// monitored. No instruction decoders yet: Raydium AMM v4 is not
// Anchor-encoded and needs its own layout decoding.
func RegisterRaydium(r *Registry) {
	r.RegisterProgram(RaydiumAMMProgramID, RaydiumName+" AMM")
	r.RegisterProgram(RaydiumCPMMProgramID, RaydiumName+" CPMM")
}

// DefaultRegistry returns a registry covering all supported DEX families.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterMeteoraDLMM(r)
	RegisterRaydium(r)
	return r
}
