// =============================
// File: internal/dex/registry.go
// =============================
package dex

// DecodeFunc turns an instruction payload (discriminator included) into a
// partial liquidity event. It is pure: no I/O, no shared state.
type DecodeFunc func(payload []byte) (PartialEvent, bool)

// DiscriminatorLen is the fixed width of the instruction-kind prefix used
// by Anchor-style programs.
const DiscriminatorLen = 8

type registryKey struct {
	programID     string
	discriminator [DiscriminatorLen]byte
}

// Registry maps (program, discriminator) pairs to decoders. Adding support
// for another DEX family means registering entries, not branching logic.
type Registry struct {
	decoders map[registryKey]DecodeFunc
	dexNames map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		decoders: make(map[registryKey]DecodeFunc),
		dexNames: make(map[string]string),
	}
}

// RegisterProgram associates a program with a human-readable DEX name.
// Programs may be registered without decoders; their logs are still
// subscribed to but their instructions are ignored until decoders exist.
func (r *Registry) RegisterProgram(programID, dexName string) {
	r.dexNames[programID] = dexName
}

// Register installs a decoder for one instruction kind of a program.
func (r *Registry) Register(programID string, discriminator []byte, fn DecodeFunc) {
	var key registryKey
	key.programID = programID
	copy(key.discriminator[:], discriminator)
	r.decoders[key] = fn
}

// DexName returns the display name for a registered program.
func (r *Registry) DexName(programID string) (string, bool) {
	name, ok := r.dexNames[programID]
	return name, ok
}

// Programs returns all registered program IDs.
func (r *Registry) Programs() []string {
	programs := make([]string, 0, len(r.dexNames))
	for id := range r.dexNames {
		programs = append(programs, id)
	}
	return programs
}

// Decode matches the payload's discriminator against the registry. A miss
// is not an error: most instructions are unrelated noise and the second
// return value is simply false.
func (r *Registry) Decode(programID string, payload []byte) (PartialEvent, bool) {
	if len(payload) < DiscriminatorLen {
		return PartialEvent{}, false
	}
	var key registryKey
	key.programID = programID
	copy(key.discriminator[:], payload[:DiscriminatorLen])

	fn, ok := r.decoders[key]
	if !ok {
		return PartialEvent{}, false
	}
	return fn(payload)
}
