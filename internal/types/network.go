package types

// NetworkOracle reports whether the active connection is metered. It must
// answer from local state without network I/O.
type NetworkOracle interface {
	IsMetered() bool
}

// StaticNetwork is a NetworkOracle with a fixed answer.
type StaticNetwork bool

func (n StaticNetwork) IsMetered() bool {
	return bool(n)
}
