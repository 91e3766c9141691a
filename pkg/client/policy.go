package client

// SizePolicy decides whether a payload must be offloaded to object storage.
type SizePolicy struct {
	// Threshold is the maximum payload size in bytes sent natively.
	Threshold int64
}

// ShouldOffload reports whether the payload exceeds the threshold. The
// comparison is strictly greater-than: a payload exactly at the threshold
// still fits in a native message and is not offloaded.
func (p SizePolicy) ShouldOffload(payload []byte) bool {
	return int64(len(payload)) > p.Threshold
}
