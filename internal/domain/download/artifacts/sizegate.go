package artifacts

import "github.com/Conte777/SaveVideoBot/internal/domain/download/entities"

const bytesInMB = 1024 * 1024

// SizeGate rejects artifacts larger than Limit bytes
type SizeGate struct {
	Limit int64
}

// Verdict is the result of a size check
type Verdict struct {
	Allowed bool
	Size    int64
	Limit   int64
}

// SizeMB returns the artifact size in megabytes
func (v Verdict) SizeMB() float64 {
	return float64(v.Size) / bytesInMB
}

// LimitMB returns the limit in megabytes
func (v Verdict) LimitMB() float64 {
	return float64(v.Limit) / bytesInMB
}

// Check compares the artifact size against the limit. Exactly Limit bytes pass.
func (g SizeGate) Check(a entities.LocalArtifact) Verdict {
	return g.CheckSize(a.Size)
}

// CheckSize compares a raw byte count against the limit
func (g SizeGate) CheckSize(size int64) Verdict {
	return Verdict{
		Allowed: size <= g.Limit,
		Size:    size,
		Limit:   g.Limit,
	}
}
