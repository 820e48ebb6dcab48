package provisioning

import "context"

// Probers returns a SizeProber that asks each prober in order and reports the
// first size found.
func Probers(probers ...SizeProber) SizeProber {
	return chain(probers)
}

type chain []SizeProber

func (c chain) Probe(ctx context.Context, location string) (int64, bool) {
	for _, p := range c {
		if p == nil {
			continue
		}
		if size, ok := p.Probe(ctx, location); ok {
			return size, true
		}
		if ctx.Err() != nil {
			return 0, false
		}
	}
	return 0, false
}
