//go:build dagcheck

package daggo

// Build with -tags dagcheck to verify the SpanSet invariants after every
// mutating operation. Violations indicate a bug in the caller or in this
// package and abort rather than let a corrupted set produce wrong ancestry
// results.

func debugAssert(cond bool, msg string) {
	if !cond {
		panic("daggo: " + msg)
	}
}

func debugAssertValid(s SpanSet) {
	if !s.isValid() {
		panic("daggo: span set invariant violated: " + s.String())
	}
}
