package errors

// MessageAssert is the sole assertion path for the type-graph core.
// A failed assertion is an invariant violation: it panics with a fatal
// internal error that no layer of the core catches.
func MessageAssert(cond bool, message string) {
	if !cond {
		panic(Internal(message))
	}
}

// MessageAssertf is MessageAssert with deferred formatting; the format
// arguments are only evaluated on failure.
func MessageAssertf(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(Internalf(format, args...))
	}
}

// Panic reports an unconditional invariant violation.
func Panic(message string) {
	panic(Internal(message))
}

// Panicf is Panic with fmt.Sprintf formatting.
func Panicf(format string, args ...interface{}) {
	panic(Internalf(format, args...))
}
