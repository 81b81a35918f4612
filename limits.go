package pkgmeta

// Limits bounds the resources a single Parse call may consume.
// A zero field selects the default.
type Limits struct {
	MaxLineLen      int   // bytes in one physical line, terminator included
	MaxHeaderLines  int   // physical lines before the separator, continuations included
	MaxPayloadLen   int64 // bytes after the separator
	MaxDecompressed int64 // bytes produced by a compressed input stream
}

func defaultLimits() Limits {
	return Limits{
		MaxLineLen:      1 << 20, // 1 MiB
		MaxHeaderLines:  100_000,
		MaxPayloadLen:   64 << 20,  // 64 MiB
		MaxDecompressed: 128 << 20, // 128 MiB
	}
}

func (l Limits) withDefaults() Limits {
	d := defaultLimits()
	if l.MaxLineLen == 0 {
		l.MaxLineLen = d.MaxLineLen
	}
	if l.MaxHeaderLines == 0 {
		l.MaxHeaderLines = d.MaxHeaderLines
	}
	if l.MaxPayloadLen == 0 {
		l.MaxPayloadLen = d.MaxPayloadLen
	}
	if l.MaxDecompressed == 0 {
		l.MaxDecompressed = d.MaxDecompressed
	}
	return l
}
