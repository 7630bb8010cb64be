// Package cpuinfo identifies the host processor: vendor, model, frequency,
// topology, caches, and the instruction set features it supports.
//
// Features are numbered in a shared namespace. The high byte of a [Feature]
// is its [Class] tag (one per architecture family, plus the common class of
// derived flags such as [FeatureSIMD] and [FeatureCrypto]) and the low byte
// its offset within the class. A class may continue the numbering of another
// (AArch64 after ARM, the ARM cryptographic extension after AArch64), so
// newer generations extend a catalog without renumbering it. The class table
// is explicit ([Classes]) and validated when the package is initialized.
//
// # API Model
//
// A [Descriptor] is created with [New] and released with
// [Descriptor.Close]:
//   - identification metadata is gathered once, in [New]
//   - feature classes are resolved lazily on first query, exactly once,
//     from a single read of the raw capability source (the aux vector
//     HWCAP words, or CPUID)
//   - common features resolve every class of the backend
//   - use after Close panics with an error wrapping [ErrClosed]
//
// The backend is chosen at build time by [DefaultBackend]. [BackendFor]
// selects one by GOARCH, and [X86], [ARM], [AArch64] and [PPC] accept a
// [RawSource] for analysing captured capability words.
//
// # Quick Check
//
// Validate that required features are available:
//
//	if err := cpuinfo.Check(cpuinfo.FeatureSIMD, cpuinfo.AnyOf{cpuinfo.FeatureX86AVX2, cpuinfo.FeatureAArch64ASIMD}); err != nil {
//	    var fe *cpuinfo.FeatureError
//	    if errors.As(err, &fe) {
//	        log.Fatalf("processor not supported: %s: %s", fe.Feature, fe.Reason)
//	    }
//	    log.Fatal(err)
//	}
//
// [FromBinary] derives the requirements a Go binary was compiled with
// (GOAMD64, GOARM64, ...) so they can be checked before running it.
//
// # Full Description
//
//	d, err := cpuinfo.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer d.Close()
//
//	fmt.Println(d.Snapshot()) // human-readable summary
//	d.Dump(os.Stderr)         // debugging state, without triggering detection
package cpuinfo
