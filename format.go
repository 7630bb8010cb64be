package cpuinfo

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// String returns a human-readable summary of the snapshot.
func (s *Snapshot) String() string {
	var b strings.Builder

	b.WriteString("Processor Information\n")
	fmt.Fprintf(&b, "  Model: %s", s.Model)
	if s.FrequencyMHz > 0 {
		b.WriteString(", ")
		writeFrequency(&b, s.FrequencyMHz)
	}
	b.WriteString("\n")

	b.WriteString("  Package:")
	if s.Socket.Known() {
		fmt.Fprintf(&b, " %s,", s.Socket)
	}
	fmt.Fprintf(&b, " %d Core", s.Cores)
	if s.Cores > 1 {
		b.WriteString("s")
	}
	if s.Threads > 1 {
		fmt.Fprintf(&b, ", %d Threads per Core", s.Threads)
	}
	b.WriteString("\n")
	if s.Vendor.Known() {
		fmt.Fprintf(&b, "  Vendor: %s\n", s.Vendor)
	}
	b.WriteString("\n")

	b.WriteString("Processor Caches\n")
	for _, c := range s.Caches {
		writeCache(&b, c)
	}
	b.WriteString("\n")

	b.WriteString("Processor Features\n")
	for i, cs := range s.Classes {
		for _, f := range cs.Features {
			writeFeature(&b, f)
		}
		if i == 0 && len(s.Classes) > 1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func writeFrequency(b *strings.Builder, mhz int) {
	if mhz > 1000 {
		fmt.Fprintf(b, "%.2f GHz", float64(mhz)/1000)
		return
	}
	fmt.Fprintf(b, "%d MHz", mhz)
}

func writeCache(b *strings.Builder, c CacheDescriptor) {
	if c.Level == 0 && c.Type == CacheTypeTrace {
		fmt.Fprintf(b, "  Instruction trace cache, %dK uOps\n", c.SizeKB)
		return
	}
	fmt.Fprintf(b, "  L%d %s cache, %s\n", c.Level, c.Type, humanize.IBytes(uint64(c.SizeKB)*1024))
}

func writeFeature(b *strings.Builder, f Feature) {
	d, ok := LookupFeature(f)
	if !ok {
		fmt.Fprintf(b, "  %-12s No description for feature %08x\n", "<error>", int(f))
		return
	}
	fmt.Fprintf(b, "  %-12s %s\n", d.Name, d.Detail)
}
