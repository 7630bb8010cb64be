package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/leodido/cpuinfo"
	"github.com/leodido/structcli"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thediveo/enumflag/v2"
	"gopkg.in/yaml.v3"
)

// Build metadata injected via ldflags.
// When built without ldflags (e.g., plain `go build`), these remain
// at their zero values and the version command omits them gracefully.
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	root    string
	arch    string
	verbose bool
}

func (g *globalOptions) register(fs *pflag.FlagSet) {
	fs.StringVar(&g.root, "root", "/", "Filesystem root to read /proc and /sys from")
	fs.StringVar(&g.arch, "arch", "", "Backend to use, as a GOARCH value (default: the binary's own)")
	fs.BoolVarP(&g.verbose, "verbose", "v", false, "Log detection steps to stderr")
}

func (g *globalOptions) logger() *slog.Logger {
	if !g.verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func (g *globalOptions) descriptor(opts ...cpuinfo.Option) (*cpuinfo.Descriptor, error) {
	opts = append(opts, cpuinfo.WithRoot(g.root), cpuinfo.WithLogger(g.logger()))
	if g.arch != "" {
		b, err := cpuinfo.BackendFor(g.arch)
		if err != nil {
			return nil, err
		}
		opts = append(opts, cpuinfo.WithBackend(b))
	}
	return cpuinfo.New(opts...)
}

func rootCmd() *cobra.Command {
	g := &globalOptions{}

	root := &cobra.Command{
		Use:   "cpuinfo",
		Short: "Processor identification and feature detection",
		Long: `cpuinfo identifies the host processor: vendor, model, frequency,
topology, caches and the instruction set features it supports.

Use it for operator diagnostics, or to gate deployments on the features
a binary was compiled to require.`,
		SilenceUsage: true,
	}
	g.register(root.PersistentFlags())

	root.AddCommand(showCmd(g))
	root.AddCommand(dumpCmd(g))
	root.AddCommand(checkCmd(g))
	root.AddCommand(featuresCmd())
	root.AddCommand(versionCmd(g))
	return root
}

// ShowOptions defines flags for the show subcommand.
type ShowOptions struct {
	JSON  bool `flag:"json" flagshort:"j" flagdescr:"Output in JSON format"`
	Debug bool `flag:"debug" flagshort:"d" flagdescr:"Append the debugging dump"`
}

func (o *ShowOptions) Attach(c *cobra.Command) error {
	return structcli.Define(c, o)
}

func showCmd(g *globalOptions) *cobra.Command {
	opts := &ShowOptions{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Detect all features and display a summary",
		PreRunE: func(c *cobra.Command, args []string) error {
			return structcli.Unmarshal(c, opts)
		},
		RunE: func(c *cobra.Command, args []string) error {
			d, err := g.descriptor(cpuinfo.WithEagerDetection())
			if err != nil {
				return err
			}
			defer d.Close()

			out := c.OutOrStdout()
			if opts.JSON {
				return printJSON(out, d.Snapshot())
			}

			fmt.Fprint(out, d.Snapshot())
			if opts.Debug {
				fmt.Fprint(out, "\n### DEBUGGING INFORMATION ###\n\n")
				return d.Dump(out)
			}
			return nil
		},
	}

	if err := opts.Attach(cmd); err != nil {
		panic(err)
	}
	return cmd
}

type dumpFormat enumflag.Flag

const (
	dumpText dumpFormat = iota
	dumpJSON
	dumpYAML
)

var dumpFormatIds = map[dumpFormat][]string{
	dumpText: {"text"},
	dumpJSON: {"json"},
	dumpYAML: {"yaml", "yml"},
}

// DumpOptions defines flags for the dump subcommand.
type DumpOptions struct {
	Format  dumpFormat `flag:"format" flagshort:"f" flagdescr:"Output format (text, json, yaml)" flagcustom:"true"`
	Resolve bool       `flag:"resolve" flagdescr:"Resolve every feature class before dumping"`
}

func (o *DumpOptions) Attach(c *cobra.Command) error {
	return structcli.Define(c, o)
}

func (o *DumpOptions) DefineFormat(name, short, descr string, structField reflect.StructField, fieldValue reflect.Value) (pflag.Value, string) {
	fieldPtr := fieldValue.Addr().Interface().(*dumpFormat)
	*fieldPtr = dumpText
	return enumflag.New(fieldPtr, "format", dumpFormatIds, enumflag.EnumCaseInsensitive), descr
}

func (o *DumpOptions) DecodeFormat(input any) (any, error) {
	s, ok := input.(string)
	if !ok {
		return input, nil
	}
	return parseDumpFormat(s)
}

func parseDumpFormat(s string) (dumpFormat, error) {
	var f dumpFormat
	if err := enumflag.New(&f, "format", dumpFormatIds, enumflag.EnumCaseInsensitive).Set(s); err != nil {
		return dumpText, fmt.Errorf("unknown format: %q (available: text, json, yaml)", s)
	}
	return f, nil
}

func dumpCmd(g *globalOptions) *cobra.Command {
	opts := &DumpOptions{}

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Dump the descriptor state for debugging",
		Long: `Dump the descriptor state for debugging.

Without --resolve nothing is detected: classes are reported unresolved and
only the identification metadata gathered at creation is shown.`,
		PreRunE: func(c *cobra.Command, args []string) error {
			return structcli.Unmarshal(c, opts)
		},
		RunE: func(c *cobra.Command, args []string) error {
			var dopts []cpuinfo.Option
			if opts.Resolve {
				dopts = append(dopts, cpuinfo.WithEagerDetection())
			}
			d, err := g.descriptor(dopts...)
			if err != nil {
				return err
			}
			defer d.Close()

			return writeDump(c.OutOrStdout(), d, opts.Format)
		},
	}

	if err := opts.Attach(cmd); err != nil {
		panic(err)
	}
	return cmd
}

func writeDump(w io.Writer, d *cpuinfo.Descriptor, format dumpFormat) error {
	switch format {
	case dumpJSON:
		return printJSON(w, d.State())
	case dumpYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d.State()); err != nil {
			return err
		}
		return enc.Close()
	default:
		return d.Dump(w)
	}
}

// CheckOptions defines flags for the check subcommand.
type CheckOptions struct {
	Require featureRequirements `flag:"require" flagshort:"r" flagdescr:"Required features (see available features above)" flagcustom:"true"`
	Binary  string              `flag:"binary" flagshort:"b" flagdescr:"Require the features a Go binary was compiled for"`
	JSON    bool                `flag:"json" flagshort:"j" flagdescr:"Output in JSON format"`
}

func (o *CheckOptions) Attach(c *cobra.Command) error {
	return structcli.Define(c, o)
}

func (o *CheckOptions) DefineRequire(name, short, descr string, structField reflect.StructField, fieldValue reflect.Value) (pflag.Value, string) {
	fieldPtr := fieldValue.Addr().Interface().(*featureRequirements)
	*fieldPtr = nil
	return fieldPtr, descr
}

func (o *CheckOptions) DecodeRequire(input any) (any, error) {
	s, ok := input.(string)
	if !ok {
		return input, nil
	}

	return parseFeatureRequirements(s)
}

// CompleteRequire completes comma-separated feature names.
func (o *CheckOptions) CompleteRequire(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	directive := cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace

	prefix := ""
	current := toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix, current = toComplete[:i+1], toComplete[i+1:]
	}

	selected := map[string]struct{}{}
	for _, s := range strings.Split(prefix, ",") {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			selected[s] = struct{}{}
		}
	}

	current = strings.ToLower(current)
	var out []string
	for _, name := range featureNames() {
		if _, dup := selected[name]; dup {
			continue
		}
		if strings.HasPrefix(name, current) {
			out = append(out, prefix+name)
		}
	}
	return out, directive
}

func checkCmd(g *globalOptions) *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check specific processor feature requirements",
		Long:  checkLongDescription(),
		PreRunE: func(c *cobra.Command, args []string) error {
			return structcli.Unmarshal(c, opts)
		},
		RunE: func(c *cobra.Command, args []string) error {
			requirements := make([]cpuinfo.Requirement, 0, len(opts.Require)+1)
			for _, f := range opts.Require {
				requirements = append(requirements, f)
			}
			if opts.Binary != "" {
				reqs, err := cpuinfo.FromBinary(opts.Binary)
				if err != nil {
					return err
				}
				requirements = append(requirements, reqs)
			}
			if len(requirements) == 0 {
				return fmt.Errorf("no features specified")
			}

			d, err := g.descriptor()
			if err != nil {
				return err
			}
			defer d.Close()

			out := c.OutOrStdout()
			err = d.Check(requirements...)
			if err != nil {
				var fe *cpuinfo.FeatureError
				if errors.As(err, &fe) {
					if opts.JSON {
						if err := printJSON(out, map[string]any{
							"ok":      false,
							"feature": fe.Feature,
							"reason":  fe.Reason,
						}); err != nil {
							return err
						}
					} else {
						fmt.Fprintf(c.ErrOrStderr(), "FAIL: %s: %s\n", fe.Feature, fe.Reason)
					}
					d.Close()
					os.Exit(1)
				}
				return err
			}

			if opts.JSON {
				return printJSON(out, map[string]any{"ok": true})
			}
			fmt.Fprintln(out, "OK: all requirements satisfied")
			return nil
		},
	}

	if err := opts.Attach(cmd); err != nil {
		panic(err)
	}
	return cmd
}

// FeaturesOptions defines flags for the features subcommand.
type FeaturesOptions struct {
	Class string `flag:"class" flagshort:"c" flagdescr:"Only list the features of this class"`
	JSON  bool   `flag:"json" flagshort:"j" flagdescr:"Output in JSON format"`
}

func (o *FeaturesOptions) Attach(c *cobra.Command) error {
	return structcli.Define(c, o)
}

type featureEntry struct {
	Name   string `json:"name"`
	Detail string `json:"detail"`
}

func featuresCmd() *cobra.Command {
	opts := &FeaturesOptions{}

	cmd := &cobra.Command{
		Use:   "features",
		Short: "List the feature catalog",
		PreRunE: func(c *cobra.Command, args []string) error {
			return structcli.Unmarshal(c, opts)
		},
		RunE: func(c *cobra.Command, args []string) error {
			entries, err := catalogEntries(opts.Class)
			if err != nil {
				return err
			}

			out := c.OutOrStdout()
			if opts.JSON {
				return printJSON(out, entries)
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%-24s %s\n", e.Name, e.Detail)
			}
			return nil
		},
	}

	if err := opts.Attach(cmd); err != nil {
		panic(err)
	}
	return cmd
}

func catalogEntries(class string) ([]featureEntry, error) {
	var infos []cpuinfo.ClassInfo
	if class == "" {
		infos = cpuinfo.Classes()
	} else {
		for _, ci := range cpuinfo.Classes() {
			if strings.EqualFold(ci.Name, class) {
				infos = append(infos, ci)
			}
		}
		if len(infos) == 0 {
			return nil, fmt.Errorf("unknown class: %q", class)
		}
	}

	var entries []featureEntry
	for _, ci := range infos {
		for _, f := range ci.Features() {
			d, _ := cpuinfo.LookupFeature(f)
			entries = append(entries, featureEntry{Name: f.QualifiedName(), Detail: d.Detail})
		}
	}
	return entries, nil
}

func versionCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show tool version and detected backend",
		RunE: func(c *cobra.Command, args []string) error {
			out := c.OutOrStdout()
			if version != "" {
				fmt.Fprintf(out, "cpuinfo %s", version)
				if commit != "" {
					fmt.Fprintf(out, " (%s)", commit)
				}
				if date != "" {
					fmt.Fprintf(out, " built %s", date)
				}
				fmt.Fprintln(out)
			} else {
				fmt.Fprintln(out, "cpuinfo (dev)")
			}

			d, err := g.descriptor()
			if err != nil {
				return err
			}
			defer d.Close()
			fmt.Fprintf(out, "Backend: %s\n", d.Arch())
			return nil
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func checkLongDescription() string {
	return fmt.Sprintf(`Check that the processor supports all required features.
Exits with code 0 if all requirements are met, 1 if any are missing.

Features are named "class:name"; the bare name is accepted when only one
class defines it.

Available features:
%s`, formatWrappedList(featureNames(), "  ", 80))
}

func formatWrappedList(items []string, indent string, maxWidth int) string {
	if len(items) == 0 {
		return indent + "(none)"
	}

	lines := make([]string, 0, len(items))
	line := indent
	for i, item := range items {
		token := item
		if i < len(items)-1 {
			token += ", "
		}

		if len(line)+len(token) > maxWidth && line != indent {
			lines = append(lines, strings.TrimRight(line, " "))
			line = indent + token
			continue
		}

		line += token
	}

	lines = append(lines, strings.TrimRight(line, " "))
	return strings.Join(lines, "\n")
}

// featureNames returns the qualified name of every feature, in namespace order.
func featureNames() []string {
	features := cpuinfo.Features()
	names := make([]string, 0, len(features))
	for _, f := range features {
		names = append(names, strings.ToLower(f.QualifiedName()))
	}
	return names
}

type featureRequirements []cpuinfo.Feature

// featureIdentifierMap accepts the qualified name of every feature, and its
// bare name when no other class uses it.
var featureIdentifierMap = func() map[cpuinfo.Feature][]string {
	features := cpuinfo.Features()
	bare := make(map[string]int, len(features))
	for _, f := range features {
		bare[strings.ToLower(f.String())]++
	}

	ids := make(map[cpuinfo.Feature][]string, len(features))
	for _, f := range features {
		ids[f] = []string{strings.ToLower(f.QualifiedName())}
		if name := strings.ToLower(f.String()); bare[name] == 1 {
			ids[f] = append(ids[f], name)
		}
	}
	return ids
}()

func (r *featureRequirements) String() string {
	names := make([]string, 0, len(*r))
	for _, f := range *r {
		names = append(names, f.QualifiedName())
	}

	return strings.Join(names, ",")
}

func (r *featureRequirements) Set(input string) error {
	features, err := parseFeatureRequirements(input)
	if err != nil {
		return err
	}

	*r = append(*r, features...)
	return nil
}

func (r *featureRequirements) Type() string {
	return "feature"
}

func parseFeatureRequirements(input string) (featureRequirements, error) {
	if strings.TrimSpace(input) == "" {
		return featureRequirements{}, nil
	}

	parts := strings.Split(input, ",")
	features := make(featureRequirements, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}

		var feature cpuinfo.Feature
		enumValue := enumflag.New(&feature, "cpuinfo.Feature", featureIdentifierMap, enumflag.EnumCaseInsensitive)
		if err := enumValue.Set(name); err != nil {
			if _, perr := cpuinfo.ParseFeature(name); perr != nil {
				return nil, fmt.Errorf("unknown feature: %q: %w", name, perr)
			}
			return nil, fmt.Errorf("unknown feature: %q", name)
		}

		features = append(features, feature)
	}

	return features, nil
}
