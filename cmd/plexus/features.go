package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"plexus/internal/model"
)

var featuresCmd = &cobra.Command{
	Use:   "features [flags] [url...]",
	Short: "Query features of the analyzed package",
	Long: `Features analyzes the package (or the given URLs) and prints the features
matching the query. With --document the query starts at one document instead
of the whole package, and --imported decides whether imports are followed.`,
	RunE: runFeatures,
}

func init() {
	f := featuresCmd.Flags()
	f.String("kind", "", "feature kind ("+strings.Join(model.KindTags(), "|")+")")
	f.String("id", "", "identifier to look up (tag name, class name, URL...)")
	f.String("document", "", "query a single document by package-relative URL")
	f.Bool("imported", true, "follow imports (with --document)")
	f.Bool("external", false, "include features of dependency packages")
	f.Bool("no-lazy-imports", false, "do not follow lazy imports")
	f.Bool("exclude-backreferences", false, "do not list containing documents of inline documents")
	f.String("format", "text", "output format (text|json|yaml)")
}

// featureView is the rendered form of one feature.
type featureView struct {
	Kinds       []string `json:"kinds" yaml:"kinds"`
	Identifiers []string `json:"identifiers,omitempty" yaml:"identifiers,omitempty"`
	Location    string   `json:"location,omitempty" yaml:"location,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	TagName     string   `json:"tag_name,omitempty" yaml:"tag_name,omitempty"`
	SuperClass  string   `json:"superclass,omitempty" yaml:"superclass,omitempty"`
	Mixins      []string `json:"mixins,omitempty" yaml:"mixins,omitempty"`
	Behaviors   []string `json:"behaviors,omitempty" yaml:"behaviors,omitempty"`
	Properties  []string `json:"properties,omitempty" yaml:"properties,omitempty"`
	Methods     []string `json:"methods,omitempty" yaml:"methods,omitempty"`
	Attributes  []string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Events      []string `json:"events,omitempty" yaml:"events,omitempty"`
	Target      string   `json:"target,omitempty" yaml:"target,omitempty"`
	Lazy        bool     `json:"lazy,omitempty" yaml:"lazy,omitempty"`
	Warnings    int      `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func readQuery(cmd *cobra.Command) (model.Query, error) {
	var q model.Query
	flags := cmd.Flags()
	kind, err := flags.GetString("kind")
	if err != nil {
		return q, fmt.Errorf("failed to get kind flag: %w", err)
	}
	if kind != "" {
		k, ok := model.ParseKind(kind)
		if !ok {
			return q, fmt.Errorf("unknown kind %q (expected one of %s)", kind, strings.Join(model.KindTags(), ", "))
		}
		q.Kind = k
	}
	if q.ID, err = flags.GetString("id"); err != nil {
		return q, fmt.Errorf("failed to get id flag: %w", err)
	}
	if q.Imported, err = flags.GetBool("imported"); err != nil {
		return q, fmt.Errorf("failed to get imported flag: %w", err)
	}
	if q.ExternalPackages, err = flags.GetBool("external"); err != nil {
		return q, fmt.Errorf("failed to get external flag: %w", err)
	}
	if q.NoLazyImports, err = flags.GetBool("no-lazy-imports"); err != nil {
		return q, fmt.Errorf("failed to get no-lazy-imports flag: %w", err)
	}
	if q.ExcludeBackreferences, err = flags.GetBool("exclude-backreferences"); err != nil {
		return q, fmt.Errorf("failed to get exclude-backreferences flag: %w", err)
	}
	return q, nil
}

func runFeatures(cmd *cobra.Command, args []string) error {
	q, err := readQuery(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	switch format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unsupported format %q (must be text, json or yaml)", format)
	}
	docURL, err := cmd.Flags().GetString("document")
	if err != nil {
		return fmt.Errorf("failed to get document flag: %w", err)
	}

	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	if docURL != "" && !ws.resolver.CanResolve(docURL) {
		return fmt.Errorf("%s is not a file of this package", docURL)
	}
	defer printTimings(cmd, ws.timer)

	urls := args
	if docURL != "" && len(urls) == 0 {
		urls = []string{docURL}
	}
	_, analysis, err := runAnalysis(cmd, ws, urls)
	if err != nil {
		return err
	}

	var src model.Queryable = analysis
	if docURL != "" {
		res := analysis.GetDocument(docURL)
		switch res.Status {
		case model.DocFound:
			src = res.Document
		case model.DocFailed:
			return fmt.Errorf("%s: %s", docURL, res.Warning.Message)
		default:
			return fmt.Errorf("%s is not a document of this package", docURL)
		}
	}

	views := viewFeatures(src.GetFeatures(q))
	return renderFeatures(cmd.OutOrStdout(), format, views)
}

func viewFeatures(fs []model.Feature) []featureView {
	views := make([]featureView, 0, len(fs))
	for _, f := range fs {
		views = append(views, viewFeature(f))
	}
	sort.SliceStable(views, func(i, j int) bool { return views[i].Location < views[j].Location })
	return views
}

func viewFeature(f model.Feature) featureView {
	v := featureView{
		Identifiers: f.Identifiers(),
		Warnings:    len(f.Warnings()),
	}
	for _, k := range f.Kinds().Slice() {
		v.Kinds = append(v.Kinds, k.String())
	}
	if r := f.SourceRange(); !r.IsZero() {
		v.Location = fmt.Sprintf("%s:%d:%d", r.File, r.Start.Line+1, r.Start.Column+1)
	}

	switch f := f.(type) {
	case *model.Element:
		v.TagName = f.TagName
	case *model.PolymerElement:
		v.TagName = f.TagName
	case *model.Import:
		if f.Document != nil {
			v.Target = f.Document.URL()
		}
		v.Lazy = f.Lazy
	case *model.Namespace:
		v.Description = f.Description
	case *model.Function:
		v.Description = f.Description
	case *model.DomModule:
		v.Description = f.Description
	}
	if cl, ok := f.(model.ClassLike); ok {
		c := cl.Base()
		v.Description = c.Description
		if c.SuperClass != nil {
			v.SuperClass = c.SuperClass.Identifier
		}
		for _, m := range c.Mixins {
			v.Mixins = append(v.Mixins, m.Identifier)
		}
		if c.Polymer != nil {
			for _, b := range c.Polymer.Behaviors {
				v.Behaviors = append(v.Behaviors, b.Identifier)
			}
		}
		v.Properties = c.Properties.Keys()
		v.Methods = c.Methods.Keys()
		v.Attributes = c.Attributes.Keys()
		v.Events = c.Events.Keys()
	}
	return v
}

func renderFeatures(out io.Writer, format string, views []featureView) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(views); err != nil {
			return err
		}
		return enc.Close()
	}
	for _, v := range views {
		name := strings.Join(v.Identifiers, ", ")
		if name == "" {
			name = "(anonymous)"
		}
		fmt.Fprintf(out, "%-40s %s\n", name, strings.Join(v.Kinds, ","))
		if v.Location != "" {
			fmt.Fprintf(out, "    at %s\n", v.Location)
		}
		if v.SuperClass != "" {
			fmt.Fprintf(out, "    extends %s\n", v.SuperClass)
		}
		for _, line := range []struct {
			label string
			items []string
		}{
			{"mixins", v.Mixins},
			{"behaviors", v.Behaviors},
			{"properties", v.Properties},
			{"methods", v.Methods},
			{"attributes", v.Attributes},
			{"events", v.Events},
		} {
			if len(line.items) > 0 {
				fmt.Fprintf(out, "    %s: %s\n", line.label, strings.Join(line.items, ", "))
			}
		}
		if v.Target != "" {
			lazy := ""
			if v.Lazy {
				lazy = " (lazy)"
			}
			fmt.Fprintf(out, "    -> %s%s\n", v.Target, lazy)
		}
	}
	return nil
}
