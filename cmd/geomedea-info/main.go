// Command geomedea-info prints a geomedea file's header: schema, bounds,
// feature/page counts, and compression. It reads a local path or, given a
// URL, fetches the header and index over HTTP Range requests without
// downloading the feature pages.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/hauke96/sigolo/v2"

	"github.com/michaelkirk/geomedea"
	"github.com/michaelkirk/geomedea/coord"
	"github.com/michaelkirk/geomedea/header"
)

const version = "v0.1.0"

var cli struct {
	Logging string      `help:"Logging verbosity." enum:"info,debug,trace" short:"l" default:"info"`
	Version VersionFlag `help:"Print version information and quit." name:"version" short:"v"`
	JSON    bool        `help:"Emit the header as a JSON object instead of plain text." name:"json"`
	Path    string      `help:"Path to a local geomedea file, or a URL of one served over HTTP Range requests." arg:""`
}

type VersionFlag string

func (v VersionFlag) Decode(ctx *kong.DecodeContext) error { return nil }
func (v VersionFlag) IsBool() bool                         { return true }
func (v VersionFlag) BeforeApply(app *kong.Kong, vars kong.Vars) error {
	fmt.Println(vars["version"])
	app.Exit(0)
	return nil
}

func main() {
	kong.Parse(
		&cli,
		kong.Name("geomedea-info"),
		kong.Description("Print a geomedea file's header."),
		kong.Vars{"version": version},
	)

	switch strings.ToLower(cli.Logging) {
	case "debug":
		sigolo.SetDefaultLogLevel(sigolo.LOG_DEBUG)
	case "trace":
		sigolo.SetDefaultLogLevel(sigolo.LOG_TRACE)
	default:
		sigolo.SetDefaultLogLevel(sigolo.LOG_INFO)
	}
	sigolo.SetDefaultFormatFunctionAll(sigolo.LogPlain)

	h, err := readHeader(cli.Path)
	sigolo.FatalCheck(err)

	if cli.JSON {
		printJSON(h)
	} else {
		printPlain(h)
	}
}

func readHeader(path string) (header.Header, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		sigolo.Debugf("opening remote file %s", path)
		f, err := geomedea.OpenRemote(context.Background(), path)
		if err != nil {
			return header.Header{}, err
		}
		return f.Header(), nil
	}

	sigolo.Debugf("opening local file %s", path)
	f, err := geomedea.Open(path)
	if err != nil {
		return header.Header{}, err
	}
	defer f.Close()
	return f.Header(), nil
}

type infoJSON struct {
	Version           uint32   `json:"version"`
	Compression       string   `json:"compression"`
	HilbertOrder      uint8    `json:"hilbert_order"`
	BranchingFactor   uint8    `json:"branching_factor"`
	SchemaFingerprint uint64   `json:"schema_fingerprint"`
	Fields            []string `json:"fields"`
	MinLng            float64  `json:"min_lng"`
	MinLat            float64  `json:"min_lat"`
	MaxLng            float64  `json:"max_lng"`
	MaxLat            float64  `json:"max_lat"`
	PageCount         uint64   `json:"page_count"`
	FeatureCount      uint64   `json:"feature_count"`
	IndexNodeCount    uint64   `json:"index_node_count"`
	IndexByteOffset   uint64   `json:"index_byte_offset"`
	FeatureByteOffset uint64   `json:"feature_byte_offset"`
}

func toJSON(h header.Header) infoJSON {
	fields := make([]string, len(h.Schema.Fields))
	for i, f := range h.Schema.Fields {
		fields[i] = fmt.Sprintf("%s:%s", f.Name, f.Kind)
	}
	return infoJSON{
		Version:           h.Version,
		Compression:       h.Compression.String(),
		HilbertOrder:      h.HilbertOrder,
		BranchingFactor:   h.BranchingFactor,
		SchemaFingerprint: h.SchemaFingerprint,
		Fields:            fields,
		MinLng:            coord.ToFloat(h.TotalBounds.MinLng),
		MinLat:            coord.ToFloat(h.TotalBounds.MinLat),
		MaxLng:            coord.ToFloat(h.TotalBounds.MaxLng),
		MaxLat:            coord.ToFloat(h.TotalBounds.MaxLat),
		PageCount:         h.PageCount,
		FeatureCount:      h.FeatureCount,
		IndexNodeCount:    h.IndexNodeCount,
		IndexByteOffset:   h.IndexByteOffset,
		FeatureByteOffset: h.FeatureByteOffset,
	}
}

func printJSON(h header.Header) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	sigolo.FatalCheck(enc.Encode(toJSON(h)))
}

func printPlain(h header.Header) {
	info := toJSON(h)
	fmt.Printf("version:            %d\n", info.Version)
	fmt.Printf("compression:        %s\n", info.Compression)
	fmt.Printf("hilbert order:      %d\n", info.HilbertOrder)
	fmt.Printf("branching factor:   %d\n", info.BranchingFactor)
	fmt.Printf("schema fingerprint: %#x\n", info.SchemaFingerprint)
	fmt.Printf("fields:             %s\n", strings.Join(info.Fields, ", "))
	fmt.Printf("bounds:             [%.7f, %.7f, %.7f, %.7f]\n", info.MinLng, info.MinLat, info.MaxLng, info.MaxLat)
	fmt.Printf("pages:              %d\n", info.PageCount)
	fmt.Printf("features:           %d\n", info.FeatureCount)
	fmt.Printf("index nodes:        %d\n", info.IndexNodeCount)
	fmt.Printf("index offset:       %d\n", info.IndexByteOffset)
	fmt.Printf("feature offset:     %d\n", info.FeatureByteOffset)
}
