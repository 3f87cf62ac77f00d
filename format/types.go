// Package format defines the small stable enums shared by every geomedea
// codec: the file magic/version, compression kind, geometry tag, and
// property kind. Keeping these in one leaf package (mirroring the
// teacher's format.EncodingType/CompressionType split) avoids import
// cycles between coord/geo/property/page/header.
package format

type (
	// CompressionKind identifies how a page's body bytes are framed.
	CompressionKind uint8
	// GeometryType is the geometry tag byte's stable discriminator value.
	GeometryType uint8
	// PropertyKind is a schema-declared property's stable discriminator value.
	PropertyKind uint8
)

const (
	// Magic is the file's leading 8 bytes.
	Magic = "geomedea"
	// Version is the current on-disk format version.
	Version uint32 = 3
	// HilbertOrder is the reference Hilbert curve order (a 2^16 x 2^16 grid).
	HilbertOrder uint8 = 16
	// BranchingFactor is the reference R-tree branching factor.
	BranchingFactor uint8 = 16
	// PageBudget is the reference uncompressed page-size target in bytes.
	PageBudget = 65536
	// CoalesceGap is the reference maximum gap (in bytes) the range planner
	// will bridge rather than issue a second HTTP request for.
	CoalesceGap = 32768
)

const (
	CompressionNone CompressionKind = 0
	CompressionZstd CompressionKind = 1
)

func (c CompressionKind) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	default:
		return "Unknown"
	}
}

// Valid reports whether c is a known compression kind.
func (c CompressionKind) Valid() bool {
	switch c {
	case CompressionNone, CompressionZstd:
		return true
	default:
		return false
	}
}

const (
	GeometryPoint              GeometryType = 1
	GeometryLineString         GeometryType = 2
	GeometryPolygon            GeometryType = 3
	GeometryMultiPoint         GeometryType = 4
	GeometryMultiLineString    GeometryType = 5
	GeometryMultiPolygon       GeometryType = 6
	GeometryGeometryCollection GeometryType = 7
)

func (g GeometryType) String() string {
	switch g {
	case GeometryPoint:
		return "Point"
	case GeometryLineString:
		return "LineString"
	case GeometryPolygon:
		return "Polygon"
	case GeometryMultiPoint:
		return "MultiPoint"
	case GeometryMultiLineString:
		return "MultiLineString"
	case GeometryMultiPolygon:
		return "MultiPolygon"
	case GeometryGeometryCollection:
		return "GeometryCollection"
	default:
		return "Unknown"
	}
}

const (
	PropertyBool   PropertyKind = 1
	PropertyI64    PropertyKind = 2
	PropertyU64    PropertyKind = 3
	PropertyF64    PropertyKind = 4
	PropertyString PropertyKind = 5
	PropertyBytes  PropertyKind = 6
)

func (k PropertyKind) String() string {
	switch k {
	case PropertyBool:
		return "Bool"
	case PropertyI64:
		return "I64"
	case PropertyU64:
		return "U64"
	case PropertyF64:
		return "F64"
	case PropertyString:
		return "String"
	case PropertyBytes:
		return "Bytes"
	default:
		return "Unknown"
	}
}

// Valid reports whether k is a known property kind.
func (k PropertyKind) Valid() bool {
	switch k {
	case PropertyBool, PropertyI64, PropertyU64, PropertyF64, PropertyString, PropertyBytes:
		return true
	default:
		return false
	}
}

// FlagIndexFirst marks the header→index→features layout (spec §9 open
// question, resolved: this is the only layout this implementation writes
// or reads).
const FlagIndexFirst uint16 = 1 << 0
